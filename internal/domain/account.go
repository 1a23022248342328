package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Account is a registered principal. Exactly one of Email or Phone is set,
// depending on which identifier the principal registered with.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        *string   `db:"email" json:"email,omitempty"`
	Phone        *string   `db:"phone_number" json:"phone_number,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

var ErrAccountIdentifier = errors.New("account requires exactly one of email or phone")

// NewAccount builds an account with the single-identifier invariant checked.
func NewAccount(email, phone *string, passwordHash string) (*Account, error) {
	if (email == nil) == (phone == nil) {
		return nil, ErrAccountIdentifier
	}
	return &Account{Email: email, Phone: phone, PasswordHash: passwordHash}, nil
}

// Identifier returns the string used as the bearer-token subject: the email
// if present, otherwise the phone number, otherwise the account ID.
func (a *Account) Identifier() string {
	if a.Email != nil && *a.Email != "" {
		return *a.Email
	}
	if a.Phone != nil && *a.Phone != "" {
		return *a.Phone
	}
	return a.ID.String()
}
