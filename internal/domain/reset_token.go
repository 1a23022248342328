package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResetToken is one outstanding password-reset attempt. The plaintext code is
// never stored, only its hash. Used is monotonic: once true it never reverts,
// so a token is acceptable at most once.
type ResetToken struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	CodeHash  string    `db:"code_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ExpiredAt reports whether the token is no longer acceptable at the given
// instant. A code submitted at exactly ExpiresAt is already expired.
func (t *ResetToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
