package http

import (
	"time"

	"github.com/describo/describo-backend/internal/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}

// MessageResponse carries a human-readable status message.
type MessageResponse struct {
	Message string `json:"message" example:"a verification code has been sent to your email"`
}

// AccountOut is the sanitized account representation returned by auth
// endpoints. Exactly one of email and phone_number is set.
type AccountOut struct {
	ID          string  `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Email       *string `json:"email,omitempty" example:"user@example.com"`
	PhoneNumber *string `json:"phone_number,omitempty" example:"0912345678"`
	CreatedAt   string  `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// TokenResponse is returned by endpoints that issue bearer tokens.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresAt   string `json:"expires_at" example:"2024-01-02T09:30:00Z"`
}

// CredentialsRequest carries identifier/password pairs for register and
// login. The identifier may be an email address or a phone number.
type CredentialsRequest struct {
	Identifier string `json:"identifier" example:"user@example.com"`
	Password   string `json:"password" example:"secret1"`
}

// ForgotPasswordRequest captures the payload for requesting a reset code.
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" example:"user@example.com"`
}

// ResetPasswordRequest captures the payload for confirming a reset.
type ResetPasswordRequest struct {
	Identifier  string `json:"identifier" example:"user@example.com"`
	Token       string `json:"token" example:"042519"`
	NewPassword string `json:"new_password" example:"secret2"`
}

// ChangePasswordRequest captures the payload for authenticated password
// updates.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" example:"secret1"`
	NewPassword     string `json:"new_password" example:"secret2"`
}

// DescriptionOut is one generated description, as returned by the content
// endpoints and history listing.
type DescriptionOut struct {
	ID              string  `json:"id"`
	Timestamp       string  `json:"timestamp"`
	Source          string  `json:"source" example:"text"`
	Style           string  `json:"style" example:"marketing"`
	Summary         string  `json:"summary"`
	FullDescription string  `json:"full_description"`
	ImageURL        *string `json:"image_url,omitempty"`
}

// GenerateTextRequest carries the text-generation payload.
type GenerateTextRequest struct {
	ProductInfo string `json:"product_info" example:"organic mango, 1kg box"`
	Style       string `json:"style" example:"marketing"`
}

func accountOut(account *domain.Account) AccountOut {
	return AccountOut{
		ID:          account.ID.String(),
		Email:       account.Email,
		PhoneNumber: account.Phone,
		CreatedAt:   account.CreatedAt.Format(time.RFC3339),
	}
}

func descriptionOut(description *domain.Description) DescriptionOut {
	return DescriptionOut{
		ID:              description.ID.String(),
		Timestamp:       description.CreatedAt.Format(time.RFC3339),
		Source:          description.Source,
		Style:           description.Style,
		Summary:         description.Summary(),
		FullDescription: description.Content,
		ImageURL:        description.ImageURL,
	}
}
