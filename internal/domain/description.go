package domain

import (
	"time"

	"github.com/google/uuid"
)

// DescriptionSource tells which input produced a generated description.
const (
	DescriptionSourceText  = "text"
	DescriptionSourceImage = "image"
)

// Description is one generated product description, kept as history when the
// request was authenticated.
type Description struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	AccountID *uuid.UUID `db:"account_id" json:"account_id,omitempty"`
	Source    string     `db:"source" json:"source"`
	Style     string     `db:"style" json:"style"`
	Content   string     `db:"content" json:"content"`
	ImageURL  *string    `db:"image_url" json:"image_url,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Summary returns the leading part of the content for history listings.
// Truncation counts runes, never splitting a multi-byte character.
func (d *Description) Summary() string {
	const max = 200
	count := 0
	for i := range d.Content {
		if count == max {
			return d.Content[:i] + "..."
		}
		count++
	}
	return d.Content
}
