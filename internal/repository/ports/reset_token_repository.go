package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/describo/describo-backend/internal/domain"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, accountID uuid.UUID, codeHash string, expiresAt time.Time) (*domain.ResetToken, error)
	// InvalidateUnusedByAccount marks every unused token of the account as
	// used and returns how many were affected.
	InvalidateUnusedByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	FindLatestUnusedByAccount(ctx context.Context, accountID uuid.UUID) (*domain.ResetToken, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	// Delete removes a token outright. Rollback path only, when out-of-band
	// delivery of the code failed.
	Delete(ctx context.Context, id uuid.UUID) error
}
