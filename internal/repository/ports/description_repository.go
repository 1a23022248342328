package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/describo/describo-backend/internal/domain"
)

type DescriptionRepository interface {
	Create(ctx context.Context, description *domain.Description) (*domain.Description, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Description, error)
}
