package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/describo/describo-backend/internal/domain"
)

type DescriptionRepository struct {
	db *sqlx.DB
}

func NewDescriptionRepo(db *sqlx.DB) *DescriptionRepository {
	return &DescriptionRepository{db: db}
}

func (r *DescriptionRepository) Create(ctx context.Context, description *domain.Description) (*domain.Description, error) {
	const query = `
        INSERT INTO description (account_id, source, style, content, image_url)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, account_id, source, style, content, image_url, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, description.AccountID, description.Source, description.Style, description.Content, description.ImageURL)
	var created domain.Description
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *DescriptionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Description, error) {
	const query = `
        SELECT id, account_id, source, style, content, image_url, created_at
        FROM description
        WHERE account_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	descriptions := []domain.Description{}
	if err := r.db.SelectContext(ctx, &descriptions, query, accountID, limit); err != nil {
		return nil, err
	}
	return descriptions, nil
}
