package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/describo/describo-backend/internal/domain"
)

type ResetTokenRepository struct {
	db *sqlx.DB
}

func NewResetTokenRepo(db *sqlx.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, accountID uuid.UUID, codeHash string, expiresAt time.Time) (*domain.ResetToken, error) {
	const query = `
        INSERT INTO password_reset_token (account_id, code_hash, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, account_id, code_hash, expires_at, used, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, accountID, codeHash, expiresAt)
	var token domain.ResetToken
	if err := row.StructScan(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *ResetTokenRepository) InvalidateUnusedByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	const query = `
        UPDATE password_reset_token
        SET used = TRUE
        WHERE account_id = $1 AND used = FALSE
    `
	res, err := r.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ResetTokenRepository) FindLatestUnusedByAccount(ctx context.Context, accountID uuid.UUID) (*domain.ResetToken, error) {
	const query = `
        SELECT id, account_id, code_hash, expires_at, used, created_at
        FROM password_reset_token
        WHERE account_id = $1 AND used = FALSE
        ORDER BY created_at DESC
        LIMIT 1
    `
	var token domain.ResetToken
	if err := r.db.GetContext(ctx, &token, query, accountID); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE password_reset_token
        SET used = TRUE
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *ResetTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM password_reset_token WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
