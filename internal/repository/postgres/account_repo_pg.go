package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/describo/describo-backend/internal/domain"
)

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	const query = `
        INSERT INTO account (email, phone_number, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, email, phone_number, password_hash, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, account.Email, account.Phone, account.PasswordHash)
	var created domain.Account
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, phone_number, password_hash, created_at, updated_at
        FROM account
        WHERE email = $1
    `
	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	const query = `
        SELECT id, email, phone_number, password_hash, created_at, updated_at
        FROM account
        WHERE phone_number = $1
    `
	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, phone); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	const query = `
        SELECT id, email, phone_number, password_hash, created_at, updated_at
        FROM account
        WHERE id = $1
    `
	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `
        UPDATE account
        SET password_hash = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, passwordHash)
	return err
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	const query = `
        SELECT id, email, phone_number, password_hash, created_at, updated_at
        FROM account
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	accounts := []domain.Account{}
	if err := r.db.SelectContext(ctx, &accounts, query, limit, offset); err != nil {
		return nil, err
	}
	return accounts, nil
}
