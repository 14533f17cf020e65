package repository

import (
	"context"
	"errors"

	"legalrag-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAPIUserNotFound = errors.New("api user not found")

// APIUserRepository handles database operations for API callers
type APIUserRepository struct {
	db *pgxpool.Pool
}

// NewAPIUserRepository creates a new API user repository
func NewAPIUserRepository(db *pgxpool.Pool) *APIUserRepository {
	return &APIUserRepository{db: db}
}

// Create inserts a user; KeyHash must already be a bcrypt hash
func (r *APIUserRepository) Create(ctx context.Context, user *models.APIUser) error {
	query := `
		INSERT INTO api_users (email, key_prefix, key_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		user.Email,
		user.KeyPrefix,
		user.KeyHash,
		user.Name,
	).Scan(&user.ID, &user.CreatedAt)
}

// GetByEmail retrieves a user by email
func (r *APIUserRepository) GetByEmail(ctx context.Context, email string) (*models.APIUser, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

// GetByKeyPrefix retrieves the user owning the key with the given public prefix
func (r *APIUserRepository) GetByKeyPrefix(ctx context.Context, prefix string) (*models.APIUser, error) {
	return r.getOne(ctx, `WHERE key_prefix = $1`, prefix)
}

// TouchLastUsed records that the user's key was just accepted
func (r *APIUserRepository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE api_users SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *APIUserRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.APIUser, error) {
	user := &models.APIUser{}
	query := `
		SELECT id, email, key_prefix, key_hash, name, created_at, last_used_at
		FROM api_users ` + where

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.KeyPrefix,
		&user.KeyHash,
		&user.Name,
		&user.CreatedAt,
		&user.LastUsedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAPIUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
