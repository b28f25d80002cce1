package repository

import (
	"context"
	"database/sql"
	"errors"

	"authgate/internal/credentials/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a credential repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUserID returns the password credential for the user, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*domain.Credential, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, password_hash, created_at, updated_at
		FROM user_credentials WHERE user_id = $1`, userID)
	var c domain.Credential
	err := row.Scan(&c.ID, &c.UserID, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create persists the credential. The credential must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Credential) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_credentials (id, user_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, c.PasswordHash, c.CreatedAt, c.UpdatedAt,
	)
	return err
}
