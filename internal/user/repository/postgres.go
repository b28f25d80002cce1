package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"authgate/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, phone, second_factor_id, status, created_at, updated_at`

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByUsername returns the user with the given username, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, phone, second_factor_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Email, nullStr(u.Phone), nullStr(u.SecondFactorID),
		string(u.Status), u.CreatedAt, u.UpdatedAt,
	)
	return err
}

// SetSecondFactor writes phone and second_factor_id for the user in one
// statement. Concurrent enrollments resolve to the last writer; the pair is
// always written together.
func (r *PostgresRepository) SetSecondFactor(ctx context.Context, userID, phone, secondFactorID string) error {
	if phone == "" || secondFactorID == "" {
		return errors.New("phone and second_factor_id must both be set")
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET phone = $2, second_factor_id = $3, updated_at = $4 WHERE id = $1`,
		userID, phone, secondFactorID, time.Now().UTC(),
	)
	return err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var phone, secondFactorID sql.NullString
	var status string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &phone, &secondFactorID, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Phone = phone.String
	u.SecondFactorID = secondFactorID.String
	u.Status = domain.UserStatus(status)
	return &u, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
