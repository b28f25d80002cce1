package repository

import (
	"context"

	"authgate/internal/credentials/domain"
)

// Repository defines persistence for password credentials.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Credential, error)
	Create(ctx context.Context, c *domain.Credential) error
}
