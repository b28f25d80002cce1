package repository

import (
	"context"

	"authgate/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// SetSecondFactor writes phone and second_factor_id in a single update so
	// the pair is never observable half-set. Both must be non-empty.
	SetSecondFactor(ctx context.Context, userID, phone, secondFactorID string) error
}
