// Package credentials implements the primary-credential check consumed by the
// step-up authentication flow.
package credentials

import (
	"context"
	"errors"
	"strings"

	credentialdomain "authgate/internal/credentials/domain"
	"authgate/internal/security"
	userdomain "authgate/internal/user/domain"
)

// ErrInvalidCredentials is returned for any primary-auth failure: unknown
// username, disabled account, missing credential, or password mismatch. The
// message is uniform to avoid user enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepo is the minimal user repository needed by the verifier.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
}

// CredentialRepo is the minimal credential repository needed by the verifier.
type CredentialRepo interface {
	GetByUserID(ctx context.Context, userID string) (*credentialdomain.Credential, error)
}

// Verifier checks username/password pairs against the user store.
type Verifier struct {
	users  UserRepo
	creds  CredentialRepo
	hasher *security.Hasher
}

// NewVerifier returns a Verifier with the given dependencies.
func NewVerifier(users UserRepo, creds CredentialRepo, hasher *security.Hasher) *Verifier {
	return &Verifier{users: users, creds: creds, hasher: hasher}
}

// Check resolves username and verifies password. Returns the user on success
// and ErrInvalidCredentials on any authentication failure; other errors are
// store failures.
func (v *Verifier) Check(ctx context.Context, username, password string) (*userdomain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := v.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != userdomain.UserStatusActive {
		return nil, ErrInvalidCredentials
	}
	cred, err := v.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := v.hasher.Compare(cred.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
