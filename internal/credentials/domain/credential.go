package domain

import "time"

// Credential holds a user's password credential. Hashing and comparison are
// the credential verifier's concern; the auth flows never see the hash.
type Credential struct {
	ID           string
	UserID       string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
