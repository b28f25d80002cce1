package domain

import (
	"errors"
	"time"
)

// User is the core user entity. Phone and SecondFactorID are set together by
// enrollment, never independently; presence of the pair means the account is
// 2FA-enabled.
type User struct {
	ID             string
	Username       string
	Email          string
	Phone          string // E.164; empty until enrollment completes
	SecondFactorID string // provider-assigned; empty until enrollment completes
	Status         UserStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// TwoFAEnabled reports whether the user has completed second-factor
// enrollment. It is the sole predicate login flows consult.
func TwoFAEnabled(u *User) bool {
	return u != nil && u.Phone != "" && u.SecondFactorID != ""
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}
