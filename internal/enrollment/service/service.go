package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"authgate/internal/audit"
	auditdomain "authgate/internal/audit/domain"
	"authgate/internal/phone"
	userdomain "authgate/internal/user/domain"
	"authgate/internal/verify"
)

// Sentinel errors for the enrollment service; handler maps them to HTTP codes.
var (
	ErrInvalidPhoneNumber      = errors.New("invalid phone number")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrUserNotFound            = errors.New("user not found")
)

const minVerificationCodeLen = 4

// UserRepo is the minimal user repository needed by the enrollment service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	SetSecondFactor(ctx context.Context, userID, phone, secondFactorID string) error
}

// Service implements phone enrollment: sending a verification code to a phone
// number and binding the confirmed number as the user's second factor.
type Service struct {
	users    UserRepo
	provider verify.Provider
	auditor  audit.AuditLogger
}

// NewService returns an enrollment Service with the given dependencies.
func NewService(users UserRepo, provider verify.Provider, auditor audit.AuditLogger) *Service {
	if auditor == nil {
		auditor = audit.NopLogger{}
	}
	return &Service{users: users, provider: provider, auditor: auditor}
}

// StartVerification parses rawPhone and asks the verification provider to send
// a code to it via SMS. The user's stored phone is not touched; nothing is
// persisted until RegisterPhone succeeds.
func (s *Service) StartVerification(ctx context.Context, userID, rawPhone string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	num, err := phone.Parse(rawPhone)
	if err != nil {
		s.auditor.LogEvent(ctx, userID, auditdomain.ActionPhoneVerify, auditdomain.OutcomeFailure, "invalid phone")
		return ErrInvalidPhoneNumber
	}
	if err := s.provider.StartCheck(ctx, num.National, num.CountryCode); err != nil {
		s.auditor.LogEvent(ctx, userID, auditdomain.ActionPhoneVerify, auditdomain.OutcomeFailure, verify.Reason(err))
		return err
	}
	s.auditor.LogEvent(ctx, userID, auditdomain.ActionPhoneVerify, auditdomain.OutcomeSuccess, "")
	return nil
}

// RegisterPhone checks the code the user received, registers the user with the
// verification provider, and binds the phone number and provider-issued second
// factor id to the user. The two fields are written together in one update, so
// the user is never left with a phone but no second factor or the reverse.
func (s *Service) RegisterPhone(ctx context.Context, userID, rawPhone, code string) error {
	code = strings.TrimSpace(code)
	if len(code) < minVerificationCodeLen {
		return ErrInvalidVerificationCode
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	num, err := phone.Parse(rawPhone)
	if err != nil {
		s.auditor.LogEvent(ctx, userID, auditdomain.ActionPhoneRegister, auditdomain.OutcomeFailure, "invalid phone")
		return ErrInvalidPhoneNumber
	}
	if err := s.provider.VerifyCheck(ctx, num.National, num.CountryCode, code); err != nil {
		s.auditor.LogEvent(ctx, userID, auditdomain.ActionPhoneRegister, auditdomain.OutcomeFailure, verify.Reason(err))
		// Keep the provider error in the chain so its reason reaches the caller.
		return fmt.Errorf("%w: %w", ErrInvalidVerificationCode, err)
	}
	secondFactorID, err := s.provider.RegisterPrincipal(ctx, user.Email, num.National, num.CountryCode, true)
	if err != nil {
		s.auditor.LogEvent(ctx, userID, auditdomain.ActionPhoneRegister, auditdomain.OutcomeFailure, verify.Reason(err))
		return err
	}
	if err := s.users.SetSecondFactor(ctx, userID, num.E164, secondFactorID); err != nil {
		return err
	}
	s.auditor.LogEvent(ctx, userID, auditdomain.ActionPhoneRegister, auditdomain.OutcomeSuccess, num.E164)
	return nil
}
