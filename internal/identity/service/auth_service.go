package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"authgate/internal/audit"
	auditdomain "authgate/internal/audit/domain"
	"authgate/internal/credentials"
	"authgate/internal/security"
	"authgate/internal/server/middleware"
	sessiondomain "authgate/internal/session/domain"
	"authgate/internal/telemetry"
	userdomain "authgate/internal/user/domain"
	"authgate/internal/verify"
)

// Sentinel errors for the auth service; handler maps them to HTTP codes.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrProviderUnavailable = errors.New("step-up challenge could not be delivered")
	ErrStepUpNotApplicable = errors.New("user has no second factor enrolled")
	ErrInvalidStepUpCode   = errors.New("invalid step-up code")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrRefreshTokenReuse   = errors.New("refresh token reuse detected; all sessions revoked")
)

const minStepUpCodeLen = 7

// AuthResult holds the outcome of ObtainTokens, VerifyStepUp, or Refresh.
// When ChallengeSent is true no tokens were issued: a step-up code was
// delivered to the user's phone and the client must call VerifyStepUp.
type AuthResult struct {
	ChallengeSent bool
	AccessToken   string
	RefreshToken  string
	ExpiresAt     time.Time
	UserID        string
}

// CredentialChecker is the primary-credential check needed by the auth service.
type CredentialChecker interface {
	Check(ctx context.Context, username, password string) (*userdomain.User, error)
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Revoke(ctx context.Context, id string) error
	RevokeAllByUser(ctx context.Context, userID string) error
	UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// AuthService implements password login with phone step-up, token refresh,
// and logout. Tokens are only minted after every required factor has passed;
// there is no partially authenticated session.
type AuthService struct {
	creds       CredentialChecker
	sessionRepo SessionRepo
	provider    verify.Provider
	tokens      *security.TokenProvider
	auditor     audit.AuditLogger
	emitter     telemetry.EventEmitter
	refreshTTL  time.Duration
}

// NewAuthService returns an AuthService with the given dependencies.
// auditor and emitter may be nil.
func NewAuthService(
	creds CredentialChecker,
	sessionRepo SessionRepo,
	provider verify.Provider,
	tokens *security.TokenProvider,
	auditor audit.AuditLogger,
	emitter telemetry.EventEmitter,
	refreshTTL time.Duration,
) *AuthService {
	if auditor == nil {
		auditor = audit.NopLogger{}
	}
	return &AuthService{
		creds:       creds,
		sessionRepo: sessionRepo,
		provider:    provider,
		tokens:      tokens,
		auditor:     auditor,
		emitter:     emitter,
		refreshTTL:  refreshTTL,
	}
}

// ObtainTokens authenticates with username/password. Users without a phone
// second factor get tokens immediately. Users with one get a challenge code
// sent to their phone instead; the result has ChallengeSent set and no tokens.
// Returns ErrProviderUnavailable when the challenge could not be delivered.
func (s *AuthService) ObtainTokens(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.creds.Check(ctx, username, password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			s.auditor.LogEvent(ctx, "", auditdomain.ActionLogin, auditdomain.OutcomeFailure, "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if userdomain.TwoFAEnabled(user) {
		// force redelivery so a stale undelivered code never blocks login
		if err := s.provider.RequestStepUp(ctx, user.SecondFactorID, true); err != nil {
			s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionStepUpSent, auditdomain.OutcomeFailure, verify.Reason(err))
			return nil, ErrProviderUnavailable
		}
		s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionStepUpSent, auditdomain.OutcomeSuccess, "")
		s.emit(ctx, user.ID, "", "step_up_sent")
		return &AuthResult{ChallengeSent: true, UserID: user.ID}, nil
	}
	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionLogin, auditdomain.OutcomeSuccess, "")
	s.emit(ctx, user.ID, "", "login")
	return result, nil
}

// VerifyStepUp completes a step-up login: it re-checks the primary credentials
// and then verifies the code the user received on their phone. Tokens are
// issued only when both checks pass.
func (s *AuthService) VerifyStepUp(ctx context.Context, username, password, code string) (*AuthResult, error) {
	user, err := s.creds.Check(ctx, username, password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			s.auditor.LogEvent(ctx, "", auditdomain.ActionStepUpVerify, auditdomain.OutcomeFailure, "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !userdomain.TwoFAEnabled(user) {
		return nil, ErrStepUpNotApplicable
	}
	code = strings.TrimSpace(code)
	if len(code) < minStepUpCodeLen {
		s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionStepUpVerify, auditdomain.OutcomeFailure, "code too short")
		return nil, ErrInvalidStepUpCode
	}
	if err := s.provider.VerifyStepUp(ctx, user.SecondFactorID, code); err != nil {
		s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionStepUpVerify, auditdomain.OutcomeFailure, verify.Reason(err))
		return nil, ErrInvalidStepUpCode
	}
	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.auditor.LogEvent(ctx, user.ID, auditdomain.ActionStepUpVerify, auditdomain.OutcomeSuccess, "")
	s.emit(ctx, user.ID, "", "step_up_verified")
	return result, nil
}

// Refresh validates the refresh token, rotates it, and returns new tokens.
// A refresh token whose jti no longer matches the session is treated as
// reuse: every session for the user is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	sessionID, jti, userID, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.RevokedAt != nil {
		return nil, ErrInvalidRefreshToken
	}
	if sess.RefreshJti != jti {
		_ = s.sessionRepo.RevokeAllByUser(ctx, userID)
		s.auditor.LogEvent(ctx, userID, auditdomain.ActionTokenRefresh, auditdomain.OutcomeFailure, "refresh token reuse")
		return nil, ErrRefreshTokenReuse
	}
	if sess.RefreshTokenHash != "" && !security.RefreshTokenHashEqual(refreshToken, sess.RefreshTokenHash) {
		return nil, ErrInvalidRefreshToken
	}
	now := time.Now().UTC()
	_ = s.sessionRepo.UpdateLastSeen(ctx, sessionID, now)
	newRefresh, newJti, _, err := s.tokens.IssueRefresh(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.UpdateRefreshToken(ctx, sessionID, newJti, security.HashRefreshToken(newRefresh)); err != nil {
		return nil, err
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(sessionID, userID)
	if err != nil {
		return nil, err
	}
	s.auditor.LogEvent(ctx, userID, auditdomain.ActionTokenRefresh, auditdomain.OutcomeSuccess, "")
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    accessExp,
		UserID:       userID,
	}, nil
}

// Logout revokes the session identified by the refresh token or by the access
// token in context. If refreshToken is non-empty, validates it and revokes
// that session. Otherwise revokes the session set by the auth middleware.
// Invalid tokens are a no-op; logout never fails for the client.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		sessionID, _, userID, err := s.tokens.ValidateRefresh(refreshToken)
		if err != nil {
			return nil
		}
		s.auditor.LogEvent(ctx, userID, auditdomain.ActionLogout, auditdomain.OutcomeSuccess, "")
		return s.sessionRepo.Revoke(ctx, sessionID)
	}
	sessionID, ok := middleware.GetSessionID(ctx)
	if !ok {
		return nil
	}
	userID, _ := middleware.GetUserID(ctx)
	s.auditor.LogEvent(ctx, userID, auditdomain.ActionLogout, auditdomain.OutcomeSuccess, "")
	return s.sessionRepo.Revoke(ctx, sessionID)
}

func (s *AuthService) startSession(ctx context.Context, user *userdomain.User) (*AuthResult, error) {
	sessionID := uuid.New().String()
	now := time.Now().UTC()
	refreshToken, jti, _, err := s.tokens.IssueRefresh(sessionID, user.ID)
	if err != nil {
		return nil, err
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(sessionID, user.ID)
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		ExpiresAt:        now.Add(s.refreshTTL),
		IPAddress:        middleware.ClientIP(ctx),
		RefreshJti:       jti,
		RefreshTokenHash: security.HashRefreshToken(refreshToken),
		CreatedAt:        now,
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
		UserID:       user.ID,
	}, nil
}

func (s *AuthService) emit(ctx context.Context, userID, sessionID, eventType string) {
	if s.emitter == nil {
		return
	}
	event := &telemetry.Event{
		UserID:    userID,
		SessionID: sessionID,
		EventType: eventType,
		Source:    "auth_service",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		log.Printf("telemetry: emit %s failed: %v", eventType, err)
	}
}
