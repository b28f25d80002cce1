package domain

import "time"

// AuditLog represents an audit event.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Outcome   string
	IP        string
	Metadata  string
	CreatedAt time.Time
}

// Actions recorded by the authentication and enrollment flows.
const (
	ActionLogin         = "login"
	ActionStepUpSent    = "step_up_sent"
	ActionStepUpVerify  = "step_up_verify"
	ActionTokenRefresh  = "token_refresh"
	ActionLogout        = "logout"
	ActionPhoneVerify   = "phone_verify"
	ActionPhoneRegister = "phone_register"
)

// Outcomes for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
