// Package verify defines the verification-provider boundary used by the
// enrollment and step-up flows. The provider owns all challenge state:
// nothing about a pending code is stored locally.
package verify

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the phone-verification and step-up-token service consumed by
// the core flows. Implementations are synchronous and perform no retries;
// a failed call fails the whole request.
type Provider interface {
	// StartCheck asks the provider to send a short verification code to the
	// given number. The pending code lives only at the provider.
	StartCheck(ctx context.Context, nationalNumber string, countryCode int) error
	// VerifyCheck checks a submitted verification code against the pending
	// challenge for the number. The challenge is single use.
	VerifyCheck(ctx context.Context, nationalNumber string, countryCode int, code string) error
	// RegisterPrincipal registers the user as a second-factor principal and
	// returns the provider-assigned second-factor ID.
	RegisterPrincipal(ctx context.Context, email, nationalNumber string, countryCode int, enabled bool) (string, error)
	// RequestStepUp asks the provider to deliver a step-up code out of band
	// for the given second-factor ID. force requests redelivery even when a
	// recent code is still valid.
	RequestStepUp(ctx context.Context, secondFactorID string, force bool) error
	// VerifyStepUp checks a submitted step-up code for the second-factor ID.
	VerifyStepUp(ctx context.Context, secondFactorID, code string) error
}

// ProviderError is returned when the provider declined a call. Reason is the
// provider-supplied message and is safe to surface to the caller.
type ProviderError struct {
	Op     string
	Reason string
}

func (e *ProviderError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("verify: %s rejected", e.Op)
	}
	return fmt.Sprintf("verify: %s rejected: %s", e.Op, e.Reason)
}

// Reason returns the provider-supplied reason from err if it is a
// ProviderError, or the empty string.
func Reason(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ""
}
