package auth

import (
	"errors"
	"fmt"
)

// Error codes defined by RFC 8628 section 3.5.
const (
	errCodeAuthorizationPending = "authorization_pending"
	errCodeSlowDown             = "slow_down"
	errCodeAccessDenied         = "access_denied"
	errCodeExpiredToken         = "expired_token"
)

var (
	// ErrAccessDenied is returned when the user rejected the
	// authorization request in the browser.
	ErrAccessDenied = errors.New("authorization request denied")
	// ErrDeviceCodeExpired is returned when the device code expired
	// before the user completed the authorization.
	ErrDeviceCodeExpired = errors.New("device code expired")
)

// ProviderError carries a machine-readable error code returned by the
// authorization server, plus its human-readable description if present.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("provider error %s", e.Code)
}
