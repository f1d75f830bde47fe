package botvac

import (
	"fmt"
	"strings"
)

// AuthReason classifies credential and protocol rejections.
type AuthReason string

const (
	AuthUnauthenticated    AuthReason = "unauthenticated"
	AuthInvalidCredentials AuthReason = "invalid_credentials"
	AuthInvalidCode        AuthReason = "invalid_code"
	AuthExpired            AuthReason = "expired"
)

// AuthError reports a credential rejection. It is never retried
// automatically; callers own reauthentication.
type AuthError struct {
	Reason AuthReason
	Status int
	Detail string
}

func (e AuthError) Error() string {
	msg := fmt.Sprintf("auth error (%s)", e.Reason)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: http %d", msg, e.Status)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, strings.TrimSpace(e.Detail))
	}
	return msg
}

// TransportError reports a network or HTTP-layer failure. A single
// failed attempt surfaces immediately; no retries are performed at
// this layer.
type TransportError struct {
	Op  string
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a vendor response missing an expected
// field. Partial results are never silently defaulted.
type MalformedResponseError struct {
	Field string
	Err   error
}

func (e MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed vendor response: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed vendor response: missing %s", e.Field)
}

func (e MalformedResponseError) Unwrap() error { return e.Err }

// UnsupportedCapabilityError reports a requested mode that this robot
// cannot perform. It is raised before any network call.
type UnsupportedCapabilityError struct {
	Capability string
	Value      string
	Trait      string
}

func (e UnsupportedCapabilityError) Error() string {
	if e.Trait != "" {
		return fmt.Sprintf("unsupported %s %q: robot lacks trait %q", e.Capability, e.Value, e.Trait)
	}
	return fmt.Sprintf("unsupported %s %q", e.Capability, e.Value)
}
