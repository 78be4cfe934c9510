package entity

import (
	"errors"
	"fmt"
)

// AuthKind classifies authentication failures.
type AuthKind string

const (
	AuthInvalidCredentials AuthKind = "invalid_credentials"
	AuthNetworkFailure     AuthKind = "network_failure"
	AuthMalformedResponse  AuthKind = "malformed_response"
)

// AuthError reports a failed login or registration. The message is meant
// for direct user display and distinguishes wrong credentials from an
// unreachable or misbehaving server.
type AuthError struct {
	Kind    AuthKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("authentication failed: %s", e.Kind)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationKind classifies local input validation failures.
type ValidationKind string

const (
	ValidationEmptyField        ValidationKind = "empty_field"
	ValidationNonPositiveAmount ValidationKind = "non_positive_amount"
	ValidationMissingCategory   ValidationKind = "missing_category"
	ValidationInvalidDate       ValidationKind = "invalid_date"
)

// ValidationError reports a draft rejected before any remote call.
type ValidationError struct {
	Field   string
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

// RemoteKind classifies failures of authenticated calls to the backend.
type RemoteKind string

const (
	RemoteUnauthorized   RemoteKind = "unauthorized"
	RemoteNotFound       RemoteKind = "not_found"
	RemoteServerError    RemoteKind = "server_error"
	RemoteNetworkFailure RemoteKind = "network_failure"
)

// RemoteError reports a failed call to the remote transaction store. The
// Message carries the server-provided reason when one was returned.
type RemoteError struct {
	Kind       RemoteKind
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case RemoteUnauthorized:
		return "session is no longer valid"
	case RemoteNotFound:
		return "the requested record was not found"
	case RemoteNetworkFailure:
		return "could not reach the server, check your connection"
	default:
		return fmt.Sprintf("server error (status %d)", e.StatusCode)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ErrStaleOperation marks the result of an in-flight remote call whose
// session generation changed before completion. The result has been
// discarded; callers should not surface this to the user.
var ErrStaleOperation = errors.New("operation superseded by session change")

// IsUnauthorized reports whether err is an explicit rejection of the
// bearer token. This is the sole trigger for a forced logout.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind == RemoteUnauthorized
	}
	return false
}

// IsTransient reports whether err is a connectivity problem rather than a
// definitive rejection. Transient failures must never tear down session
// state.
func IsTransient(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) && re.Kind == RemoteNetworkFailure {
		return true
	}
	var ae *AuthError
	if errors.As(err, &ae) && ae.Kind == AuthNetworkFailure {
		return true
	}
	return false
}
