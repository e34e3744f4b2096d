package auth

import (
	"fmt"
	"net/http"
)

// Kind classifies a login flow failure. Each kind maps to one HTTP
// status and one short user-visible message; causes stay in the logs.
type Kind string

const (
	KindConfiguration  Kind = "configuration_error"
	KindInvalidRequest Kind = "invalid_request"
	KindCSRFMismatch   Kind = "csrf_mismatch"
	KindTokenExchange  Kind = "token_exchange_failed"
	KindProfileFetch   Kind = "profile_fetch_failed"
	KindInternal       Kind = "internal_auth_error"
)

// Error is a classified login flow failure. Message is safe to show to
// the user and never carries token or secret values.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status code for this failure kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindConfiguration, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}
