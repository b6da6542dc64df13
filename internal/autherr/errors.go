package autherr

import (
	"errors"
	"fmt"
)

// Kind classifies an authorization or gateway failure. The set is closed:
// every error that crosses a package boundary in the auth flow carries
// exactly one of these.
type Kind string

const (
	KindConfiguration       Kind = "configuration_error"
	KindAuthorizationDenied Kind = "authorization_denied"
	KindMalformedCallback   Kind = "malformed_callback"
	KindCsrfMismatch        Kind = "csrf_mismatch"
	KindSessionCorruption   Kind = "session_corruption"
	KindTokenExchange       Kind = "token_exchange_failure"
	KindRefresh             Kind = "refresh_failure"
	KindRevoke              Kind = "revoke_failure"
	KindAPIFailure          Kind = "api_failure"
	KindUnauthenticated     Kind = "unauthenticated"
	KindSessionExpired      Kind = "session_expired"
)

// Error is an auth failure with a fixed user-facing message. Message is
// always drawn from the catalog in this package; raw provider or backend
// payloads never end up in it.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same Kind, so wrapped copies still compare
// equal to the package sentinels via errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

var (
	ErrUnauthenticated = &Error{
		Kind:    KindUnauthenticated,
		Message: "Authentication required. Please connect your TikTok account.",
	}
	ErrSessionExpired = &Error{
		Kind:    KindSessionExpired,
		Message: "Your session has expired. Please reconnect your account.",
	}
	ErrMalformedCallback = &Error{
		Kind:    KindMalformedCallback,
		Message: "Invalid sign-in response. Please try connecting again.",
	}
	ErrCsrfMismatch = &Error{
		Kind:    KindCsrfMismatch,
		Message: "Sign-in could not be verified. Please try connecting again from the app.",
	}
	ErrSessionCorruption = &Error{
		Kind:    KindSessionCorruption,
		Message: "Your sign-in session was interrupted. Please try connecting again.",
	}
)

// NewConfigError reports missing OAuth configuration.
func NewConfigError(detail string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: "TikTok OAuth is not configured. Check environment variables.",
		cause:   errors.New(detail),
	}
}

// IsKind reports whether err is an auth error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

const fallbackMessage = "An unexpected error occurred. Please try again."

// UserMessage extracts the user-facing text for any error. Unclassified
// errors get the generic fallback so nothing internal leaks to the user.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallbackMessage
}
