package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure independently of the HTTP status it maps to.
type Kind string

const (
	KindMethodNotAllowed   Kind = "method_not_allowed"
	KindInvalidInput       Kind = "invalid_input"
	KindVerificationFailed Kind = "verification_failed"
	KindInvalidSignature   Kind = "invalid_signature"
	KindServiceUnavailable Kind = "service_unavailable"
	KindUpstream           Kind = "upstream_error"
	KindRateLimited        Kind = "rate_limited"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func MethodNotAllowed(message string) *Error {
	return New(KindMethodNotAllowed, http.StatusMethodNotAllowed, message, nil)
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, http.StatusBadRequest, message, nil)
}

func VerificationFailed(message string) *Error {
	return New(KindVerificationFailed, http.StatusForbidden, message, nil)
}

// InvalidSignature wraps a webhook verification failure. The message carries the
// verifier's reason so the caller can echo it back.
func InvalidSignature(err error) *Error {
	return New(KindInvalidSignature, http.StatusBadRequest, "Webhook Error: "+reason(err), err)
}

// ServiceUnavailable reports missing deployment configuration. It maps to 500
// because the handlers' callers only distinguish client and server failures.
func ServiceUnavailable(message string) *Error {
	return New(KindServiceUnavailable, http.StatusInternalServerError, message, nil)
}

func Upstream(message string, err error) *Error {
	return New(KindUpstream, http.StatusInternalServerError, message, err)
}

func RateLimited(message string) *Error {
	return New(KindRateLimited, http.StatusTooManyRequests, message, nil)
}

// As extracts an *Error from err. Unclassified errors become a 500
// "Internal server error".
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Upstream("Internal server error", err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func reason(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
