package adapter

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from HTTP status codes. An [*APIError] returned by
// the adapter wraps exactly one of them.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrPaymentRequired     = errors.New("payment required")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessable       = errors.New("unprocessable entity")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrUnexpectedStatus    = errors.New("unexpected status")

	// ErrUnexpectedResponse is returned when a response body is not the JSON
	// document the endpoint promises.
	ErrUnexpectedResponse = errors.New("server returned unexpected response (not JSON)")
)

// APIError is a non-2xx response. Detail holds the server's "detail" field
// verbatim and is empty when the body carried none.
type APIError struct {
	StatusCode int
	Detail     string

	sentinel error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.sentinel)
}

func (e *APIError) Unwrap() error {
	return e.sentinel
}

// IsAuthError reports whether err is a 401 or 403 response, i.e. the key
// that was sent is no longer accepted.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// Detail returns the server-provided detail of err, if any.
func Detail(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}

// StatusCode returns the HTTP status of err, or 0 when err is not an
// [*APIError].
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
