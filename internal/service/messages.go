// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/session"
)

// msgServerUnavailable is shown for transport failures.
const msgServerUnavailable = "Network unavailable or server is down"

// UserError is a failure converted to the text a flow shows to the user.
// Err keeps the original cause for [errors.Is].
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// newUserError converts err into a [*UserError]. The server's detail is
// used verbatim when present; fallback is used otherwise.
func newUserError(err error, fallback string) *UserError {
	return &UserError{Message: describe(err, fallback), Err: err}
}

func describe(err error, fallback string) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	if errors.Is(err, session.ErrSessionExpired) {
		return session.ErrSessionExpired.Error()
	}
	if detail, ok := adapter.Detail(err); ok {
		return detail
	}
	if errors.Is(err, adapter.ErrUnexpectedResponse) {
		return adapter.ErrUnexpectedResponse.Error()
	}
	if isServerUnavailable(err) {
		return msgServerUnavailable
	}
	return fallback
}

// ErrorMessage returns the text to show for err. Validation errors, which
// are already phrased for the user, pass through unchanged.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	if isServerUnavailable(err) {
		return msgServerUnavailable
	}
	return err.Error()
}

func isServerUnavailable(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded")
}

// sessionExpired reports that the server rejected the key of a request and
// the session was cleared. err stays reachable through [errors.Is].
func sessionExpired(err error) *UserError {
	return &UserError{
		Message: session.ErrSessionExpired.Error(),
		Err:     errors.Join(session.ErrSessionExpired, err),
	}
}
