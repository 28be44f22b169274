package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/validators"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "server detail", err: adapter.NewAPIError(400, "Email already registered"), want: "Email already registered"},
		{name: "wrapped detail", err: fmt.Errorf("signup: %w", adapter.NewAPIError(409, "taken")), want: "taken"},
		{name: "no detail", err: adapter.NewAPIError(500, ""), want: "fallback"},
		{name: "not json", err: fmt.Errorf("x: %w", adapter.ErrUnexpectedResponse), want: adapter.ErrUnexpectedResponse.Error()},
		{name: "connection refused", err: errors.New("Post \"http://localhost:8000\": dial tcp [::1]:8000: connect: connection refused"), want: msgServerUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, want: msgServerUnavailable},
		{name: "session expired", err: session.ErrSessionExpired, want: "Session expired. Please login again."},
		{name: "user error", err: &UserError{Message: "already phrased"}, want: "already phrased"},
		{name: "unknown", err: errors.New("boom"), want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.err, "fallback"))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Empty(t, ErrorMessage(nil))
	assert.Equal(t, "Email is required", ErrorMessage(validators.ErrEmailRequired))
	assert.Equal(t, "API Key is required", ErrorMessage(ErrAPIKeyRequired))
	assert.Equal(t, msgServerUnavailable, ErrorMessage(errors.New("dial tcp: i/o timeout")))
	assert.Equal(t, "detail", ErrorMessage(newUserError(adapter.NewAPIError(400, "detail"), "fallback")))
}

func TestUserError_Unwrap(t *testing.T) {
	err := newUserError(adapter.NewAPIError(401, ""), "fallback")
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Equal(t, "fallback", err.Error())
}

func TestSessionExpired_KeepsCause(t *testing.T) {
	err := sessionExpired(adapter.NewAPIError(403, "Forbidden"))
	assert.ErrorIs(t, err, session.ErrSessionExpired)
	assert.ErrorIs(t, err, adapter.ErrForbidden)
	assert.Equal(t, session.ErrSessionExpired.Error(), err.Error())
}
