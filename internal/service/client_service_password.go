package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/validators"
	"github.com/MKhiriev/prompt-shield/models"
)

const (
	// ChangePasswordCloseDelay is how long the change-password dialog shows
	// its confirmation before closing itself.
	ChangePasswordCloseDelay = 1500 * time.Millisecond

	// ResetPasswordRedirectDelay is how long the reset page shows its
	// confirmation before returning home.
	ResetPasswordRedirectDelay = 3 * time.Second

	msgPasswordChanged      = "Password changed successfully!"
	msgPasswordReset        = "Password Reset Successful!"
	msgChangePasswordFailed = "Failed to change password"
	msgResetPasswordFailed  = "Failed to reset password"
)

// PasswordFlowState is a snapshot of a password flow.
type PasswordFlowState struct {
	Error   string
	Success string

	Submitting bool
	// Finished is set after a successful submit.
	Finished bool
	// CloseAfter is the delay before the caller should close the view, set
	// together with Finished.
	CloseAfter time.Duration
	// InvalidLink is the terminal state of a reset flow opened without a
	// token.
	InvalidLink bool
}

// ChangePasswordFlow changes the password of the signed-in account. New
// passwords must be at least 8 characters.
type ChangePasswordFlow struct {
	mu       sync.Mutex
	errMsg   string
	success  string
	finished bool
	sub      submission

	session   *session.Store
	adapter   adapter.ServerAdapter
	validator validators.Validator
	logger    *logger.Logger
}

func NewChangePasswordFlow(sess *session.Store, serverAdapter adapter.ServerAdapter, validator validators.Validator, logger *logger.Logger) *ChangePasswordFlow {
	return &ChangePasswordFlow{
		session:   sess,
		adapter:   serverAdapter,
		validator: validator,
		logger:    logger,
	}
}

func (f *ChangePasswordFlow) State() PasswordFlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := PasswordFlowState{
		Error:      f.errMsg,
		Success:    f.success,
		Submitting: f.sub.busy,
		Finished:   f.finished,
	}
	if f.finished {
		st.CloseAfter = ChangePasswordCloseDelay
	}
	return st
}

// Submit validates the input and sends it. On failure the flow stays open
// with the server's message.
func (f *ChangePasswordFlow) Submit(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	key := f.session.Credential()

	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		return ErrFlowFinished
	}
	if f.sub.busy {
		f.mu.Unlock()
		return ErrSubmissionInProgress
	}
	f.errMsg = ""
	f.success = ""

	if key.IsEmpty() {
		f.errMsg = ErrAPIKeyRequired.Error()
		f.mu.Unlock()
		return ErrAPIKeyRequired
	}

	form := models.ChangePasswordForm{OldPassword: oldPassword, ConfirmPassword: confirmPassword, NewPassword: newPassword}
	if err := f.validator.Validate(ctx, form); err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		return err
	}

	gen, _ := f.sub.start()
	f.mu.Unlock()

	_, err := f.adapter.ChangePassword(ctx, key, models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword})
	if err != nil {
		f.session.InvalidateOnAuthError(ctx, key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.sub.finish(gen) {
		return ErrStaleResult
	}
	if err != nil {
		ue := newUserError(err, msgChangePasswordFailed)
		f.errMsg = ue.Message
		return ue
	}

	f.success = msgPasswordChanged
	f.finished = true
	return nil
}

// Close abandons the flow. A response still in flight is discarded.
func (f *ChangePasswordFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errMsg = ""
	f.success = ""
	f.finished = false
	f.sub.invalidate()
}

// ResetPasswordFlow sets a new password from a reset link. New passwords
// must be at least 6 characters.
type ResetPasswordFlow struct {
	mu       sync.Mutex
	token    string
	errMsg   string
	success  string
	finished bool
	sub      submission

	adapter   adapter.ServerAdapter
	validator validators.Validator
	logger    *logger.Logger
}

// NewResetPasswordFlow opens a reset flow for token. A blank token puts the
// flow in the terminal invalid-link state.
func NewResetPasswordFlow(token string, serverAdapter adapter.ServerAdapter, validator validators.Validator, logger *logger.Logger) *ResetPasswordFlow {
	return &ResetPasswordFlow{
		token:     strings.TrimSpace(token),
		adapter:   serverAdapter,
		validator: validator,
		logger:    logger,
	}
}

func (f *ResetPasswordFlow) State() PasswordFlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := PasswordFlowState{
		Error:       f.errMsg,
		Success:     f.success,
		Submitting:  f.sub.busy,
		Finished:    f.finished,
		InvalidLink: f.token == "",
	}
	if st.InvalidLink {
		st.Error = validators.ErrInvalidResetLink.Error()
	}
	if f.finished {
		st.CloseAfter = ResetPasswordRedirectDelay
	}
	return st
}

// Submit validates the input and sends it with the link's token.
func (f *ResetPasswordFlow) Submit(ctx context.Context, newPassword, confirmPassword string) error {
	f.mu.Lock()
	if f.token == "" {
		f.mu.Unlock()
		return validators.ErrInvalidResetLink
	}
	if f.finished {
		f.mu.Unlock()
		return ErrFlowFinished
	}
	if f.sub.busy {
		f.mu.Unlock()
		return ErrSubmissionInProgress
	}
	f.errMsg = ""

	form := models.ResetPasswordForm{Token: f.token, ConfirmPassword: confirmPassword, NewPassword: newPassword}
	if err := f.validator.Validate(ctx, form); err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		return err
	}

	gen, _ := f.sub.start()
	token := f.token
	f.mu.Unlock()

	_, err := f.adapter.ResetPassword(ctx, models.ResetPasswordRequest{Token: token, NewPassword: newPassword})

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.sub.finish(gen) {
		return ErrStaleResult
	}
	if err != nil {
		if errors.Is(err, adapter.ErrUnexpectedResponse) {
			f.logger.Warn().Err(err).Str("func", "ResetPasswordFlow.Submit").Msg("non-JSON response from reset endpoint")
		}
		ue := newUserError(err, msgResetPasswordFailed)
		f.errMsg = ue.Message
		return ue
	}

	f.success = msgPasswordReset
	f.finished = true
	return nil
}

// Close abandons the flow. A response still in flight is discarded.
func (f *ResetPasswordFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sub.invalidate()
}
