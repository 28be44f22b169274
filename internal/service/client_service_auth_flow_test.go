// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/store"
	"github.com/MKhiriev/prompt-shield/internal/validators"
	"github.com/MKhiriev/prompt-shield/models"
)

func newTestAuthFlow(t *testing.T) (*AuthFlow, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewAuthFlow(env.sess, env.srv, env.validator, env.log), env
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthFlow_Login_Success(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()

	creds := models.Credentials{Email: "user@example.com", Password: "secret"}
	env.srv.EXPECT().Login(gomock.Any(), creds).Return(models.Credential("key-1"), nil)
	env.expectProfile("key-1")

	require.NoError(t, flow.Login(ctx, creds.Email, creds.Password))

	st := flow.State()
	assert.True(t, st.Done)
	assert.False(t, st.Submitting)
	assert.Equal(t, models.Authenticated{Credential: "key-1"}, st.Auth)
	assert.Equal(t, models.Credential("key-1"), env.sess.Credential())

	persisted, ok := env.repo.value(store.KeyAPIKey)
	require.True(t, ok)
	assert.Equal(t, "key-1", persisted)
}

func TestAuthFlow_Login_ValidationNeverReachesServer(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "empty email", email: "", password: "secret", wantErr: validators.ErrEmailRequired},
		{name: "malformed email", email: "not-an-email", password: "secret", wantErr: validators.ErrInvalidEmail},
		{name: "empty password", email: "user@example.com", password: "", wantErr: validators.ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, env := newTestAuthFlow(t)

			err := flow.Login(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantErr.Error(), flow.State().Error)
			assert.False(t, env.sess.IsAuthenticated())
		})
	}
}

func TestAuthFlow_Login_ServerDetailShownVerbatim(t *testing.T) {
	flow, env := newTestAuthFlow(t)

	env.srv.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.Credential(""), adapter.NewAPIError(401, "Invalid credentials"))

	err := flow.Login(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)

	st := flow.State()
	assert.Equal(t, "Invalid credentials", st.Error)
	assert.Equal(t, models.AuthViewLogin, st.View)
	assert.False(t, st.Done)
	assert.False(t, env.sess.IsAuthenticated())
}

func TestAuthFlow_Login_FallbackMessage(t *testing.T) {
	flow, env := newTestAuthFlow(t)

	env.srv.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.Credential(""), adapter.NewAPIError(500, ""))

	require.Error(t, flow.Login(context.Background(), "user@example.com", "pw"))
	assert.Equal(t, msgAuthFailed, flow.State().Error)
}

func TestAuthFlow_Login_DuplicateSubmitRejected(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()

	var second error
	env.srv.EXPECT().Login(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.Credentials) (models.Credential, error) {
			assert.True(t, flow.State().Submitting)
			second = flow.Login(ctx, "user@example.com", "secret")
			return "key-1", nil
		},
	)
	env.expectProfile("key-1")

	require.NoError(t, flow.Login(ctx, "user@example.com", "secret"))
	assert.ErrorIs(t, second, ErrSubmissionInProgress)
}

// ── Signup / Verify ──────────────────────────────────────────────────────────

func TestAuthFlow_SignupThenVerify_AuthenticatesWithTempKey(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()

	require.NoError(t, flow.ShowSignup())

	env.srv.EXPECT().Signup(gomock.Any(), models.Credentials{Email: "new@example.com", Password: "pw"}).
		Return(models.Credential("temp-key"), nil)
	require.NoError(t, flow.Signup(ctx, "new@example.com", "pw", true))

	st := flow.State()
	assert.Equal(t, models.AuthViewVerify, st.View)
	assert.Equal(t, models.PendingVerification{TempCredential: "temp-key"}, st.Auth)
	assert.Equal(t, msgSignupCreated, st.Message)
	assert.False(t, env.sess.IsAuthenticated(), "pending key must not reach the session")

	gomock.InOrder(
		env.srv.EXPECT().Verify(gomock.Any(), models.Credential("temp-key"), "123456").
			Return(models.MessageResponse{Message: "Email verified"}, nil),
		env.srv.EXPECT().Me(gomock.Any(), models.Credential("temp-key")).Return(testProfile, nil),
	)
	require.NoError(t, flow.Verify(ctx, "123456"))

	st = flow.State()
	assert.True(t, st.Done)
	assert.Equal(t, models.Credential("temp-key"), env.sess.Credential())
	profile, ok := env.sess.Profile()
	require.True(t, ok)
	assert.Equal(t, testProfile, profile)
}

func TestAuthFlow_Verify_PersistFailureKeepsPendingKey(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()

	require.NoError(t, flow.ShowSignup())
	env.srv.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(models.Credential("temp-key"), nil)
	require.NoError(t, flow.Signup(ctx, "new@example.com", "pw", true))

	env.srv.EXPECT().Verify(gomock.Any(), models.Credential("temp-key"), "123456").
		Return(models.MessageResponse{Message: "Email verified"}, nil).
		Times(2)

	env.repo.failSet(errors.New("database is locked"))
	require.Error(t, flow.Verify(ctx, "123456"))

	st := flow.State()
	assert.Equal(t, models.AuthViewVerify, st.View)
	assert.Equal(t, models.PendingVerification{TempCredential: "temp-key"}, st.Auth)
	assert.False(t, st.Done)
	assert.False(t, st.Submitting)
	assert.Equal(t, msgSomethingFailed, st.Error)
	assert.False(t, env.sess.IsAuthenticated())

	env.repo.failSet(nil)
	env.expectProfile("temp-key")
	require.NoError(t, flow.Verify(ctx, "123456"))

	st = flow.State()
	assert.True(t, st.Done)
	assert.Equal(t, models.Authenticated{Credential: "temp-key"}, st.Auth)
	assert.Equal(t, models.Credential("temp-key"), env.sess.Credential())
}

func TestAuthFlow_Login_KeyRejectedByProfileRefresh(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()

	env.srv.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.Credential("key-1"), nil)
	env.srv.EXPECT().Me(gomock.Any(), models.Credential("key-1")).
		Return(models.Profile{}, adapter.NewAPIError(401, "Invalid API key"))

	err := flow.Login(ctx, "user@example.com", "secret")
	require.ErrorIs(t, err, session.ErrSessionExpired)
	assert.ErrorIs(t, err, ErrKeyRejected)

	st := flow.State()
	assert.False(t, st.Done)
	assert.Equal(t, models.AuthViewLogin, st.View)
	assert.Equal(t, models.Unauthenticated{}, st.Auth)
	assert.Equal(t, session.ErrSessionExpired.Error(), st.Error)
	assert.False(t, env.sess.IsAuthenticated())

	_, persisted := env.repo.value(store.KeyAPIKey)
	assert.False(t, persisted)
}

func TestAuthFlow_Verify_WrongCodeStaysOnVerify(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()

	require.NoError(t, flow.ShowSignup())
	env.srv.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(models.Credential("temp-key"), nil)
	require.NoError(t, flow.Signup(ctx, "new@example.com", "pw", true))

	env.srv.EXPECT().Verify(gomock.Any(), models.Credential("temp-key"), "000000").
		Return(models.MessageResponse{}, adapter.NewAPIError(400, "Invalid verification code"))

	err := flow.Verify(ctx, "000000")
	require.Error(t, err)

	st := flow.State()
	assert.Equal(t, models.AuthViewVerify, st.View)
	assert.Equal(t, "Invalid verification code", st.Error)
	assert.Equal(t, models.PendingVerification{TempCredential: "temp-key"}, st.Auth)
	assert.False(t, env.sess.IsAuthenticated())
	_, persisted := env.repo.value(store.KeyAPIKey)
	assert.False(t, persisted)
}

func TestAuthFlow_Verify_UnauthorizedDoesNotTouchSession(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()
	env.signIn(t, "main-key")

	require.NoError(t, flow.ShowSignup())
	env.srv.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(models.Credential("temp-key"), nil)
	require.NoError(t, flow.Signup(ctx, "new@example.com", "pw", true))

	env.srv.EXPECT().Verify(gomock.Any(), models.Credential("temp-key"), "123456").
		Return(models.MessageResponse{}, adapter.NewAPIError(401, "Invalid API key"))

	require.Error(t, flow.Verify(ctx, "123456"))
	assert.Equal(t, models.Credential("main-key"), env.sess.Credential())
}

func TestAuthFlow_Signup_RequiresTerms(t *testing.T) {
	flow, _ := newTestAuthFlow(t)
	require.NoError(t, flow.ShowSignup())

	err := flow.Signup(context.Background(), "new@example.com", "pw", false)
	assert.ErrorIs(t, err, validators.ErrTermsNotAccepted)
	assert.Equal(t, models.AuthViewSignup, flow.State().View)
}

func TestAuthFlow_Verify_BlankCode(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()

	require.NoError(t, flow.ShowSignup())
	env.srv.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(models.Credential("temp-key"), nil)
	require.NoError(t, flow.Signup(ctx, "new@example.com", "pw", true))

	assert.ErrorIs(t, flow.Verify(ctx, "   "), validators.ErrCodeRequired)
}

func TestAuthFlow_Verify_WithoutSignup(t *testing.T) {
	flow, _ := newTestAuthFlow(t)
	assert.ErrorIs(t, flow.Verify(context.Background(), "123456"), ErrNoPendingVerification)
}

func TestAuthFlow_Signup_NavigationDiscardsResult(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	ctx := context.Background()
	require.NoError(t, flow.ShowSignup())

	env.srv.EXPECT().Signup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.Credentials) (models.Credential, error) {
			require.NoError(t, flow.ShowLogin())
			return "temp-key", nil
		},
	)

	err := flow.Signup(ctx, "new@example.com", "pw", true)
	assert.ErrorIs(t, err, ErrStaleResult)

	st := flow.State()
	assert.Equal(t, models.AuthViewLogin, st.View)
	assert.Equal(t, models.Unauthenticated{}, st.Auth)
	assert.False(t, st.Submitting)
}

func TestAuthFlow_Login_ResetDiscardsResult(t *testing.T) {
	flow, env := newTestAuthFlow(t)

	env.srv.EXPECT().Login(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.Credentials) (models.Credential, error) {
			flow.Reset()
			return "key-1", nil
		},
	)

	err := flow.Login(context.Background(), "user@example.com", "secret")
	assert.ErrorIs(t, err, ErrStaleResult)
	assert.False(t, env.sess.IsAuthenticated())
	assert.False(t, flow.State().Done)
}

// ── Navigation ───────────────────────────────────────────────────────────────

func TestAuthFlow_Navigation(t *testing.T) {
	flow, _ := newTestAuthFlow(t)

	assert.ErrorIs(t, flow.ShowLogin(), ErrInvalidTransition)

	require.NoError(t, flow.ShowForgot())
	assert.Equal(t, models.AuthViewForgot, flow.State().View)
	assert.ErrorIs(t, flow.ShowSignup(), ErrInvalidTransition)

	require.NoError(t, flow.ShowLogin())
	require.NoError(t, flow.ShowSignup())
	assert.Equal(t, models.AuthViewSignup, flow.State().View)

	require.NoError(t, flow.ShowLogin())
	assert.Equal(t, models.AuthViewLogin, flow.State().View)
}

func TestAuthFlow_SubmitOnWrongView(t *testing.T) {
	flow, _ := newTestAuthFlow(t)
	err := flow.Signup(context.Background(), "new@example.com", "pw", true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// ── ForgotPassword ───────────────────────────────────────────────────────────

func TestAuthFlow_ForgotPassword(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	require.NoError(t, flow.ShowForgot())

	env.srv.EXPECT().ForgotPassword(gomock.Any(), models.ForgotPasswordRequest{Email: "user@example.com"}).
		Return(models.MessageResponse{Message: "If the email exists, a reset link was sent."}, nil)

	require.NoError(t, flow.ForgotPassword(context.Background(), "user@example.com"))

	st := flow.State()
	assert.Equal(t, models.AuthViewForgot, st.View)
	assert.Equal(t, "If the email exists, a reset link was sent.", st.Message)
}

func TestAuthFlow_ForgotPassword_NetworkError(t *testing.T) {
	flow, env := newTestAuthFlow(t)
	require.NoError(t, flow.ShowForgot())

	env.srv.EXPECT().ForgotPassword(gomock.Any(), gomock.Any()).
		Return(models.MessageResponse{}, errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"))

	require.Error(t, flow.ForgotPassword(context.Background(), "user@example.com"))
	assert.Equal(t, msgServerUnavailable, flow.State().Error)
}
