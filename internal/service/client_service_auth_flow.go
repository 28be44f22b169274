package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/validators"
	"github.com/MKhiriev/prompt-shield/models"
)

const (
	msgSignupCreated   = "Account created! Please check your email (or server console) for the verification code."
	msgAuthFailed      = "Authentication failed"
	msgVerifyFailed    = "Verification failed"
	msgForgotFailed    = "Request failed"
	msgSomethingFailed = "Something went wrong"
)

// AuthFlowState is a snapshot of an [AuthFlow].
type AuthFlowState struct {
	View models.AuthView
	Auth models.AuthState

	// Message is the latest informational text from the server.
	Message string
	// Error is the latest failure, already phrased for the user.
	Error string

	Submitting bool
	// Done is set once a key was handed to the session; the dialog closes.
	Done bool
}

// AuthFlow drives the login / signup / verify / forgot dialog.
//
// A key issued by signup stays in the flow as
// [models.PendingVerification] until the code is accepted; only then is it
// handed to the session.
type AuthFlow struct {
	mu      sync.Mutex
	view    models.AuthView
	auth    models.AuthState
	message string
	errMsg  string
	done    bool
	sub     submission

	session   *session.Store
	adapter   adapter.ServerAdapter
	validator validators.Validator
	logger    *logger.Logger
}

func NewAuthFlow(sess *session.Store, serverAdapter adapter.ServerAdapter, validator validators.Validator, logger *logger.Logger) *AuthFlow {
	return &AuthFlow{
		view:      models.AuthViewLogin,
		auth:      models.Unauthenticated{},
		session:   sess,
		adapter:   serverAdapter,
		validator: validator,
		logger:    logger,
	}
}

// State returns a snapshot of the flow.
func (f *AuthFlow) State() AuthFlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return AuthFlowState{
		View:       f.view,
		Auth:       f.auth,
		Message:    f.message,
		Error:      f.errMsg,
		Submitting: f.sub.busy,
		Done:       f.done,
	}
}

// ShowSignup switches login to signup.
func (f *AuthFlow) ShowSignup() error {
	return f.navigate(models.AuthViewSignup, models.AuthViewLogin)
}

// ShowForgot switches login to forgot.
func (f *AuthFlow) ShowForgot() error {
	return f.navigate(models.AuthViewForgot, models.AuthViewLogin)
}

// ShowLogin returns to login from signup, verify or forgot. Leaving verify
// drops the pending key.
func (f *AuthFlow) ShowLogin() error {
	return f.navigate(models.AuthViewLogin, models.AuthViewSignup, models.AuthViewVerify, models.AuthViewForgot)
}

func (f *AuthFlow) navigate(to models.AuthView, from ...models.AuthView) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done || !viewIn(f.view, from) {
		return ErrInvalidTransition
	}

	f.view = to
	f.errMsg = ""
	f.message = ""
	if to == models.AuthViewLogin {
		f.auth = models.Unauthenticated{}
	}
	f.sub.invalidate()
	return nil
}

func viewIn(v models.AuthView, set []models.AuthView) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Reset returns the flow to a fresh login view, discarding any pending
// response.
func (f *AuthFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.view = models.AuthViewLogin
	f.auth = models.Unauthenticated{}
	f.message = ""
	f.errMsg = ""
	f.done = false
	f.sub.invalidate()
}

// begin validates input for view and marks the flow busy. The returned
// generation must be passed to end.
func (f *AuthFlow) begin(ctx context.Context, view models.AuthView, input any) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done || f.view != view {
		return 0, ErrInvalidTransition
	}
	if f.sub.busy {
		return 0, ErrSubmissionInProgress
	}

	f.errMsg = ""
	if err := f.validator.Validate(ctx, input); err != nil {
		f.errMsg = err.Error()
		return 0, err
	}

	return f.sub.start()
}

// fail records err under gen and returns the user-facing error.
func (f *AuthFlow) fail(gen uint64, err error, fallback string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.sub.finish(gen) {
		return ErrStaleResult
	}
	ue := newUserError(err, fallback)
	f.errMsg = ue.Message
	return ue
}

// Login submits the login view. On success the key is handed to the session
// and the flow is done.
func (f *AuthFlow) Login(ctx context.Context, email, password string) error {
	creds := models.Credentials{Email: email, Password: password}
	gen, err := f.begin(ctx, models.AuthViewLogin, creds)
	if err != nil {
		return err
	}

	key, err := f.adapter.Login(ctx, creds)
	if err != nil {
		f.logger.Debug().Err(err).Str("func", "AuthFlow.Login").Msg("login rejected")
		return f.fail(gen, err, msgAuthFailed)
	}

	return f.authenticate(ctx, gen, key)
}

// Signup submits the signup view. On success the flow moves to verify and
// holds the issued key as pending.
func (f *AuthFlow) Signup(ctx context.Context, email, password string, acceptTerms bool) error {
	form := models.SignupForm{Email: email, Password: password, AcceptTerms: acceptTerms}
	gen, err := f.begin(ctx, models.AuthViewSignup, form)
	if err != nil {
		return err
	}

	key, err := f.adapter.Signup(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		f.logger.Debug().Err(err).Str("func", "AuthFlow.Signup").Msg("signup rejected")
		return f.fail(gen, err, msgSomethingFailed)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.sub.finish(gen) {
		return ErrStaleResult
	}
	f.auth = models.PendingVerification{TempCredential: key}
	f.view = models.AuthViewVerify
	f.message = msgSignupCreated
	return nil
}

// Verify submits the code with the pending key. A wrong code keeps the flow
// on verify with the key still pending.
func (f *AuthFlow) Verify(ctx context.Context, code string) error {
	f.mu.Lock()
	pending, ok := f.auth.(models.PendingVerification)
	f.mu.Unlock()
	if !ok {
		return ErrNoPendingVerification
	}

	gen, err := f.begin(ctx, models.AuthViewVerify, models.VerifyForm{Code: code})
	if err != nil {
		return err
	}

	// the pending key is not the session's: a 401 here must not sign out
	if _, err = f.adapter.Verify(ctx, pending.TempCredential, code); err != nil {
		return f.fail(gen, err, msgVerifyFailed)
	}

	return f.authenticate(ctx, gen, pending.TempCredential)
}

func (f *AuthFlow) authenticate(ctx context.Context, gen uint64, key models.Credential) error {
	f.mu.Lock()
	if !f.sub.current(gen) {
		f.mu.Unlock()
		return ErrStaleResult
	}
	f.mu.Unlock()

	// still busy while the session persists the key; f.auth keeps any
	// pending key until the hand-off succeeded
	err := f.session.SetCredential(ctx, key)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.sub.finish(gen)
	if err != nil {
		f.logger.Err(err).Str("func", "AuthFlow.authenticate").Msg("failed to store credential")
		ue := newUserError(err, msgSomethingFailed)
		f.errMsg = ue.Message
		return ue
	}
	if f.session.Credential() != key {
		// the profile refresh rejected the key and cleared the session
		ue := sessionExpired(ErrKeyRejected)
		f.errMsg = ue.Message
		return ue
	}
	f.auth = models.Authenticated{Credential: key}
	f.done = true
	f.message = ""
	return nil
}

// ForgotPassword submits the forgot view. The server's confirmation is
// exposed as the state message; the view does not change.
func (f *AuthFlow) ForgotPassword(ctx context.Context, email string) error {
	req := models.ForgotPasswordRequest{Email: email}
	gen, err := f.begin(ctx, models.AuthViewForgot, req)
	if err != nil {
		return err
	}

	resp, err := f.adapter.ForgotPassword(ctx, req)
	if err != nil {
		return f.fail(gen, err, msgForgotFailed)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.sub.finish(gen) {
		return ErrStaleResult
	}
	f.message = resp.Message
	return nil
}
