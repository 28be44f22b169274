package models

// AuthView is the screen the authentication flow currently shows.
type AuthView int

const (
	AuthViewLogin AuthView = iota
	AuthViewSignup
	AuthViewVerify
	AuthViewForgot
)

// String returns the lowercase view name.
func (v AuthView) String() string {
	switch v {
	case AuthViewLogin:
		return "login"
	case AuthViewSignup:
		return "signup"
	case AuthViewVerify:
		return "verify"
	case AuthViewForgot:
		return "forgot"
	default:
		return "unknown"
	}
}

// AuthState is the credential state of an authentication flow. It is a closed
// set: [Unauthenticated], [PendingVerification] and [Authenticated].
//
// A PendingVerification key belongs to an account whose e-mail is not
// confirmed yet; it lives in the flow only and is never persisted.
type AuthState interface {
	authState()
}

// Unauthenticated means no key has been issued by the flow yet.
type Unauthenticated struct{}

// PendingVerification holds the key issued at signup until the verification
// code is accepted.
type PendingVerification struct {
	TempCredential Credential
}

// Authenticated holds a key that may be handed to the session.
type Authenticated struct {
	Credential Credential
}

func (Unauthenticated) authState()     {}
func (PendingVerification) authState() {}
func (Authenticated) authState()       {}

// APIKeyResponse is returned by login, signup and rotate-key.
type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}

// MessageResponse is the generic success envelope carrying a human-readable
// message, e.g. for forgot-password and verify.
type MessageResponse struct {
	Message string `json:"message"`
}
