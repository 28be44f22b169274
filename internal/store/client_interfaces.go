package store

import (
	"context"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Keys under which the client keeps its durable state.
const (
	// KeyAPIKey holds the main credential.
	KeyAPIKey = "ps_api_key"
	// KeyCookieConsent holds the cookie-consent flag.
	KeyCookieConsent = "cookie_consent"
)

// StateRepository is a small durable key/value store for client state.
// Get returns [ErrStateNotFound] for a missing key; Delete of a missing key
// is not an error.
type StateRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
