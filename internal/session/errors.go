package session

import "errors"

var (
	// ErrNoCredential is returned by operations that need a key when none is
	// held.
	ErrNoCredential = errors.New("no credential")

	// ErrEmptyCredential is returned when an empty key is offered to
	// SetCredential.
	ErrEmptyCredential = errors.New("empty credential")

	// ErrSessionExpired is returned when the server rejected the held key
	// and the session was cleared.
	ErrSessionExpired = errors.New("Session expired. Please login again.")

	// ErrStaleProfile is returned by RefreshProfile when the key changed
	// while the request was in flight; the response is discarded.
	ErrStaleProfile = errors.New("profile response is stale")
)
