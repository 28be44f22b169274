// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the active API key and the profile derived from it.
//
// A [Store] is the only writer of the persisted key. Controllers receive it
// by injection, read the key through [Store.Credential] and report rejected
// keys through [Store.InvalidateOnAuthError].
//
// Every key change bumps a generation counter. A profile response is applied
// only if no key change happened while it was in flight, so a late answer
// for an old key never overwrites the state of a newer one.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/store"
	"github.com/MKhiriev/prompt-shield/models"
)

type Store struct {
	mu         sync.Mutex
	credential models.Credential
	profile    *models.Profile
	generation uint64

	repo    store.StateRepository
	adapter adapter.ServerAdapter
	logger  *logger.Logger
}

func NewStore(repo store.StateRepository, serverAdapter adapter.ServerAdapter, logger *logger.Logger) *Store {
	return &Store{
		repo:    repo,
		adapter: serverAdapter,
		logger:  logger,
	}
}

// LoadPersisted restores the key saved by a previous run and refreshes the
// profile for it. Without a saved key no request is made.
//
// Only storage failures are returned; a failed refresh is logged and leaves
// the store as [Store.RefreshProfile] describes.
func (s *Store) LoadPersisted(ctx context.Context) error {
	value, err := s.repo.Get(ctx, store.KeyAPIKey)
	if errors.Is(err, store.ErrStateNotFound) || (err == nil && value == "") {
		s.logger.Debug().Str("func", "Store.LoadPersisted").Msg("no persisted credential")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load persisted credential: %w", err)
	}

	s.mu.Lock()
	s.credential = models.Credential(value)
	s.profile = nil
	s.generation++
	s.mu.Unlock()

	s.refreshQuietly(ctx, "Store.LoadPersisted")
	return nil
}

// SetCredential replaces the active key, persists it and refreshes the
// profile. Requests already sent with the previous key are not cancelled.
func (s *Store) SetCredential(ctx context.Context, key models.Credential) error {
	if key.IsEmpty() {
		return ErrEmptyCredential
	}

	s.mu.Lock()
	if err := s.repo.Set(ctx, store.KeyAPIKey, key.String()); err != nil {
		s.mu.Unlock()
		s.logger.Err(err).Str("func", "Store.SetCredential").Msg("failed to persist credential")
		return fmt.Errorf("persist credential: %w", err)
	}
	s.credential = key
	s.profile = nil
	s.generation++
	s.mu.Unlock()

	s.refreshQuietly(ctx, "Store.SetCredential")
	return nil
}

// ClearCredential forgets the key and the profile and removes the persisted
// copy. Calling it without a key is a no-op apart from the delete.
func (s *Store) ClearCredential(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clearLocked(ctx)
}

func (s *Store) clearLocked(ctx context.Context) error {
	s.credential = ""
	s.profile = nil
	s.generation++

	if err := s.repo.Delete(ctx, store.KeyAPIKey); err != nil {
		s.logger.Err(err).Str("func", "Store.ClearCredential").Msg("failed to delete persisted credential")
		return fmt.Errorf("delete persisted credential: %w", err)
	}
	return nil
}

// RefreshProfile fetches the profile of the active key.
//
// A 401 or 403 clears the session and yields [ErrSessionExpired]. Any other
// failure keeps the key and leaves the profile unset. If the key changed
// while the request was in flight the response is dropped and
// [ErrStaleProfile] is returned.
func (s *Store) RefreshProfile(ctx context.Context) (models.Profile, error) {
	s.mu.Lock()
	key, gen := s.credential, s.generation
	s.mu.Unlock()

	if key.IsEmpty() {
		return models.Profile{}, ErrNoCredential
	}

	profile, err := s.adapter.Me(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return models.Profile{}, ErrStaleProfile
	}

	if err != nil {
		if adapter.IsAuthError(err) {
			s.logger.Info().Str("func", "Store.RefreshProfile").Msg("credential rejected by server, clearing session")
			if clearErr := s.clearLocked(ctx); clearErr != nil {
				return models.Profile{}, errors.Join(ErrSessionExpired, clearErr)
			}
			return models.Profile{}, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		s.profile = nil
		return models.Profile{}, fmt.Errorf("refresh profile: %w", err)
	}

	s.profile = &profile
	return profile, nil
}

func (s *Store) refreshQuietly(ctx context.Context, caller string) {
	if _, err := s.RefreshProfile(ctx); err != nil {
		s.logger.Warn().Err(err).Str("func", caller).Msg("profile refresh failed")
	}
}

// InvalidateOnAuthError clears the session when err is a 401 or 403 for the
// key that is still active. It reports whether the session was cleared.
// Errors for a key that has since been replaced are ignored.
func (s *Store) InvalidateOnAuthError(ctx context.Context, sent models.Credential, err error) bool {
	if !adapter.IsAuthError(err) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sent.IsEmpty() || s.credential != sent {
		return false
	}

	s.logger.Info().Str("func", "Store.InvalidateOnAuthError").Msg("credential rejected by server, clearing session")
	if clearErr := s.clearLocked(ctx); clearErr != nil {
		s.logger.Err(clearErr).Str("func", "Store.InvalidateOnAuthError").Msg("session cleared in memory only")
	}
	return true
}

// Credential returns the active key, empty when signed out.
func (s *Store) Credential() models.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// Profile returns the last fetched profile. ok is false when none is held.
func (s *Store) Profile() (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return *s.profile, true
}

// IsAuthenticated reports whether a key is held.
func (s *Store) IsAuthenticated() bool {
	return !s.Credential().IsEmpty()
}
