package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/store"
)

const consentAccepted = "true"

type clientConsentService struct {
	repo   store.StateRepository
	logger *logger.Logger
}

func NewClientConsentService(repo store.StateRepository, logger *logger.Logger) ClientConsentService {
	return &clientConsentService{repo: repo, logger: logger}
}

func (s *clientConsentService) Accepted(ctx context.Context) (bool, error) {
	value, err := s.repo.Get(ctx, store.KeyCookieConsent)
	if errors.Is(err, store.ErrStateNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cookie consent: %w", err)
	}
	return value == consentAccepted, nil
}

func (s *clientConsentService) Accept(ctx context.Context) error {
	if err := s.repo.Set(ctx, store.KeyCookieConsent, consentAccepted); err != nil {
		s.logger.Err(err).Str("func", "clientConsentService.Accept").Msg("failed to persist cookie consent")
		return fmt.Errorf("persist cookie consent: %w", err)
	}
	return nil
}
