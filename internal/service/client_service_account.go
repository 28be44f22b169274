package service

import (
	"context"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/models"
)

const (
	msgRotateKeyFailed = "Failed to rotate API key"
	msgProfileFailed   = "Failed to load account details"
)

type clientAccountService struct {
	session *session.Store
	adapter adapter.ServerAdapter
	logger  *logger.Logger
}

func NewClientAccountService(sess *session.Store, serverAdapter adapter.ServerAdapter, logger *logger.Logger) ClientAccountService {
	return &clientAccountService{
		session: sess,
		adapter: serverAdapter,
		logger:  logger,
	}
}

func (s *clientAccountService) Whoami(ctx context.Context) (models.Profile, error) {
	if s.session.Credential().IsEmpty() {
		return models.Profile{}, ErrAPIKeyRequired
	}

	profile, err := s.session.RefreshProfile(ctx)
	if err != nil {
		return models.Profile{}, newUserError(err, msgProfileFailed)
	}
	return profile, nil
}

func (s *clientAccountService) RotateKey(ctx context.Context) (models.Credential, error) {
	key := s.session.Credential()
	if key.IsEmpty() {
		return "", ErrAPIKeyRequired
	}

	newKey, err := s.adapter.RotateKey(ctx, key)
	if err != nil {
		if s.session.InvalidateOnAuthError(ctx, key, err) {
			return "", sessionExpired(err)
		}
		return "", newUserError(err, msgRotateKeyFailed)
	}

	if err = s.session.SetCredential(ctx, newKey); err != nil {
		return "", err
	}
	s.logger.Info().Str("func", "clientAccountService.RotateKey").Msg("api key rotated")
	return newKey, nil
}

func (s *clientAccountService) Logout(ctx context.Context) error {
	return s.session.ClearCredential(ctx)
}
