package service

import (
	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/config"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/store"
	"github.com/MKhiriev/prompt-shield/internal/validators"
)

// ClientServices bundles the long-lived services and builds the
// per-screen flows. Every flow shares the same session.
type ClientServices struct {
	Session    *session.Store
	Playground *Playground

	AccountService   ClientAccountService
	AnalyticsService ClientAnalyticsService
	ConsentService   ClientConsentService
	SnippetService   ClientSnippetService

	adapter   adapter.ServerAdapter
	validator validators.Validator
	logger    *logger.Logger
}

func NewClientServices(cfg *config.ClientConfig, repo store.StateRepository, serverAdapter adapter.ServerAdapter, logger *logger.Logger) *ClientServices {
	validator := validators.NewFormValidator()
	sess := session.NewStore(repo, serverAdapter, logger)

	return &ClientServices{
		Session:          sess,
		Playground:       NewPlayground(cfg.Playground, sess, serverAdapter, validator, logger),
		AccountService:   NewClientAccountService(sess, serverAdapter, logger),
		AnalyticsService: NewClientAnalyticsService(sess, serverAdapter, logger),
		ConsentService:   NewClientConsentService(repo, logger),
		SnippetService:   NewClientSnippetService(cfg.Adapter.HTTPAddress),
		adapter:          serverAdapter,
		validator:        validator,
		logger:           logger,
	}
}

// NewAuthFlow starts a login/signup flow on the login view.
func (s *ClientServices) NewAuthFlow() *AuthFlow {
	return NewAuthFlow(s.Session, s.adapter, s.validator, s.logger)
}

func (s *ClientServices) NewChangePasswordFlow() *ChangePasswordFlow {
	return NewChangePasswordFlow(s.Session, s.adapter, s.validator, s.logger)
}

// NewResetPasswordFlow starts a reset for the token from an e-mailed link.
func (s *ClientServices) NewResetPasswordFlow(token string) *ResetPasswordFlow {
	return NewResetPasswordFlow(token, s.adapter, s.validator, s.logger)
}

func (s *ClientServices) NewPaymentFlow() *PaymentFlow {
	return NewPaymentFlow(s.Session, s.adapter, s.validator, s.logger)
}
