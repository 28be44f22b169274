package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/config"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/internal/store"
	"github.com/MKhiriev/prompt-shield/internal/tui"
	"github.com/MKhiriev/prompt-shield/models"
)

type App struct {
	storages *store.ClientStorages
	services *service.ClientServices
	ui       *tui.TUI
	logger   *logger.Logger
}

// NewApp opens local storage, builds the API adapter and the services and
// restores the persisted session. The returned App must be closed.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	services := service.NewClientServices(cfg, storages.StateRepository, serverAdapter, log)

	if err = services.Session.LoadPersisted(ctx); err != nil {
		// continue signed out
		log.Warn().Err(err).Str("func", "client.NewApp").Msg("restore session failed")
	}

	return &App{
		storages: storages,
		services: services,
		ui:       tui.New(services, buildInfo, log),
		logger:   log,
	}, nil
}

// Run starts the interactive client and blocks until the user quits.
func (a *App) Run(ctx context.Context) error {
	return quietQuit(a.ui.Run(ctx))
}

// RunResetPassword opens the client on the reset-password page for token.
func (a *App) RunResetPassword(ctx context.Context, token string) error {
	return quietQuit(a.ui.RunResetPassword(ctx, token))
}

// Services exposes the service layer to the non-interactive commands.
func (a *App) Services() *service.ClientServices {
	return a.services
}

func (a *App) Close() error {
	return a.storages.Close()
}

func quietQuit(err error) error {
	if errors.Is(err, tui.ErrUserQuit) {
		return nil
	}
	return err
}
