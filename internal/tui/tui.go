package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/models"
)

var ErrUserQuit = errors.New("quit by user")

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}
}

// Run opens the interactive client on the main menu and blocks until the
// user quits.
func (t *TUI) Run(ctx context.Context) error {
	return t.run(ctx, t.pages(ctx), pageMenu)
}

// RunResetPassword opens the reset-password page for the token from an
// e-mailed link. The rest of the client stays reachable from the menu.
func (t *TUI) RunResetPassword(ctx context.Context, token string) error {
	pages := t.pages(ctx)
	pages[pageResetPassword] = NewResetPasswordModel(ctx, t.services.NewResetPasswordFlow(token))
	return t.run(ctx, pages, pageResetPassword)
}

func (t *TUI) pages(ctx context.Context) map[string]tea.Model {
	s := t.services
	return map[string]tea.Model{
		pageMenu:           NewMenuModel(ctx, s.Session, s.AccountService, s.ConsentService),
		pageAuth:           NewAuthModel(ctx, s.NewAuthFlow),
		pagePlayground:     NewPlaygroundModel(ctx, s.Playground, s.SnippetService),
		pageAccount:        NewAccountModel(ctx, s.Session, s.AccountService),
		pageSubscription:   NewSubscriptionModel(ctx, s.NewPaymentFlow),
		pageHistory:        NewHistoryModel(ctx, s.Session, s.AnalyticsService, service.DefaultHistoryLimit),
		pageChangePassword: NewChangePasswordModel(ctx, s.NewChangePasswordFlow),
	}
}

func (t *TUI) run(ctx context.Context, pages map[string]tea.Model, start string) error {
	root := NewRootModel(pages, start, t.buildInfo)
	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		t.logger.Error().Err(err).Str("func", "TUI.run").Msg("program stopped")
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.QuitByUser() {
		return ErrUserQuit
	}
	return nil
}
