package service

import (
	"context"

	"github.com/MKhiriev/prompt-shield/models"
)

// ClientAccountService covers the operations on the signed-in account.
type ClientAccountService interface {
	// Whoami refreshes and returns the profile of the active key.
	// Returns ErrAPIKeyRequired when signed out.
	Whoami(ctx context.Context) (models.Profile, error)

	// RotateKey replaces the active key with a fresh one issued by the
	// server and hands it to the session. The old key stops working.
	RotateKey(ctx context.Context) (models.Credential, error)

	// Logout clears the session and its persisted key.
	Logout(ctx context.Context) error
}

// ClientAnalyticsService reads the usage history of the account.
type ClientAnalyticsService interface {
	// History returns up to limit recent requests as chart rows, oldest
	// first. The key is attached when the session holds one. A non-positive
	// limit means DefaultHistoryLimit.
	History(ctx context.Context, limit int) ([]models.ActivityRow, error)

	// Dashboard fetches the aggregate stats and the daily time series
	// concurrently. Both need a key.
	Dashboard(ctx context.Context) (models.Dashboard, error)
}

// ClientConsentService keeps the cookie-consent flag.
type ClientConsentService interface {
	Accepted(ctx context.Context) (bool, error)
	Accept(ctx context.Context) error
}

// ClientSnippetService renders ready-to-run API calls for a prompt.
type ClientSnippetService interface {
	Snippet(lang SnippetLanguage, in SnippetInput) (string, error)
}

// AppInfoService exposes build metadata.
type AppInfoService interface {
	BuildInfo() models.AppBuildInfo
	GetAppVersion() string
}
