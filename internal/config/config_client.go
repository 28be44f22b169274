package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the API base URL.
	HTTPAddress string
	// RequestTimeout is the timeout of a single outbound request.
	RequestTimeout time.Duration
	// RateLimit is the sustained outbound request rate per second.
	RateLimit float64
	// RateBurst is the outbound burst size.
	RateBurst int
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientLog holds the log sink settings.
type ClientLog struct {
	FilePath string
	Level    string
}

// ClientPlayground holds playground defaults.
type ClientPlayground struct {
	Provider string
	Model    string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains the API address, timeout and rate limit.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Log contains log sink settings.
	Log ClientLog
	// Playground contains the preselected provider and model.
	Playground ClientPlayground
}

// GetClientConfig builds and validates the client configuration from all
// sources. flags may be nil when no command line is available (tests,
// embedding).
func GetClientConfig(flags *Flags) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withDotEnv().
		withEnv().
		withFlags(flags).
		withFile().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.clientConfig()
	return clientCfg, clientCfg.validate()
}

func (cfg *StructuredConfig) clientConfig() *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(cfg.Adapter.RequestTimeout),
			RateLimit:      cfg.Adapter.RateLimit,
			RateBurst:      cfg.Adapter.RateBurst,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Log: ClientLog{
			FilePath: cfg.Log.FilePath,
			Level:    cfg.Log.Level,
		},
		Playground: ClientPlayground{
			Provider: cfg.Playground.Provider,
			Model:    cfg.Playground.Model,
		},
	}
}
