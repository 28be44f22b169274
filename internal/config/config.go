// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// EnvPrefix is prepended to every environment variable name read by the
// client, e.g. PROMPTSHIELD_ADAPTER_ADDRESS.
const EnvPrefix = "PROMPTSHIELD_"

// StructuredConfig is the top-level configuration container. It is populated
// by merging defaults, an optional config file, environment variables and
// command-line flags.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
//   - json/toml — keys used when the config file is parsed.
type StructuredConfig struct {
	// Adapter holds the API endpoint and transport settings.
	Adapter Adapter `envPrefix:"ADAPTER_" json:"adapter" toml:"adapter"`

	// Storage holds the local state database settings.
	Storage Storage `envPrefix:"STORAGE_" json:"storage" toml:"storage"`

	// Log holds the client log sink settings.
	Log Log `envPrefix:"LOG_" json:"log" toml:"log"`

	// Playground holds the defaults preselected in the playground.
	Playground Playground `envPrefix:"PLAYGROUND_" json:"playground" toml:"playground"`

	// ConfigFilePath is the optional path to a JSON or TOML configuration
	// file. Populated via PROMPTSHIELD_CONFIG or the -c / --config flag.
	ConfigFilePath string `env:"CONFIG" json:"-" toml:"-"`
}

// Adapter holds the settings of the HTTP transport to the PromptShield API.
type Adapter struct {
	// HTTPAddress is the API base URL, e.g. "https://api.promptshield.dev".
	// A missing scheme defaults to http.
	// Env: PROMPTSHIELD_ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS" json:"address" toml:"address"`

	// RequestTimeout bounds a single API call (e.g. "30s").
	// Env: PROMPTSHIELD_ADAPTER_REQUEST_TIMEOUT
	RequestTimeout Duration `env:"REQUEST_TIMEOUT" json:"request_timeout" toml:"request_timeout"`

	// RateLimit is the sustained number of outgoing requests per second.
	// Env: PROMPTSHIELD_ADAPTER_RATE_LIMIT
	RateLimit float64 `env:"RATE_LIMIT" json:"rate_limit" toml:"rate_limit"`

	// RateBurst is the number of requests allowed above RateLimit in a burst.
	// Env: PROMPTSHIELD_ADAPTER_RATE_BURST
	RateBurst int `env:"RATE_BURST" json:"rate_burst" toml:"rate_burst"`
}

// Storage groups the local storage settings.
type Storage struct {
	// DB holds the SQLite settings.
	DB DB `envPrefix:"DB_" json:"db" toml:"db"`
}

// DB holds the SQLite database that keeps the persisted credential and the
// cookie-consent flag.
type DB struct {
	// DSN is the SQLite file path.
	// Env: PROMPTSHIELD_STORAGE_DB_DSN
	DSN string `env:"DSN" json:"dsn" toml:"dsn"`
}

// Log holds the client log sink settings.
type Log struct {
	// FilePath is the file the client appends JSON log lines to. The TUI owns
	// stdout, so logs never go there unless the file cannot be opened.
	// Env: PROMPTSHIELD_LOG_FILE
	FilePath string `env:"FILE" json:"file" toml:"file"`

	// Level is a zerolog level name ("debug", "info", ...).
	// Env: PROMPTSHIELD_LOG_LEVEL
	Level string `env:"LEVEL" json:"level" toml:"level"`
}

// Playground holds the provider and model preselected in the playground.
type Playground struct {
	// Provider is the upstream LLM provider, e.g. "openai".
	// Env: PROMPTSHIELD_PLAYGROUND_PROVIDER
	Provider string `env:"PROVIDER" json:"provider" toml:"provider"`

	// Model is the upstream model name, e.g. "gpt-4".
	// Env: PROMPTSHIELD_PLAYGROUND_MODEL
	Model string `env:"MODEL" json:"model" toml:"model"`
}

// defaultConfig returns the lowest-priority configuration layer.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8000",
			RequestTimeout: Duration(30 * time.Second),
			RateLimit:      5,
			RateBurst:      10,
		},
		Storage: Storage{
			DB: DB{DSN: "promptshield.db"},
		},
		Log: Log{
			FilePath: "promptshield.log",
			Level:    "debug",
		},
		Playground: Playground{
			Provider: "openai",
			Model:    "gpt-4",
		},
	}
}
