// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	envVars := map[string]string{
		"PROMPTSHIELD_CONFIG": "/path/to/config.toml",

		"PROMPTSHIELD_ADAPTER_ADDRESS":         "https://api.example.com",
		"PROMPTSHIELD_ADAPTER_REQUEST_TIMEOUT": "15s",
		"PROMPTSHIELD_ADAPTER_RATE_LIMIT":      "2.5",
		"PROMPTSHIELD_ADAPTER_RATE_BURST":      "4",

		"PROMPTSHIELD_STORAGE_DB_DSN": "/tmp/state.db",

		"PROMPTSHIELD_LOG_FILE":  "/tmp/client.log",
		"PROMPTSHIELD_LOG_LEVEL": "info",

		"PROMPTSHIELD_PLAYGROUND_PROVIDER": "anthropic",
		"PROMPTSHIELD_PLAYGROUND_MODEL":    "claude-3-opus",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, "/path/to/config.toml", cfg.ConfigFilePath)
	assert.Equal(t, "https://api.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, Duration(15*time.Second), cfg.Adapter.RequestTimeout)
	assert.Equal(t, 2.5, cfg.Adapter.RateLimit)
	assert.Equal(t, 4, cfg.Adapter.RateBurst)
	assert.Equal(t, "/tmp/state.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/client.log", cfg.Log.FilePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "anthropic", cfg.Playground.Provider)
	assert.Equal(t, "claude-3-opus", cfg.Playground.Model)
}

func TestParseEnv_IgnoresUnprefixed(t *testing.T) {
	t.Setenv("ADAPTER_ADDRESS", "http://unprefixed")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Empty(t, cfg.Adapter.HTTPAddress)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("PROMPTSHIELD_ADAPTER_REQUEST_TIMEOUT", "not-a-duration")

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	old := dotEnvFile
	dotEnvFile = filepath.Join(t.TempDir(), ".env")
	t.Cleanup(func() { dotEnvFile = old })

	assert.NoError(t, loadDotEnv())
}

func TestLoadDotEnv_SeedsEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PROMPTSHIELD_PLAYGROUND_MODEL=gpt-4o-mini\n"), 0o600))

	old := dotEnvFile
	dotEnvFile = path
	t.Cleanup(func() { dotEnvFile = old })
	t.Setenv("PROMPTSHIELD_PLAYGROUND_MODEL", "")
	require.NoError(t, os.Unsetenv("PROMPTSHIELD_PLAYGROUND_MODEL"))

	require.NoError(t, loadDotEnv())

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, "gpt-4o-mini", cfg.Playground.Model)
}
