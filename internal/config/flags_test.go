package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlags_AllFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := BindFlags(fs)

	err := fs.Parse([]string{
		"-a", "http://127.0.0.1:9000",
		"--request-timeout", "10s",
		"--rate-limit", "1.5",
		"--rate-burst", "3",
		"-d", "/tmp/ps.db",
		"--log-file", "/tmp/ps.log",
		"--log-level", "warn",
		"--provider", "google",
		"--model", "gemini-1.5",
		"-c", "/etc/ps.toml",
	})
	require.NoError(t, err)

	cfg := f.config()
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, Duration(10*time.Second), cfg.Adapter.RequestTimeout)
	assert.Equal(t, 1.5, cfg.Adapter.RateLimit)
	assert.Equal(t, 3, cfg.Adapter.RateBurst)
	assert.Equal(t, "/tmp/ps.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/ps.log", cfg.Log.FilePath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "google", cfg.Playground.Provider)
	assert.Equal(t, "gemini-1.5", cfg.Playground.Model)
	assert.Equal(t, "/etc/ps.toml", cfg.ConfigFilePath)
}

func TestBindFlags_NoFlagsGivesZeroConfig(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := BindFlags(fs)
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, &StructuredConfig{}, f.config())
}
