package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_JSON(t *testing.T) {
	path := writeTempConfig(t, "cfg.json", `{
		"adapter": {"address": "https://api.example.com", "request_timeout": "20s", "rate_limit": 3, "rate_burst": 6},
		"storage": {"db": {"dsn": "/var/lib/ps.db"}},
		"log": {"file": "/var/log/ps.log", "level": "info"},
		"playground": {"provider": "openai", "model": "gpt-4o-mini"}
	}`)

	cfg, err := parseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, Duration(20*time.Second), cfg.Adapter.RequestTimeout)
	assert.Equal(t, 3.0, cfg.Adapter.RateLimit)
	assert.Equal(t, 6, cfg.Adapter.RateBurst)
	assert.Equal(t, "/var/lib/ps.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "gpt-4o-mini", cfg.Playground.Model)
}

func TestParseFile_TOML(t *testing.T) {
	path := writeTempConfig(t, "cfg.toml", `
[adapter]
address = "https://api.example.com"
request_timeout = "45s"

[storage.db]
dsn = "/var/lib/ps.db"

[playground]
model = "claude-3-haiku"
`)

	cfg, err := parseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, Duration(45*time.Second), cfg.Adapter.RequestTimeout)
	assert.Equal(t, "/var/lib/ps.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "claude-3-haiku", cfg.Playground.Model)
}

func TestParseFile_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, "cfg.json", `{not json`)

	_, err := parseFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseFile_InvalidTOML(t *testing.T) {
	path := writeTempConfig(t, "cfg.toml", `adapter = [`)

	_, err := parseFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding toml configs")
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, Duration(90*time.Second), d)

	require.NoError(t, json.Unmarshal([]byte(`1000`), &d))
	assert.Equal(t, Duration(time.Microsecond), d)

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(Duration(2 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))
}
