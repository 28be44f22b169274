package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
	assert.Nil(t, b.defaults)
	assert.Nil(t, b.file)
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterLayersOverride verifies that non-zero fields of later layers
// win and zero fields keep earlier values.
func TestBuild_LaterLayersOverride(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs,
		&StructuredConfig{Adapter: Adapter{HTTPAddress: "http://env:8000"}},
		&StructuredConfig{Adapter: Adapter{HTTPAddress: "http://flag:8000"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, Duration(30*time.Second), cfg.Adapter.RequestTimeout)
	assert.Equal(t, "gpt-4", cfg.Playground.Model)
}

// TestBuild_FileBelowEnvAndFlags verifies that the config file sits between
// the defaults and the env/flag layers.
func TestBuild_FileBelowEnvAndFlags(t *testing.T) {
	path := writeTempConfig(t, "cfg.json", `{"adapter":{"address":"http://file:1","request_timeout":"5s"},"playground":{"model":"claude-3"}}`)

	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{
		Adapter:        Adapter{HTTPAddress: "http://env:2"},
		ConfigFilePath: path,
	})
	b.withFile()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.Adapter.HTTPAddress)
	assert.Equal(t, Duration(5*time.Second), cfg.Adapter.RequestTimeout)
	assert.Equal(t, "claude-3", cfg.Playground.Model)
}

func TestWithFile_MissingFile(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{ConfigFilePath: filepath.Join(t.TempDir(), "absent.json")})
	b.withFile()

	_, err := b.build()
	require.Error(t, err)
}

func TestWithFlags_Nil(t *testing.T) {
	b := newConfigBuilder().withFlags(nil)
	assert.Empty(t, b.configs)
}

// ── GetClientConfig ───────────────────────────────────────────────────────────

func TestGetClientConfig_Defaults(t *testing.T) {
	cfg, err := GetClientConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 5.0, cfg.Adapter.RateLimit)
	assert.Equal(t, 10, cfg.Adapter.RateBurst)
	assert.Equal(t, "promptshield.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "openai", cfg.Playground.Provider)
}

func TestGetClientConfig_FlagsBeatEnv(t *testing.T) {
	t.Setenv("PROMPTSHIELD_ADAPTER_ADDRESS", "http://env:8000")
	t.Setenv("PROMPTSHIELD_PLAYGROUND_MODEL", "gemini-pro")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--address", "http://flag:8000"}))

	cfg, err := GetClientConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "gemini-pro", cfg.Playground.Model)
}

func TestGetClientConfig_RejectsInMemoryDSN(t *testing.T) {
	t.Setenv("PROMPTSHIELD_STORAGE_DB_DSN", ":memory:")

	_, err := GetClientConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

// ── validate ──────────────────────────────────────────────────────────────────

func TestClientConfigValidate(t *testing.T) {
	valid := func() *ClientConfig {
		return defaultConfig().clientConfig()
	}

	tests := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*ClientConfig) {}},
		{name: "empty dsn", mutate: func(c *ClientConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "empty address", mutate: func(c *ClientConfig) { c.Adapter.HTTPAddress = "" }, wantErr: ErrInvalidAdapterConfigs},
		{name: "zero timeout", mutate: func(c *ClientConfig) { c.Adapter.RequestTimeout = 0 }, wantErr: ErrInvalidAdapterConfigs},
		{name: "negative rate", mutate: func(c *ClientConfig) { c.Adapter.RateLimit = -1 }, wantErr: ErrInvalidAdapterConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
