package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/prompt-shield/internal/logger"
)

func TestVersionCmd(t *testing.T) {
	buildVersion, buildDate, buildCommit = "1.4.0", "2026-10-01", "abc123"
	t.Cleanup(func() { buildVersion, buildDate, buildCommit = "", "", "" })

	rt := &runtime{}
	root := newRootCmd(rt)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Build version: 1.4.0")
	assert.Contains(t, out.String(), "Build commit: abc123")
	assert.Nil(t, rt.app)
	require.NoError(t, rt.close())
}

func TestBuildInfo_Unset(t *testing.T) {
	info := buildInfo(logger.Nop())

	assert.Equal(t, "N/A", info.BuildVersion())
	assert.Equal(t, "N/A", info.BuildDate())
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd(&runtime{})

	for _, name := range []string{"version", "whoami", "optimize", "execute", "history", "logout", "reset-password"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"address", "provider", "model", "db", "config"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}
