package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/prompt-shield/internal/logger"
)

func TestNewAppInfoService(t *testing.T) {
	svc, err := NewAppInfoService("v1.2.0", "", "abc123", logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "v1.2.0", svc.GetAppVersion())
	assert.Equal(t, "N/A", svc.BuildInfo().BuildDate())
	assert.Equal(t, "abc123", svc.BuildInfo().BuildCommit())
}

func TestNewAppInfoService_NoVersion(t *testing.T) {
	svc, err := NewAppInfoService("", "", "", logger.Nop())
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}
