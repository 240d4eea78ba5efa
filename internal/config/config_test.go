package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "PRIVATE_KEY", "")
	setEnv(t, "PORT", "")
	setEnv(t, "EVENT_LOG_CAP", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, int64(DefaultChainID), cfg.ChainID)
	assert.Equal(t, DefaultEventLogCap, cfg.EventLogCap)
	assert.True(t, cfg.UseMockProvider())
}

func TestLoad_WithPrivateKey(t *testing.T) {
	setEnv(t, "PRIVATE_KEY", "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	setEnv(t, "PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.UseMockProvider())
}

func TestLoad_PrivateKeyWithPrefix(t *testing.T) {
	setEnv(t, "PRIVATE_KEY", "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.UseMockProvider())
}

func TestLoad_InvalidPrivateKeyLength(t *testing.T) {
	setEnv(t, "PRIVATE_KEY", "tooshort")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PRIVATE_KEY must be 64 hex characters")
}

func TestLoad_NegativeEventLogCap(t *testing.T) {
	setEnv(t, "PRIVATE_KEY", "")
	setEnv(t, "EVENT_LOG_CAP", "-1")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "EVENT_LOG_CAP")
}

func TestEnvHelpers(t *testing.T) {
	setEnv(t, "ENV", "production")
	setEnv(t, "PRIVATE_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
