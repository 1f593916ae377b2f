package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.AppPort)
	require.Equal(t, StorePostgres, cfg.Store)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 5*time.Minute, cfg.RateLimitTTL)
	require.Equal(t, 10, cfg.MaxQueryDepth)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("USERGRAPH_PORT", "9090")
	t.Setenv("USERGRAPH_STORE", StoreMemory)
	t.Setenv("USERGRAPH_LOG_LEVEL", "debug")
	t.Setenv("USERGRAPH_WRITE_TIMEOUT", "3s")
	t.Setenv("USERGRAPH_RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("USERGRAPH_RATE_LIMIT_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.AppPort)
	require.Equal(t, StoreMemory, cfg.Store)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 3*time.Second, cfg.WriteTimeout)
	require.Equal(t, 90*time.Second, cfg.RateLimitTTL)
	require.Equal(t, 20, cfg.RateLimitBurst, "invalid integers fall back to the default")
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	contents := "USERGRAPH_STORE=memory\nUSERGRAPH_PORT=7000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(contents), 0o600))
	t.Setenv("USERGRAPH_PORT", "7100")
	t.Cleanup(func() { _ = os.Unsetenv("USERGRAPH_STORE") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.Store)
	require.Equal(t, 7100, cfg.AppPort)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("USERGRAPH_STORE", "sqlite")
	_, err := Load()
	require.ErrorContains(t, err, "unsupported store")

	t.Setenv("USERGRAPH_STORE", StoreMemory)
	t.Setenv("USERGRAPH_LOG_LEVEL", "chatty")
	_, err = Load()
	require.ErrorContains(t, err, "unknown log level")
}
