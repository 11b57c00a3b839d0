package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("hue:\n  bridge: 192.168.1.2\n  token: abc\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.GetLevel())
	assert.Equal(t, 30*time.Second, cfg.Hue.Timeout.Duration())
	assert.Equal(t, 10.0, cfg.Hue.RateLimitRPS)
	assert.Equal(t, 24*time.Hour, cfg.Ledger.CleanupInterval.Duration())
	assert.Equal(t, 30*24*time.Hour, cfg.Ledger.Retention())
	assert.True(t, cfg.API.IsEnabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.API.Addr())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout.Duration())
	assert.Empty(t, cfg.Database.Path)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Values(t *testing.T) {
	cfg, err := Parse([]byte(`
hue:
  bridge: bridge.local
  token: abc
  timeout: 5s
  rate_limit_rps: 2.5
log:
  level: DEBUG
  json: true
database:
  path: /tmp/huegroups.sqlite
ledger:
  cleanup_interval: 1h
  retention_days: 7
api:
  enabled: false
  host: 127.0.0.1
  port: 9000
shutdown_timeout: 10s
`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Hue.Timeout.Duration())
	assert.Equal(t, 2.5, cfg.Hue.RateLimitRPS)
	assert.Equal(t, "debug", cfg.Log.GetLevel())
	assert.True(t, cfg.Log.UseJSON)
	assert.Equal(t, "/tmp/huegroups.sqlite", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.Ledger.CleanupInterval.Duration())
	assert.Equal(t, 7, cfg.Ledger.RetentionDays)
	assert.False(t, cfg.API.IsEnabled())
	assert.Equal(t, "127.0.0.1:9000", cfg.API.Addr())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout.Duration())
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("hue:\n  timeout: soon\n"))
	assert.Error(t, err)
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("HUEGROUPS_TEST_TOKEN", "from-env")

	cfg, err := Parse([]byte("hue:\n  bridge: ${HUEGROUPS_TEST_BRIDGE:10.0.0.1}\n  token: ${HUEGROUPS_TEST_TOKEN}\n"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cfg.Hue.Bridge)
	assert.Equal(t, "from-env", cfg.Hue.Token)
}

func TestValidate(t *testing.T) {
	cfg, err := Parse([]byte("api:\n  port: 70000\n"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hue.bridge is required")
	assert.Contains(t, err.Error(), "hue.token is required")
	assert.Contains(t, err.Error(), "api.port")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hue:\n  bridge: b\n  token: t\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "b", cfg.Hue.Bridge)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
