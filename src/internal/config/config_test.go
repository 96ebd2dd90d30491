package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  name: portal-test
  host-link: http://portal.local
server:
  port: "9090"
redis:
  url: localhost:6379
  db: 2
cache:
  session-state-ttl-minutes: 5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_ReadsFileAndFillsDefaults(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "portal-test", cfg.App.Name)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2, cfg.Redis.Db)
	assert.Equal(t, 5, cfg.Cache.SessionStateTTLMinutes)

	assert.Equal(t, 10, cfg.App.Timeout)
	assert.Equal(t, "state", cfg.Cache.StatePrefix)
	assert.Equal(t, 100, cfg.Cache.ClearBatchSize)
	assert.Equal(t, 24, cfg.Cache.SessionStaleAfterHours)
	assert.Equal(t, "http://portal.local/api/v1/webhooks/receive", cfg.Webhook.TargetURL)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis.internal:6380")
	t.Setenv("REDIS_DB", "7")
	t.Setenv("JWT_KEY", "from-env")
	t.Setenv("WEBHOOK_TARGET_URL", "http://hooks.local/receive")
	t.Setenv("PORT", "7000")

	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6380", cfg.Redis.Url)
	assert.Equal(t, 7, cfg.Redis.Db)
	assert.Equal(t, "from-env", cfg.Security.JwtKey)
	assert.Equal(t, "http://hooks.local/receive", cfg.Webhook.TargetURL)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoadFrom_InvalidRedisDBIsIgnored(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Redis.Db)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
