package logger

import (
	"os"
	"path/filepath"
	"testing"

	"customer-portal-svc/src/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_LevelAndFormatter(t *testing.T) {
	log := logrus.New()

	Configure(log, &config.LogsSettings{Level: "debug", EnableJSONOutput: true})

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := logrus.New()

	Configure(log, &config.LogsSettings{Level: "loud"})

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestConfigure_WritesToLogFile(t *testing.T) {
	log := logrus.New()
	path := filepath.Join(t.TempDir(), "logs", "portal.log")

	Configure(log, &config.LogsSettings{Level: "info", Path: path})
	log.Info("hello from portal")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from portal")
}
