package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nutrigen/nutri/internal/config"
)

func TestResolveLogConfig(t *testing.T) {
	unsetenv(t, "NUTRI_LOG_LEVEL", "NUTRI_LOG_FILE")

	cfg := config.NewConfig()
	lc, err := resolveLogConfig("", "", false, cfg)
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lc.level)
	assert.Empty(t, lc.path)

	cfg.SetGlobalOption("log.level", "warning")
	cfg.SetGlobalOption("log.file", "/tmp/from-config.log")
	lc, err = resolveLogConfig("", "", true, cfg)
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lc.level)
	assert.Equal(t, "/tmp/from-config.log", lc.path)
	assert.True(t, lc.verbose)

	lc, err = resolveLogConfig("/tmp/flag.log", "DEBUG", false, cfg)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lc.level, "flags win")
	assert.Equal(t, "/tmp/flag.log", lc.path)

	t.Setenv("NUTRI_LOG_LEVEL", "error")
	lc, err = resolveLogConfig("", "", false, cfg)
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lc.level, "env beats file")

	_, err = resolveLogConfig("", "loud", false, cfg)
	assert.EqualError(t, err, "invalid log level: loud")
}

func TestNewLogger(t *testing.T) {
	t.Run("quiet by default", func(t *testing.T) {
		var stderr bytes.Buffer
		logger, closeLog, err := logConfig{level: zapcore.InfoLevel}.build(&stderr)
		require.NoError(t, err)
		logger.Info("hello")
		require.NoError(t, closeLog())
		assert.Empty(t, stderr.String())
	})

	t.Run("file and stderr", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "nutri.log")
		var stderr bytes.Buffer
		logger, closeLog, err := NewLogger(path, "debug", true, config.NewConfig(), &stderr)
		require.NoError(t, err)
		logger.Debug("plan fetched", zap.Int("days", 7))
		require.NoError(t, closeLog())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"plan fetched"`)
		assert.Contains(t, string(data), `"days":7`)
		assert.Contains(t, stderr.String(), "plan fetched")
	})

	t.Run("level filters", func(t *testing.T) {
		var stderr bytes.Buffer
		logger, closeLog, err := NewLogger("", "error", true, config.NewConfig(), &stderr)
		require.NoError(t, err)
		logger.Warn("ignored")
		logger.Error("kept")
		require.NoError(t, closeLog())
		assert.NotContains(t, stderr.String(), "ignored")
		assert.Contains(t, stderr.String(), "kept")
	})
}
