package command

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nutrigen/nutri/internal/config"
)

// logConfig holds resolved logging configuration.
type logConfig struct {
	level   zapcore.Level
	path    string // "" disables file logging
	verbose bool   // also log to stderr
}

// resolveLogConfig resolves log configuration from flags and config. Flag
// values take precedence; config values (env var, file, default) are used
// when flags are empty.
func resolveLogConfig(flagPath, flagLevel string, verbose bool, cfg *config.Config) (logConfig, error) {
	schema := config.DefaultSchema()
	lc := logConfig{verbose: verbose}

	levelStr := flagLevel
	if levelStr == "" {
		levelStr = schema.Resolve(cfg, "log.level")
	}
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		lc.level = zapcore.DebugLevel
	case "info", "":
		lc.level = zapcore.InfoLevel
	case "warn", "warning":
		lc.level = zapcore.WarnLevel
	case "error":
		lc.level = zapcore.ErrorLevel
	default:
		return lc, fmt.Errorf("invalid log level: %s", levelStr)
	}

	lc.path = flagPath
	if lc.path == "" {
		lc.path = schema.Resolve(cfg, "log.file")
	}
	return lc, nil
}

// build returns the logger described by lc and a function that flushes and
// closes its outputs. With no file and no verbose flag the logger discards
// everything, so interactive output stays clean.
func (lc logConfig) build(stderr io.Writer) (*zap.Logger, func() error, error) {
	var (
		cores  []zapcore.Core
		closer = func() error { return nil }
	)

	if lc.path != "" {
		if err := os.MkdirAll(filepath.Dir(lc.path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(lc.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", lc.path, err)
		}
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(f), lc.level))
		closer = f.Close
	}

	if lc.verbose {
		enc := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(stderr)), lc.level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), closer, nil
	}
	logger := zap.New(zapcore.NewTee(cores...))
	return logger, func() error {
		_ = logger.Sync()
		return closer()
	}, nil
}

// NewLogger resolves the log configuration and builds the logger. The
// returned function flushes and closes the log outputs.
func NewLogger(flagPath, flagLevel string, verbose bool, cfg *config.Config, stderr io.Writer) (*zap.Logger, func() error, error) {
	lc, err := resolveLogConfig(flagPath, flagLevel, verbose, cfg)
	if err != nil {
		return nil, nil, err
	}
	return lc.build(stderr)
}
