package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nutrigen/nutri/internal/command"
	"github.com/nutrigen/nutri/internal/config"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for bad usage and 1 for every other failure.
func exitCode(err error) int {
	var usage *command.UsageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Real environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintf(stderr, "Warning: failed to load .env: %v\n", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		configPath = ""
	}
	cfg := config.NewConfig()
	if configPath != "" {
		if loaded, err := config.LoadFromPath(configPath); err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
		} else {
			cfg = loaded
		}
	}

	global := flag.NewFlagSet("nutri", flag.ContinueOnError)
	global.SetOutput(stderr)
	logLevel := global.String("log-level", "", "Log level: debug, info, warn or error (default from log.level)")
	logFile := global.String("log-file", "", "Write JSON logs to this file (default from log.file)")
	var verbose bool
	global.BoolVar(&verbose, "v", false, "Also log to stderr")
	global.BoolVar(&verbose, "verbose", false, "Also log to stderr")
	global.Usage = func() {}
	if err := global.Parse(args); err != nil && !errors.Is(err, flag.ErrHelp) {
		return &command.UsageError{Message: err.Error()}
	}

	logger, closeLog, err := command.NewLogger(*logFile, *logLevel, verbose, cfg, stderr)
	if err != nil {
		return &command.UsageError{Message: err.Error()}
	}
	defer func() { _ = closeLog() }()

	for _, w := range cfg.Warnings {
		logger.Warn("config warning", zap.String("path", configPath), zap.String("warning", w))
	}
	settings, err := config.DefaultSchema().Settings(cfg)
	if err != nil {
		logger.Warn("invalid configuration, using defaults", zap.Error(err))
		_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	app, err := command.NewApp(ctx, cfg, settings, logger, command.WithVersion(version))
	if err != nil {
		return err
	}
	registry, help := command.NewDefaultRegistry(app, cfg, configPath, version)

	rest := global.Args()
	if len(rest) == 0 || rest[0] == "-h" || rest[0] == "--help" {
		return help.Execute(nil, stdout, stderr)
	}
	logger.Debug("running command", zap.String("command", rest[0]), zap.String("version", version))
	return registry.Run(rest[0], rest[1:], stdout, stderr)
}
