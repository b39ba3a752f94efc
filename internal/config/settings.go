package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Settings are the resolved global options the client is built from.
type Settings struct {
	BaseURL        string
	Timeout        time.Duration
	CircuitBreaker bool
	CredentialFile string
	LogLevel       string
	LogFile        string
	HistorySize    int
}

// Settings returns the effective Settings for c (which may be nil): env vars
// first, then the config file, then schema defaults. Malformed values are
// reported together.
func (s *ConfigSchema) Settings(c *Config) (Settings, error) {
	var (
		out  Settings
		errs []error
	)
	value := func(key string) string {
		v := s.Resolve(c, key)
		if opt := s.Lookup("", key); opt != nil {
			if err := validateType(opt.Type, v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return opt.Default
			}
		}
		return v
	}

	out.BaseURL = value("api.base-url")
	out.Timeout, _ = time.ParseDuration(value("api.timeout"))
	out.CircuitBreaker, _ = parseBool(value("api.circuit-breaker"))
	out.CredentialFile = value("credential.file")
	out.LogLevel = value("log.level")
	out.LogFile = value("log.file")
	out.HistorySize, _ = strconv.Atoi(value("nutrition.history-size"))

	return out, errors.Join(errs...)
}
