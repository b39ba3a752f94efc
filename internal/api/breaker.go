package api

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds the circuit breaker tuning exposed through config.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker tuning used by `api.circuit-breaker true`.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Settings converts cfg into gobreaker settings, logging state changes to logger.
func (cfg BreakerConfig) Settings(logger *zap.Logger) gobreaker.Settings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: breakerSuccess,
	}
}

// breakerSuccess counts client errors (4xx) as successes: the remote answered.
// Transport failures and 5xx responses count against the breaker.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode < 500
	}
	return false
}

// IsBreakerOpen reports whether err came from an open (or saturated half-open)
// circuit breaker rather than from the remote API.
func IsBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
