package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"github.com/vzahanych/weatherkit/internal/config"
	"github.com/vzahanych/weatherkit/internal/metrics"
	"github.com/vzahanych/weatherkit/pkg/weatherkit"
	"go.uber.org/zap"
)

// ErrUpstreamUnavailable is returned without contacting WeatherKit while the breaker is open.
var ErrUpstreamUnavailable = errors.New("weatherkit upstream unavailable")

func newBreaker(cfg config.BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	threshold := cfg.FailureThreshold
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherkit",
		MaxRequests: cfg.MaxRequests,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.Set(breakerStateValue(to))
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// guard runs fn through the breaker. Errors that say nothing about upstream health
// (4xx responses, signing failures, caller cancellation) are returned to the caller
// but reported to the breaker as successes.
func guard(cb *gobreaker.CircuitBreaker, fn func() error) error {
	if cb == nil {
		return fn()
	}

	var callErr error
	_, err := cb.Execute(func() (interface{}, error) {
		callErr = fn()
		if upstreamFault(callErr) {
			return nil, callErr
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return callErr
}

func upstreamFault(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var reqErr *weatherkit.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == 0 || reqErr.StatusCode >= http.StatusInternalServerError
	}

	var parseErr *weatherkit.ParseError
	return errors.As(err, &parseErr)
}

// outcome is the status label recorded for an upstream call.
func outcome(err error) string {
	if err == nil {
		return "success"
	}

	var (
		reqErr   *weatherkit.RequestError
		parseErr *weatherkit.ParseError
		signErr  *weatherkit.SigningError
	)
	switch {
	case errors.Is(err, ErrUpstreamUnavailable):
		return "unavailable"
	case errors.As(err, &signErr):
		return "signing_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &reqErr):
		switch {
		case reqErr.StatusCode == 0:
			return "transport_error"
		case reqErr.StatusCode >= http.StatusInternalServerError:
			return "server_error"
		default:
			return "client_error"
		}
	default:
		return "error"
	}
}
