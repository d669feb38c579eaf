// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package plex

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/metrics"
)

// BreakerSettings tunes the upstream circuit breaker.
type BreakerSettings struct {
	// Interval resets the failure counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// MinRequests is the sample size required before tripping.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
}

// DefaultBreakerSettings trips at 60% failures over at least 10 requests
// in a one minute window and probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// circuitBreaker guards upstream round trips. Only transport failures and
// 5xx answers count against it; 404s and other client errors are the
// caller's problem, not the server's.
type circuitBreaker struct {
	cb   *gobreaker.CircuitBreaker[*response]
	name string
}

func newCircuitBreaker(name string, s BreakerSettings) *circuitBreaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: breakerSuccess,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &circuitBreaker{cb: cb, name: name}
}

// breakerSuccess reports whether an outcome leaves the upstream's health
// untouched. A caller hanging up is not a server failure.
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	return !IsTransport(err) && !IsServerError(err)
}

// execute runs fn under the breaker. Rejections surface as TransportError.
func (b *circuitBreaker) execute(fn func() (*response, error)) (*response, error) {
	resp, err := b.cb.Execute(fn)
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
		return resp, nil
	}

	if isBreakerErr(err) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Request rejected")
		return nil, &TransportError{Err: err}
	}

	result := "success"
	if !breakerSuccess(err) {
		result = "failure"
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, result).Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
	return resp, err
}

func isBreakerErr(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *circuitBreaker) State() string {
	return stateToString(b.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
