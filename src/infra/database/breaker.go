package database

import (
	"context"
	"errors"
	"log/slog"

	"github.com/contre95/songbook/src/features/config"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerObserver receives breaker state changes as 0 closed, 1 half-open, 2 open.
type BreakerObserver interface {
	SetBreakerState(name string, state int)
}

// NewBreaker creates the circuit breaker guarding storage calls. While open,
// calls fail immediately instead of waiting on a backend known to be down.
func NewBreaker(cfg config.Breaker, observer BreakerObserver) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        "songs-storage",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A client hanging up says nothing about the backend.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Storage circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			if observer != nil {
				observer.SetBreakerState(name, breakerStateValue(to))
			}
		},
	}
	return gobreaker.NewCircuitBreaker[any](settings)
}

func breakerStateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
