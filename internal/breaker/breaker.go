// Package breaker wraps sony/gobreaker with application defaults and
// state-change logging.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"spreadwatch/internal/apperror"
	"spreadwatch/internal/logger"
)

// Config holds circuit breaker tuning.
type Config struct {
	Name        string
	MaxRequests uint32        // allowed requests while half-open
	Interval    time.Duration // counters reset cadence while closed
	Timeout     time.Duration // open -> half-open delay
	MinRequests uint32        // minimum samples before tripping
	FailureRate float64       // trip when failure ratio reaches this
}

// DefaultConfig returns defaults suited to exchange REST endpoints.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MinRequests: 5,
		FailureRate: 0.6,
	}
}

// Breaker is a typed circuit breaker around an operation returning T.
type Breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// New creates a breaker from cfg. State transitions are logged through log.
func New[T any](cfg Config, log logger.LoggerInterface) *Breaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRate >= cfg.FailureRate
		},
	}

	if log != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		}
	}

	return &Breaker[T]{
		cb:   gobreaker.NewCircuitBreaker[T](settings),
		name: cfg.Name,
	}
}

// Execute runs fn through the breaker. When the breaker is open the call is
// rejected without invoking fn.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			var zero T
			return zero, apperror.External(apperror.CodeCircuitOpen, b.name, err)
		}
		return result, err
	}
	return result, nil
}

// State returns the current breaker state.
func (b *Breaker[T]) State() gobreaker.State {
	return b.cb.State()
}
