// Package ratelimit throttles outbound exchange API calls.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces requests against a per-minute venue budget.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter for the given requests-per-minute budget. Bursts of
// up to a tenth of the budget are allowed so a multi-pair snapshot does not
// serialize on the limiter.
func New(requestsPerMinute int) *Limiter {
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

// Wait blocks until a request slot is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may go out right now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// SetLimit adjusts the per-minute budget, for venues that advertise their
// current limit in response headers.
func (l *Limiter) SetLimit(requestsPerMinute int) {
	l.limiter.SetLimit(rate.Limit(float64(requestsPerMinute) / 60.0))
}
