// Package ratelimit paces outbound API requests.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with a name for logging. Rates below one
// request per second are valid; BGG asks clients to stay well under that
// during bulk fetches.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing perSecond requests per second. Burst is
// derived from the rate with a floor of one, so a fractional rate still
// admits single requests immediately.
func New(name string, perSecond float64) *Limiter {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		name:    name,
	}
}

// Wait blocks until the limiter admits a request or the context is
// cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the limiter's name.
func (l *Limiter) Name() string {
	return l.name
}
