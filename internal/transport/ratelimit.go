package transport

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited spaces requests with a token bucket. Waiting honours ctx.
type RateLimited struct {
	next    Doer
	limiter *rate.Limiter
}

// NewRateLimited allows rps requests per second with the given burst.
func NewRateLimited(next Doer, rps float64, burst int) *RateLimited {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Do waits for a token and then runs req.
func (r *RateLimited) Do(ctx context.Context, req Request) (Envelope, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Op: req.Op, URL: req.Path, Err: fmt.Errorf("rate limiter: %w", err)}
	}
	return r.next.Do(ctx, req)
}
