package transport

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/miradorstack/fleetview/internal/metrics"
)

// RetryPolicy configures exponential backoff for idempotent requests.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultRetryPolicy returns a conservative policy: three retries from 200ms up to 5s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
	}
}

// Retrying retries GET requests that failed with a *NetworkError or a 5xx/429 *ServerError.
// Client errors, decode errors and non-GET requests are returned after the first attempt.
type Retrying struct {
	next   Doer
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps next with policy.
func NewRetrying(next Doer, policy RetryPolicy) *Retrying {
	if policy.Multiplier < 1 {
		policy.Multiplier = 1
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = policy.BaseDelay
	}
	return &Retrying{next: next, policy: policy, sleep: sleepContext}
}

// Do runs req, retrying according to the policy.
func (r *Retrying) Do(ctx context.Context, req Request) (Envelope, error) {
	env, err := r.next.Do(ctx, req)
	if err == nil || !r.idempotent(req) {
		return env, err
	}

	delay := r.policy.BaseDelay
	for attempt := 1; attempt <= r.policy.MaxRetries; attempt++ {
		if !Retryable(err) || ctx.Err() != nil {
			return nil, err
		}

		// ±25% jitter.
		wait := time.Duration(float64(delay) * (0.75 + rand.Float64()*0.5))
		if sleepErr := r.sleep(ctx, wait); sleepErr != nil {
			return nil, err
		}
		delay = time.Duration(float64(delay) * r.policy.Multiplier)
		if delay > r.policy.MaxDelay {
			delay = r.policy.MaxDelay
		}

		metrics.ObserveRetry(req.Op)
		env, err = r.next.Do(ctx, req)
		if err == nil {
			return env, nil
		}
	}
	if !Retryable(err) {
		return nil, err
	}
	return nil, fmt.Errorf("max retries (%d) exceeded: %w", r.policy.MaxRetries, err)
}

func (r *Retrying) idempotent(req Request) bool {
	return req.Method == "" || req.Method == http.MethodGet
}

// Retryable reports whether err is a transient upstream failure.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Temporary()
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
