package transport

// Resilience selects the opt-in decorators layered over a Doer. The zero value adds nothing.
type Resilience struct {
	Retry     *RetryPolicy
	Dedupe    bool
	RateLimit float64
	Burst     int
}

// Wrap layers the configured decorators over base. From the outside in: dedup, retry, rate
// limit. Coalesced callers therefore share one retry sequence, and every retry attempt
// consumes a rate-limit token.
func Wrap(base Doer, r Resilience) Doer {
	d := base
	if r.RateLimit > 0 {
		d = NewRateLimited(d, r.RateLimit, r.Burst)
	}
	if r.Retry != nil && r.Retry.MaxRetries > 0 {
		d = NewRetrying(d, *r.Retry)
	}
	if r.Dedupe {
		d = NewDeduplicating(d)
	}
	return d
}
