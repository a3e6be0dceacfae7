package transport

import (
	"context"
	"net/http"

	"golang.org/x/sync/singleflight"
)

// Deduplicating coalesces identical in-flight GET requests: concurrent callers with the same
// method, path and parameters share one round trip. The table entry is dropped when the call
// completes, so nothing is cached beyond the lifetime of the request.
type Deduplicating struct {
	next  Doer
	group singleflight.Group
}

// NewDeduplicating wraps next.
func NewDeduplicating(next Doer) *Deduplicating {
	return &Deduplicating{next: next}
}

// Do runs req, joining an identical in-flight GET if one exists.
func (d *Deduplicating) Do(ctx context.Context, req Request) (Envelope, error) {
	if req.Method != "" && req.Method != http.MethodGet {
		return d.next.Do(ctx, req)
	}

	// The shared call is detached from any one caller's cancellation; each caller stops
	// waiting when its own ctx is done.
	ch := d.group.DoChan(req.Key(), func() (any, error) {
		return d.next.Do(context.WithoutCancel(ctx), req)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, &NetworkError{Op: req.Op, URL: req.Path, Err: ctx.Err()}
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	env, _ := res.Val.(Envelope)
	// Each caller owns its envelope.
	return append(Envelope(nil), env...), nil
}
