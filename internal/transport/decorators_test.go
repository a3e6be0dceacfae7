package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestRetryingRecoversFromNetworkError(t *testing.T) {
	next := &scriptedDoer{results: []scriptedResult{
		{err: &NetworkError{Op: "list_robots", Err: errors.New("reset")}},
		{err: &ServerError{Op: "list_robots", StatusCode: http.StatusBadGateway}},
		{env: Envelope(`{"robots":[]}`)},
	}}
	r := NewRetrying(next, RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, Multiplier: 2})
	r.sleep = noSleep

	env, err := r.Do(context.Background(), Request{Op: "list_robots", Method: http.MethodGet, Path: "/robots"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(env) != `{"robots":[]}` || next.count() != 3 {
		t.Fatalf("expected success on third attempt, calls=%d env=%s", next.count(), env)
	}
}

func TestRetryingDoesNotRetryClientErrors(t *testing.T) {
	next := &scriptedDoer{results: []scriptedResult{
		{err: &ServerError{Op: "list_tasks", StatusCode: http.StatusBadRequest}},
	}}
	r := NewRetrying(next, RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond})
	r.sleep = noSleep

	_, err := r.Do(context.Background(), Request{Op: "list_tasks", Path: "/tasks"})
	if StatusCode(err) != http.StatusBadRequest || next.count() != 1 {
		t.Fatalf("expected a single attempt with 400, calls=%d err=%v", next.count(), err)
	}
}

func TestRetryingDoesNotRetryDecodeErrors(t *testing.T) {
	next := &scriptedDoer{results: []scriptedResult{
		{err: &DecodeError{Op: "get_summary", Err: errors.New("bad json")}},
	}}
	r := NewRetrying(next, RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond})
	r.sleep = noSleep

	if _, err := r.Do(context.Background(), Request{Op: "get_summary", Path: "/summary"}); !IsDecodeError(err) || next.count() != 1 {
		t.Fatalf("expected single decode failure, calls=%d err=%v", next.count(), err)
	}
}

func TestRetryingSkipsNonIdempotentRequests(t *testing.T) {
	next := &scriptedDoer{results: []scriptedResult{
		{err: &NetworkError{Op: "submit_user_request", Err: errors.New("reset")}},
	}}
	r := NewRetrying(next, RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond})
	r.sleep = noSleep

	_, err := r.Do(context.Background(), Request{Op: "submit_user_request", Method: http.MethodPost, Path: "/user/request"})
	if !IsNetworkError(err) || next.count() != 1 {
		t.Fatalf("POST must not be retried, calls=%d", next.count())
	}
}

func TestRetryingExhaustsAttempts(t *testing.T) {
	next := &scriptedDoer{results: []scriptedResult{
		{err: &ServerError{Op: "get_brief", StatusCode: http.StatusInternalServerError}},
	}}
	r := NewRetrying(next, RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond})
	r.sleep = noSleep

	_, err := r.Do(context.Background(), Request{Op: "get_brief", Path: "/user/brief"})
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected wrapped server error, got %v", err)
	}
	if next.count() != 3 {
		t.Fatalf("expected 1 + 2 attempts, got %d", next.count())
	}
	if !strings.Contains(err.Error(), "max retries (2) exceeded") {
		t.Fatalf("expected exhaustion in message, got %v", err)
	}

	// A final attempt that fails permanently is reported as is.
	next = &scriptedDoer{results: []scriptedResult{
		{err: &ServerError{Op: "get_brief", StatusCode: http.StatusServiceUnavailable}},
		{err: &ServerError{Op: "get_brief", StatusCode: http.StatusNotFound}},
	}}
	r = NewRetrying(next, RetryPolicy{MaxRetries: 1, BaseDelay: time.Millisecond})
	r.sleep = noSleep

	_, err = r.Do(context.Background(), Request{Op: "get_brief", Path: "/user/brief"})
	var srvErr *ServerError
	if !errors.As(err, &srvErr) || srvErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected the 404 server error, got %v", err)
	}
	if strings.Contains(err.Error(), "max retries") {
		t.Fatalf("permanent failure must not be reported as exhaustion: %v", err)
	}
}

// blockingDoer holds every call until release is closed.
type blockingDoer struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (b *blockingDoer) Do(context.Context, Request) (Envelope, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.entered <- struct{}{}
	<-b.release
	return Envelope(`{"events":[{"type":"dock"}]}`), nil
}

func TestDeduplicatingSharesInFlightRequests(t *testing.T) {
	next := &blockingDoer{entered: make(chan struct{}, 8), release: make(chan struct{})}
	d := NewDeduplicating(next)
	req := Request{Op: "list_events", Method: http.MethodGet, Path: "/events"}

	const callers = 5
	results := make([]Envelope, callers)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		env, err := d.Do(context.Background(), req)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		results[0] = env
	}()
	<-next.entered

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			env, err := d.Do(context.Background(), req)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = env
		}(i)
	}
	// Let the followers reach the singleflight group before the leader finishes.
	time.Sleep(20 * time.Millisecond)
	close(next.release)
	wg.Wait()

	if next.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", next.calls)
	}
	results[0][0] = 'X'
	for i := 1; i < callers; i++ {
		if string(results[i]) != `{"events":[{"type":"dock"}]}` {
			t.Fatalf("caller %d observed aliased or wrong envelope: %s", i, results[i])
		}
	}
}

// cancellableDoer blocks until release is closed or the call's ctx is done.
type cancellableDoer struct {
	entered chan struct{}
	release chan struct{}
}

func (c *cancellableDoer) Do(ctx context.Context, req Request) (Envelope, error) {
	c.entered <- struct{}{}
	select {
	case <-ctx.Done():
		return nil, &NetworkError{Op: req.Op, URL: req.Path, Err: ctx.Err()}
	case <-c.release:
		return Envelope(`{"robots":[]}`), nil
	}
}

func TestDeduplicatingLeaderCancelDoesNotFailFollowers(t *testing.T) {
	next := &cancellableDoer{entered: make(chan struct{}, 8), release: make(chan struct{})}
	d := NewDeduplicating(next)
	req := Request{Op: "list_robots", Method: http.MethodGet, Path: "/robots"}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := d.Do(leaderCtx, req)
		leaderErr <- err
	}()
	<-next.entered

	followerEnv := make(chan Envelope, 1)
	followerErr := make(chan error, 1)
	go func() {
		env, err := d.Do(context.Background(), req)
		followerEnv <- env
		followerErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	err := <-leaderErr
	if !IsNetworkError(err) || !errors.Is(err, context.Canceled) {
		t.Fatalf("leader should stop with its own cancellation, got %v", err)
	}

	close(next.release)
	if err := <-followerErr; err != nil {
		t.Fatalf("follower must not inherit the leader's cancellation: %v", err)
	}
	if env := <-followerEnv; string(env) != `{"robots":[]}` {
		t.Fatalf("unexpected follower envelope %s", env)
	}
}

func TestDeduplicatingPassesThroughWrites(t *testing.T) {
	next := &scriptedDoer{results: []scriptedResult{{env: Envelope(`{"ok":true}`)}}}
	d := NewDeduplicating(next)
	for i := 0; i < 2; i++ {
		if _, err := d.Do(context.Background(), Request{Op: "save_settings", Method: http.MethodPost, Path: "/app/settings"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if next.count() != 2 {
		t.Fatalf("expected each write to reach upstream, got %d", next.count())
	}
}

func TestRateLimitedCancelledWaitIsNetworkError(t *testing.T) {
	next := &scriptedDoer{results: []scriptedResult{{env: Envelope(`{}`)}}}
	r := NewRateLimited(next, 0.001, 1)

	if _, err := r.Do(context.Background(), Request{Op: "list_robots", Path: "/robots"}); err != nil {
		t.Fatalf("first call should consume the burst token: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := r.Do(ctx, Request{Op: "list_robots", Path: "/robots"})
	if !IsNetworkError(err) {
		t.Fatalf("expected NetworkError from limiter, got %v", err)
	}
	if next.count() != 1 {
		t.Fatalf("limited call must not reach upstream")
	}
}

func TestWrapZeroValueReturnsBase(t *testing.T) {
	base := &scriptedDoer{}
	if Wrap(base, Resilience{}) != Doer(base) {
		t.Fatalf("zero Resilience should not decorate")
	}
	policy := DefaultRetryPolicy()
	if _, ok := Wrap(base, Resilience{Retry: &policy, Dedupe: true}).(*Deduplicating); !ok {
		t.Fatalf("dedup should be the outermost decorator")
	}
}
