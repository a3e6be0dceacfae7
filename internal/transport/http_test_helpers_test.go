package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(rt roundTripFunc) *http.Client {
	return &http.Client{Transport: rt}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

// scriptedDoer replays a fixed sequence of results and counts calls.
type scriptedDoer struct {
	mu      sync.Mutex
	calls   int
	results []scriptedResult
}

type scriptedResult struct {
	env Envelope
	err error
}

func (s *scriptedDoer) Do(_ context.Context, _ Request) (Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	r := s.results[idx]
	return r.env, r.err
}

func (s *scriptedDoer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
