// Package transport issues single HTTP round trips against the fleet API and maps every
// failure onto one of three error kinds: *NetworkError, *ServerError and *DecodeError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/fleetview/internal/metrics"
	"github.com/miradorstack/fleetview/internal/utils"
)

// RequestIDHeader carries a per-call identifier so server logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// Envelope is the raw, syntactically valid JSON body of a successful response.
type Envelope []byte

// Request describes one call against the fleet API.
type Request struct {
	// Op names the operation for logs and metrics, e.g. "list_robots".
	Op     string
	Method string
	// Path is relative to the API root, e.g. "/robots".
	Path   string
	Params url.Values
	// Body is JSON-encoded when non-nil.
	Body any
}

// Key identifies requests that would hit the server identically.
func (r Request) Key() string {
	return r.Method + " " + r.Path + "?" + r.Params.Encode()
}

// Doer performs fleet API requests. Client is the network implementation; the decorators in
// this package wrap any Doer.
type Doer interface {
	Do(ctx context.Context, req Request) (Envelope, error)
}

// Options configures a Client.
type Options struct {
	// Timeout bounds each round trip; zero leaves it to the caller's context.
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
	// HTTPClient overrides the underlying client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client performs exactly one HTTP round trip per Do call. It neither retries, caches nor
// coalesces requests.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
	latencies  *utils.LatencyTracker
}

// NewClient constructs a client rooted at baseURL (e.g. "http://127.0.0.1:1880/api").
func NewClient(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
		logger:     logger,
		latencies:  utils.NewLatencyTracker(1024),
	}
}

// BaseURL returns the API root the client resolves paths against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues req and returns the response envelope.
func (c *Client) Do(ctx context.Context, req Request) (Envelope, error) {
	if c == nil {
		return nil, fmt.Errorf("fleet API client not initialised")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("fleet API base URL not configured")
	}

	endpoint := c.resolve(req.Path, req.Params)
	httpReq, err := c.newRequest(ctx, req, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.Op, err)
	}

	start := time.Now()
	env, status, err := c.roundTrip(httpReq, req.Op, endpoint)
	duration := time.Since(start)
	c.observe(req, endpoint, status, duration, err)
	return env, err
}

func (c *Client) newRequest(ctx context.Context, req Request, endpoint string) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	return httpReq, nil
}

func (c *Client) roundTrip(httpReq *http.Request, op, endpoint string) (Envelope, int, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, &NetworkError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &NetworkError{Op: op, URL: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := &ServerError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       data,
		}
		if json.Valid(data) {
			serverErr.Payload = json.RawMessage(data)
		}
		return nil, resp.StatusCode, serverErr
	}

	if resp.StatusCode == http.StatusNoContent && len(bytes.TrimSpace(data)) == 0 {
		return Envelope("null"), resp.StatusCode, nil
	}
	if !json.Valid(data) {
		return nil, resp.StatusCode, &DecodeError{Op: op, Body: data, Err: fmt.Errorf("body is not valid JSON")}
	}
	return Envelope(data), resp.StatusCode, nil
}

func (c *Client) observe(req Request, endpoint string, status int, duration time.Duration, err error) {
	outcome := metrics.OutcomeSuccess
	switch err.(type) {
	case nil:
	case *NetworkError:
		outcome = metrics.OutcomeNetworkError
	case *ServerError:
		outcome = metrics.OutcomeServerError
	case *DecodeError:
		outcome = metrics.OutcomeDecodeError
	}
	metrics.ObserveUpstream(req.Op, duration, outcome)

	attrs := []any{
		slog.String("op", req.Op),
		slog.String("method", req.Method),
		slog.String("url", endpoint),
		slog.Int("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		c.logger.Warn("fleet API call failed", append(attrs, slog.String("outcome", outcome), slog.Any("error", err))...)
		return
	}
	c.logger.Debug("fleet API call", attrs...)

	if count := c.latencies.Observe(duration); count >= 20 && count%20 == 0 {
		p := c.latencies.Percentiles(50, 95)
		c.logger.Info("fleet API latency", slog.Duration("p50", p[0]), slog.Duration("p95", p[1]), slog.Uint64("samples", count))
	}
}

func (c *Client) resolve(p string, params url.Values) string {
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		endpoint := c.baseURL + cleaned
		if len(params) > 0 {
			endpoint += "?" + params.Encode()
		}
		return endpoint
	}
	u.Path = path.Join(u.Path, cleaned)
	u.RawQuery = params.Encode()
	return u.String()
}

// Decode unmarshals env into out, reporting failures as *DecodeError.
func Decode(op string, env Envelope, out any) error {
	if err := json.Unmarshal(env, out); err != nil {
		return &DecodeError{Op: op, Body: env, Err: err}
	}
	return nil
}
