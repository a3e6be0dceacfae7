package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miradorstack/fleetview/internal/mockapi"
)

var fixedNow = time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)

// startMock serves the mock fleet API under /api and returns its API root.
func startMock(t *testing.T, opts mockapi.Options) (string, *mockapi.Server) {
	t.Helper()
	opts.Fixtures = mockapi.DefaultFixtures(fixedNow)
	opts.Now = func() time.Time { return fixedNow }
	mock := mockapi.NewServer(opts)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", mock.Handler()))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/api", mock
}

// runCLI executes fleetctl with args and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FLEETVIEW_CONFIG", "")
	t.Setenv("FLEETVIEW_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), "test", args, &stdout, &stderr)
	return stdout.String(), err
}
