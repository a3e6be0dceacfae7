package repo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/miradorstack/fleetview/internal/models"
	"github.com/miradorstack/fleetview/internal/transport"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func clientReturning(status int, body string) *FleetClient {
	httpClient := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
			Header:     make(http.Header),
		}, nil
	})}
	return NewFleetClient(transport.NewClient("https://fleet.test/api", transport.Options{HTTPClient: httpClient}), nil)
}

func TestMalformedBodyIsDecodeErrorForEveryRead(t *testing.T) {
	client := clientReturning(http.StatusOK, `<html>proxy error</html>`)
	ctx := context.Background()

	calls := map[string]func() error{
		OpListRobots: func() error { _, err := client.ListRobots(ctx, models.RobotFilter{}); return err },
		OpListTasks:  func() error { _, err := client.ListTasks(ctx, models.TaskFilter{}); return err },
		OpListEvents: func() error { _, err := client.ListEvents(ctx, models.EventFilter{}); return err },
		OpListInteractions: func() error {
			_, err := client.ListInteractions(ctx, models.InteractionFilter{})
			return err
		},
		OpGetSummary: func() error { _, err := client.GetSummary(ctx); return err },
		OpGetBrief:   func() error { _, err := client.GetBrief(ctx, models.ArtifactOptions{}); return err },
		OpGetInsight: func() error {
			_, err := client.GetInteractionInsight(ctx, models.ArtifactOptions{})
			return err
		},
		OpGetSettings: func() error { _, err := client.GetSettings(ctx); return err },
	}
	for op, call := range calls {
		err := call()
		var decErr *transport.DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("%s: expected DecodeError, got %T: %v", op, err, err)
		}
		if transport.StatusCode(err) != 0 {
			t.Fatalf("%s: decode failure must not be a ServerError", op)
		}
	}
}

func TestWrongShapeIsDecodeError(t *testing.T) {
	client := clientReturning(http.StatusOK, `{"robots":{"agv-01":{}}}`)
	_, err := client.ListRobots(context.Background(), models.RobotFilter{})
	if !transport.IsDecodeError(err) {
		t.Fatalf("expected DecodeError for non-array robots, got %v", err)
	}
}

func TestBriefGeneratedAtIsLenient(t *testing.T) {
	want := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	cases := map[string]struct {
		raw  string
		want *time.Time
	}{
		"rfc3339":       {raw: `"2024-05-06T12:00:00Z"`, want: &want},
		"epoch seconds": {raw: `1715000000`, want: ptr(time.Unix(1715000000, 0).UTC())},
		"zoneless iso":  {raw: `"2024-05-06T12:00:00.000000"`, want: &want},
		"null":          {raw: `null`},
		"unparseable":   {raw: `"soon"`},
		"wrong type":    {raw: `{"at":1}`},
	}
	for name, tc := range cases {
		client := clientReturning(http.StatusOK, `{"range":"day","cached":true,"brief":"ok","generated_at":`+tc.raw+`}`)
		brief, err := client.GetBrief(context.Background(), models.ArtifactOptions{})
		if err != nil {
			t.Fatalf("%s: a valid brief must decode, got %v", name, err)
		}
		if brief.Range != models.RangeDay || !brief.Cached || brief.Brief != "ok" {
			t.Fatalf("%s: envelope fields lost: %+v", name, brief)
		}
		switch {
		case tc.want == nil && brief.GeneratedAt != nil:
			t.Fatalf("%s: expected no generated_at, got %v", name, *brief.GeneratedAt)
		case tc.want != nil && (brief.GeneratedAt == nil || !brief.GeneratedAt.Equal(*tc.want)):
			t.Fatalf("%s: expected generated_at %v, got %v", name, *tc.want, brief.GeneratedAt)
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestMissingFieldYieldsNilNotSynthesised(t *testing.T) {
	client := clientReturning(http.StatusOK, `{"unexpected":true}`)
	tasks, err := client.ListTasks(context.Background(), models.TaskFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tasks != nil {
		t.Fatalf("missing field must not be replaced by an empty list, got %#v", tasks)
	}
}

func TestServerErrorForEveryStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		client := clientReturning(status, `{"error":"nope"}`)
		brief, err := client.GetBrief(context.Background(), models.ArtifactOptions{})
		if transport.StatusCode(err) != status {
			t.Fatalf("status %d: expected ServerError, got %v", status, err)
		}
		if brief != (models.Brief{}) {
			t.Fatalf("status %d: expected zero brief, got %+v", status, brief)
		}
	}
}
