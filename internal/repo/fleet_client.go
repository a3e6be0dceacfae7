package repo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/miradorstack/fleetview/internal/transport"
)

// Fleet API paths, relative to the configured API root.
const (
	PathRobots              = "/robots"
	PathTasks               = "/tasks"
	PathEvents              = "/events"
	PathSummary             = "/summary"
	PathBrief               = "/user/brief"
	PathUserRequest         = "/user/request"
	PathSettings            = "/app/settings"
	PathInteractions        = "/interactions"
	PathInteractionsInsight = "/interactions/insight"
)

// Operation names used for logs and metrics.
const (
	OpListRobots        = "list_robots"
	OpListTasks         = "list_tasks"
	OpListEvents        = "list_events"
	OpListInteractions  = "list_interactions"
	OpGetSummary        = "get_summary"
	OpGetBrief          = "get_brief"
	OpGetInsight        = "get_interaction_insight"
	OpSubmitUserRequest = "submit_user_request"
	OpGetSettings       = "get_settings"
	OpSaveSettings      = "save_settings"
)

// FleetClient exposes the fleet API read and write operations. It holds no per-call state:
// every method performs its own round trip and returns a freshly decoded value.
type FleetClient struct {
	doer   transport.Doer
	logger *slog.Logger
}

// NewFleetClient builds a client over doer, typically a *transport.Client optionally wrapped
// with transport.Wrap.
func NewFleetClient(doer transport.Doer, logger *slog.Logger) *FleetClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FleetClient{doer: doer, logger: logger}
}

func (c *FleetClient) get(ctx context.Context, op, path string, params url.Values, out any) error {
	return c.call(ctx, transport.Request{Op: op, Method: http.MethodGet, Path: path, Params: params}, out)
}

func (c *FleetClient) post(ctx context.Context, op, path string, body any, out any) error {
	return c.call(ctx, transport.Request{Op: op, Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *FleetClient) call(ctx context.Context, req transport.Request, out any) error {
	if c == nil || c.doer == nil {
		return fmt.Errorf("fleet client not initialised")
	}
	env, err := c.doer.Do(ctx, req)
	if err != nil {
		return err
	}
	return transport.Decode(req.Op, env, out)
}
