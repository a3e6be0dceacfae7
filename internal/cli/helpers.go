package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/miradorstack/fleetview/internal/config"
	"github.com/miradorstack/fleetview/internal/models"
	"github.com/miradorstack/fleetview/internal/repo"
	"github.com/miradorstack/fleetview/internal/transport"
	"github.com/miradorstack/fleetview/internal/utils"
)

// environment is shared by every command of one invocation.
type environment struct {
	ctx     context.Context
	globals *GlobalFlags
	stdout  io.Writer
	stderr  io.Writer
}

// session is the configured client stack for one command.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	client *repo.FleetClient
}

func (e *environment) open() (*session, error) {
	cfg, err := config.Load(e.globals.Config)
	if err != nil {
		return nil, err
	}
	if e.globals.BaseURL != "" {
		cfg.API.BaseURL = e.globals.BaseURL
	}

	level := cfg.Logging.Level
	if e.globals.Verbose {
		level = "debug"
	}
	logger := utils.NewLogger(e.stderr, level, cfg.Logging.JSON)

	base := transport.NewClient(cfg.API.BaseURL, transport.Options{
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Logger:    logger,
	})
	doer := transport.Wrap(base, cfg.TransportResilience())

	return &session{
		cfg:    cfg,
		logger: logger,
		client: repo.NewFleetClient(doer, logger),
	}, nil
}

func (e *environment) printJSON(v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *environment) table(headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

// printFlat writes one "key  value" line per leaf of v, sorted by key.
func (e *environment) printFlat(v map[string]any) error {
	flat := flatten(v)
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, key := range slices.Sorted(maps.Keys(flat)) {
		fmt.Fprintf(tw, "%s\t%s\n", key, flat[key])
	}
	return tw.Flush()
}

// flatten renders nested objects as dotted keys with string values.
func flatten(v map[string]any) map[string]string {
	out := map[string]string{}
	flattenInto("", v, out)
	return out
}

func flattenInto(prefix string, v map[string]any, out map[string]string) {
	for key, value := range v {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(full, nested, out)
			continue
		}
		out[full] = formatValue(value)
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any, map[string]any:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	default:
		return fmt.Sprint(val)
	}
}

func summaryMap(s models.Summary) map[string]any {
	out := map[string]any{
		"robots": s.Robots,
		"tasks":  s.Tasks,
	}
	if s.Meta != nil {
		out["meta"] = s.Meta
	}
	return out
}

// parseAssignments decodes key=value arguments. Values that are valid JSON are decoded, so
// "10" becomes a number and "true" a boolean; anything else is kept as a string.
func parseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", errUsage, arg)
		}
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			out[key] = decoded
		} else {
			out[key] = raw
		}
	}
	return out, nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func optFloat(v float64, ok bool, format string) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func optTime(t time.Time, ok bool) string {
	if !ok {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func optDuration(d time.Duration, ok bool) string {
	if !ok {
		return "-"
	}
	return d.String()
}
