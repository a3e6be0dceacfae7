package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miradorstack/fleetview/internal/metrics"
	"github.com/miradorstack/fleetview/internal/models"
	"github.com/miradorstack/fleetview/internal/repo"
)

// change is one summary field that differs between two polls.
type change struct {
	Key  string `json:"key"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Execute implements the go-flags Commander interface for WatchCommand.
func (c *WatchCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}

	interval := s.cfg.Watch.Interval
	if c.Interval != "" {
		d, err := time.ParseDuration(c.Interval)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: invalid --interval %q", errUsage, c.Interval)
		}
		interval = d
	}
	local := c.Local || s.cfg.Watch.Local

	ctx, stop := signal.NotifyContext(c.env.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	addr := s.cfg.Server.MetricsAddress
	if c.MetricsAddress != "" {
		addr = c.MetricsAddress
	}
	if addr != "" && !c.NoMetrics {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			s.logger.Info("metrics server listening", slog.String("address", addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.GracefulTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("metrics server shutdown", slog.Any("error", err))
			}
		}()
	}

	s.logger.Info("watching summary",
		slog.String("api", s.cfg.API.BaseURL),
		slog.Duration("interval", interval),
		slog.Bool("local", local),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var previous map[string]string
	for polls := 1; ; polls++ {
		summary, err := c.poll(ctx, s, local)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			s.logger.Warn("summary poll failed", slog.Int("poll", polls), slog.Any("error", err))
		default:
			current := flatten(summaryMap(summary))
			changes := summaryDelta(previous, current)
			if err := c.report(s, changes); err != nil {
				return err
			}
			previous = current
		}

		if c.Count > 0 && polls >= c.Count {
			return nil
		}
		select {
		case <-ctx.Done():
			s.logger.Info("shutdown signal received")
			return nil
		case <-ticker.C:
		}
	}
}

func (c *WatchCommand) poll(ctx context.Context, s *session, local bool) (models.Summary, error) {
	if local {
		return s.client.AggregateSummary(ctx, repo.AggregateOptions{})
	}
	return s.client.GetSummary(ctx)
}

func (c *WatchCommand) report(s *session, changes []change) error {
	for _, ch := range changes {
		s.logger.Info("summary changed",
			slog.String("key", ch.Key),
			slog.String("from", ch.From),
			slog.String("to", ch.To),
		)
		if c.env.globals.JSON {
			continue
		}
		fmt.Fprintf(c.env.stdout, "%s  %s: %s -> %s\n",
			time.Now().UTC().Format(time.TimeOnly), ch.Key, dash(ch.From), dash(ch.To))
	}
	if c.env.globals.JSON && len(changes) > 0 {
		return c.env.printJSON(changes)
	}
	return nil
}

// summaryDelta lists the keys whose values differ between two flattened summaries, sorted by
// key. meta.* fields are ignored since they change on every poll. A nil previous snapshot
// reports every field as new.
func summaryDelta(previous, current map[string]string) []change {
	var changes []change
	for _, key := range slices.Sorted(maps.Keys(current)) {
		if strings.HasPrefix(key, "meta.") {
			continue
		}
		before, seen := previous[key]
		if !seen || before != current[key] {
			changes = append(changes, change{Key: key, From: before, To: current[key]})
		}
	}
	for _, key := range slices.Sorted(maps.Keys(previous)) {
		if strings.HasPrefix(key, "meta.") {
			continue
		}
		if _, still := current[key]; !still {
			changes = append(changes, change{Key: key, From: previous[key]})
		}
	}
	return changes
}
