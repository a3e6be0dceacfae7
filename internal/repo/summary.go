package repo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/miradorstack/fleetview/internal/models"
)

// GetSummary returns the server-aggregated GET /summary envelope unmodified.
func (c *FleetClient) GetSummary(ctx context.Context) (models.Summary, error) {
	var summary models.Summary
	if err := c.get(ctx, OpGetSummary, PathSummary, nil, &summary); err != nil {
		return models.Summary{}, err
	}
	return summary, nil
}

// AggregateOptions bounds the feeds AggregateSummary reads.
type AggregateOptions struct {
	RobotLimit int
	TaskLimit  int
	// Now stamps meta.generated_at; time.Now when nil.
	Now func() time.Time
}

// AggregateSummary builds a summary on the client from the robots and tasks feeds, for
// deployments without a /summary endpoint. Both feeds are fetched concurrently and the
// failure of either fails the whole summary; no section is ever omitted silently.
func (c *FleetClient) AggregateSummary(ctx context.Context, opts AggregateOptions) (models.Summary, error) {
	var (
		robots []models.Robot
		tasks  []models.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		robots, err = c.ListRobots(gctx, models.RobotFilter{Limit: opts.RobotLimit})
		if err != nil {
			return fmt.Errorf("aggregate summary: robots: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = c.ListTasks(gctx, models.TaskFilter{Limit: opts.TaskLimit})
		if err != nil {
			return fmt.Errorf("aggregate summary: tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Summary{}, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	return models.Summary{
		Robots: robotSection(robots),
		Tasks:  taskSection(tasks),
		Meta: map[string]any{
			"source":       models.SummarySourceClient,
			"generated_at": now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func robotSection(robots []models.Robot) map[string]any {
	byStatus := map[string]any{}
	var (
		batterySum   float64
		batteryCount int
	)
	for _, r := range robots {
		incr(byStatus, statusOrUnknown(r.Status()))
		if b, ok := r.Battery(); ok {
			batterySum += b
			batteryCount++
		}
	}
	section := map[string]any{
		"total":     len(robots),
		"by_status": byStatus,
	}
	if batteryCount > 0 {
		section["avg_battery"] = batterySum / float64(batteryCount)
	}
	return section
}

func taskSection(tasks []models.Task) map[string]any {
	byStatus := map[string]any{}
	var total time.Duration
	var timed int
	for _, t := range tasks {
		incr(byStatus, statusOrUnknown(t.Status()))
		if d, ok := t.ActualDuration(); ok {
			total += d
			timed++
		}
	}
	section := map[string]any{
		"total":     len(tasks),
		"by_status": byStatus,
	}
	if timed > 0 {
		section["avg_duration_ms"] = (total / time.Duration(timed)).Milliseconds()
	}
	return section
}

func incr(counts map[string]any, key string) {
	n, _ := counts[key].(int)
	counts[key] = n + 1
}

func statusOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
