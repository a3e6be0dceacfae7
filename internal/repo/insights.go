package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/miradorstack/fleetview/internal/metrics"
	"github.com/miradorstack/fleetview/internal/models"
)

const (
	// DefaultBriefRange is used by GetBrief when no range is given.
	DefaultBriefRange = models.RangeDay
	// DefaultInsightRange is used by GetInteractionInsight when no range is given.
	DefaultInsightRange = models.RangeWeek
)

// GetBrief fetches the fleet brief. The envelope is returned as received, including the
// server's cached flag; Refresh is forwarded as a hint and nothing is cached locally.
func (c *FleetClient) GetBrief(ctx context.Context, opts models.ArtifactOptions) (models.Brief, error) {
	params, err := opts.Values(DefaultBriefRange)
	if err != nil {
		return models.Brief{}, fmt.Errorf("%s: %w", OpGetBrief, err)
	}

	var brief models.Brief
	if err := c.get(ctx, OpGetBrief, PathBrief, params, &brief); err != nil {
		return models.Brief{}, err
	}
	c.observeArtifact("brief", params.Get("range"), opts.Refresh, brief.Cached)
	return brief, nil
}

// GetInteractionInsight fetches the interaction insight summary, defaulting to a weekly range.
func (c *FleetClient) GetInteractionInsight(ctx context.Context, opts models.ArtifactOptions) (models.Insight, error) {
	params, err := opts.Values(DefaultInsightRange)
	if err != nil {
		return models.Insight{}, fmt.Errorf("%s: %w", OpGetInsight, err)
	}

	var insight models.Insight
	if err := c.get(ctx, OpGetInsight, PathInteractionsInsight, params, &insight); err != nil {
		return models.Insight{}, err
	}
	c.observeArtifact("insight", params.Get("range"), opts.Refresh, insight.Cached)
	return insight, nil
}

func (c *FleetClient) observeArtifact(artifact, rng string, refresh, cached bool) {
	metrics.ObserveArtifact(artifact, cached)
	if refresh && cached {
		c.logger.Info("refresh requested but server answered from cache",
			slog.String("artifact", artifact), slog.String("range", rng))
	}
}
