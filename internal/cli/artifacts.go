package cli

import (
	"fmt"
	"time"

	"github.com/miradorstack/fleetview/internal/models"
)

// Execute implements the go-flags Commander interface for BriefCommand.
func (c *BriefCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}
	brief, err := s.client.GetBrief(c.env.ctx, models.ArtifactOptions{
		Range:   models.Range(c.Range),
		Refresh: c.Refresh,
	})
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(brief)
	}

	fmt.Fprintf(c.env.stdout, "Fleet brief (%s, %s)", brief.Range, freshness(brief.Cached))
	if brief.GeneratedAt != nil {
		fmt.Fprintf(c.env.stdout, ", generated %s", brief.GeneratedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(c.env.stdout, "\n\n%s\n", brief.Brief)
	return nil
}

// Execute implements the go-flags Commander interface for InsightCommand.
func (c *InsightCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}
	insight, err := s.client.GetInteractionInsight(c.env.ctx, models.ArtifactOptions{
		Range:   models.Range(c.Range),
		Refresh: c.Refresh,
	})
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(insight)
	}

	fmt.Fprintf(c.env.stdout, "Interaction insight (%s, %s)\n\n%s\n", insight.Range, freshness(insight.Cached), insight.Insight)
	if len(insight.Stats) > 0 {
		fmt.Fprintln(c.env.stdout)
		return c.env.printFlat(map[string]any{"stats": insight.Stats})
	}
	return nil
}

func freshness(cached bool) string {
	if cached {
		return "cached"
	}
	return "fresh"
}
