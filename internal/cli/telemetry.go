package cli

import (
	"fmt"

	"github.com/miradorstack/fleetview/internal/models"
	"github.com/miradorstack/fleetview/internal/repo"
)

// Execute implements the go-flags Commander interface for RobotsCommand.
func (c *RobotsCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}
	robots, err := s.client.ListRobots(c.env.ctx, models.RobotFilter{Limit: c.Limit})
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(robots)
	}

	tw := c.env.table("ROBOT", "STATUS", "BATTERY", "POSE", "UPDATED")
	for _, r := range robots {
		pose := "-"
		if p, ok := r.Pose(); ok {
			pose = p.String()
		}
		battery, hasBattery := r.Battery()
		updated, hasUpdated := r.UpdatedAt()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			dash(r.RobotID()), dash(r.Status()), optFloat(battery, hasBattery, "%.0f%%"), pose, optTime(updated, hasUpdated))
	}
	return tw.Flush()
}

// Execute implements the go-flags Commander interface for TasksCommand.
func (c *TasksCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}
	tasks, err := s.client.ListTasks(c.env.ctx, models.TaskFilter{Status: c.Status, Limit: c.Limit})
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(tasks)
	}

	tw := c.env.table("TASK", "STATUS", "ROBOT", "DURATION", "CREATED")
	for _, t := range tasks {
		d, hasDuration := t.ActualDuration()
		created, hasCreated := t.CreatedAt()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			dash(t.TaskID()), dash(t.Status()), dash(t.AssignedRobot()), optDuration(d, hasDuration), optTime(created, hasCreated))
	}
	return tw.Flush()
}

// Execute implements the go-flags Commander interface for EventsCommand.
func (c *EventsCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}
	events, err := s.client.ListEvents(c.env.ctx, models.EventFilter{Limit: c.Limit})
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(events)
	}

	tw := c.env.table("TIME", "TYPE", "ROBOT", "MESSAGE")
	for _, e := range events {
		ts, ok := e.Timestamp()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", optTime(ts, ok), dash(e.Type()), dash(e.RobotID()), dash(e.Message()))
	}
	return tw.Flush()
}

// Execute implements the go-flags Commander interface for InteractionsCommand.
func (c *InteractionsCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}
	page, err := s.client.ListInteractions(c.env.ctx, models.InteractionFilter{
		Limit:     c.Limit,
		Type:      c.Type,
		InputMode: c.InputMode,
		Result:    c.Result,
		Query:     c.Query,
	})
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(page)
	}

	tw := c.env.table("ID", "TIME", "TYPE", "INPUT", "RESULT")
	for _, i := range page.Interactions {
		ts, ok := i.Timestamp()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			dash(i.InteractionID()), optTime(ts, ok), dash(i.Type()), dash(i.InputMode()), dash(i.Result()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(page.Stats) > 0 {
		fmt.Fprintln(c.env.stdout)
		return c.env.printFlat(map[string]any{"stats": page.Stats})
	}
	return nil
}

// Execute implements the go-flags Commander interface for SummaryCommand.
func (c *SummaryCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}

	var summary models.Summary
	if c.Local {
		summary, err = s.client.AggregateSummary(c.env.ctx, repo.AggregateOptions{
			RobotLimit: c.RobotLimit,
			TaskLimit:  c.TaskLimit,
		})
	} else {
		summary, err = s.client.GetSummary(c.env.ctx)
	}
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return c.env.printJSON(summary)
	}
	return c.env.printFlat(summaryMap(summary))
}
