package repo

import (
	"context"

	"github.com/miradorstack/fleetview/internal/models"
)

// ListRobots returns the "robots" field of GET /robots.
func (c *FleetClient) ListRobots(ctx context.Context, filter models.RobotFilter) ([]models.Robot, error) {
	var envelope struct {
		Robots []models.Robot `json:"robots"`
	}
	if err := c.get(ctx, OpListRobots, PathRobots, filter.Values(), &envelope); err != nil {
		return nil, err
	}
	return envelope.Robots, nil
}

// ListTasks returns the "tasks" field of GET /tasks.
func (c *FleetClient) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var envelope struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := c.get(ctx, OpListTasks, PathTasks, filter.Values(), &envelope); err != nil {
		return nil, err
	}
	return envelope.Tasks, nil
}

// ListEvents returns the "events" field of GET /events.
func (c *FleetClient) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var envelope struct {
		Events []models.Event `json:"events"`
	}
	if err := c.get(ctx, OpListEvents, PathEvents, filter.Values(), &envelope); err != nil {
		return nil, err
	}
	return envelope.Events, nil
}

// ListInteractions returns the whole GET /interactions envelope, interactions and stats.
func (c *FleetClient) ListInteractions(ctx context.Context, filter models.InteractionFilter) (models.InteractionPage, error) {
	var page models.InteractionPage
	if err := c.get(ctx, OpListInteractions, PathInteractions, filter.Values(), &page); err != nil {
		return models.InteractionPage{}, err
	}
	return page, nil
}
