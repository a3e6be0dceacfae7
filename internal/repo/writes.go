package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miradorstack/fleetview/internal/models"
)

// ErrMissingRequestType is returned when a user request has no type.
var ErrMissingRequestType = errors.New("user request type is required")

// SubmitUserRequest posts req to POST /user/request. A nil Meta is sent as an empty object.
func (c *FleetClient) SubmitUserRequest(ctx context.Context, req models.UserRequest) (models.Ack, error) {
	if strings.TrimSpace(req.Type) == "" {
		return nil, fmt.Errorf("%s: %w", OpSubmitUserRequest, ErrMissingRequestType)
	}
	if req.Meta == nil {
		req.Meta = map[string]any{}
	}

	var ack models.Ack
	if err := c.post(ctx, OpSubmitUserRequest, PathUserRequest, req, &ack); err != nil {
		return nil, err
	}
	return ack, nil
}

// GetSettings returns the application settings object.
func (c *FleetClient) GetSettings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	if err := c.get(ctx, OpGetSettings, PathSettings, nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings posts settings wrapped as {"settings": ...}.
func (c *FleetClient) SaveSettings(ctx context.Context, settings models.Settings) (models.Ack, error) {
	if settings == nil {
		settings = models.Settings{}
	}
	body := struct {
		Settings models.Settings `json:"settings"`
	}{Settings: settings}

	var ack models.Ack
	if err := c.post(ctx, OpSaveSettings, PathSettings, body, &ack); err != nil {
		return nil, err
	}
	return ack, nil
}
