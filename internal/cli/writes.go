package cli

import (
	"fmt"

	"github.com/miradorstack/fleetview/internal/models"
)

// Execute implements the go-flags Commander interface for RequestCommand.
func (c *RequestCommand) Execute(_ []string) error {
	meta, err := parseAssignments(c.Meta)
	if err != nil {
		return err
	}
	req := models.UserRequest{Type: c.Type, Meta: meta}
	if c.TargetArea != "" {
		area := c.TargetArea
		req.TargetArea = &area
	}

	s, err := c.env.open()
	if err != nil {
		return err
	}
	ack, err := s.client.SubmitUserRequest(c.env.ctx, req)
	if err != nil {
		return err
	}
	return c.env.printAck("request", ack)
}

// Execute implements the go-flags Commander interface for SettingsGetCommand.
func (c *SettingsGetCommand) Execute(_ []string) error {
	s, err := c.env.open()
	if err != nil {
		return err
	}
	settings, err := s.client.GetSettings(c.env.ctx)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(settings)
	}
	return c.env.printFlat(settings)
}

// Execute implements the go-flags Commander interface for SettingsSetCommand.
func (c *SettingsSetCommand) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: settings set needs at least one key=value argument", errUsage)
	}
	updates, err := parseAssignments(args)
	if err != nil {
		return err
	}

	s, err := c.env.open()
	if err != nil {
		return err
	}

	settings := models.Settings{}
	if !c.Replace {
		current, err := s.client.GetSettings(c.env.ctx)
		if err != nil {
			return fmt.Errorf("read current settings: %w", err)
		}
		for k, v := range current {
			settings[k] = v
		}
	}
	for k, v := range updates {
		settings[k] = v
	}

	ack, err := s.client.SaveSettings(c.env.ctx, settings)
	if err != nil {
		return err
	}
	return c.env.printAck("settings", ack)
}

func (e *environment) printAck(what string, ack models.Ack) error {
	if e.globals.JSON {
		if err := e.printJSON(ack); err != nil {
			return err
		}
	}
	if !ack.OK() {
		return fmt.Errorf("%s rejected: %s", what, formatValue(map[string]any(ack)))
	}
	if !e.globals.JSON {
		fmt.Fprintf(e.stdout, "%s accepted", what)
		if id := models.Document(ack).String("id", "_id"); id != "" {
			fmt.Fprintf(e.stdout, " (id %s)", id)
		}
		fmt.Fprintln(e.stdout)
	}
	return nil
}
