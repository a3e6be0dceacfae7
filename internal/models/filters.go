package models

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/miradorstack/fleetview/internal/query"
)

// RobotFilter lists the options recognised by GET /robots.
type RobotFilter struct {
	Limit int
}

// Values returns the query parameters to transmit.
func (f RobotFilter) Values() url.Values {
	return query.New().Int("limit", f.Limit).Values()
}

// TaskFilter lists the options recognised by GET /tasks.
type TaskFilter struct {
	Status string
	Limit  int
}

// Values returns the query parameters to transmit.
func (f TaskFilter) Values() url.Values {
	return query.New().
		String("status", f.Status).
		Int("limit", f.Limit).
		Values()
}

// EventFilter lists the options recognised by GET /events.
type EventFilter struct {
	Limit int
}

// Values returns the query parameters to transmit.
func (f EventFilter) Values() url.Values {
	return query.New().Int("limit", f.Limit).Values()
}

// InteractionFilter lists the options recognised by GET /interactions.
type InteractionFilter struct {
	Limit     int
	Type      string
	InputMode string
	Result    string
	// Query is free text, sent as "q".
	Query string
}

// Values returns the query parameters to transmit.
func (f InteractionFilter) Values() url.Values {
	return query.New().
		Int("limit", f.Limit).
		String("type", f.Type).
		String("input_mode", f.InputMode).
		String("result", f.Result).
		String("q", f.Query).
		Values()
}

// Range selects the window an AI artifact summarises.
type Range string

const (
	RangeDay  Range = "day"
	RangeWeek Range = "week"
)

// ErrInvalidRange is returned for a range other than day or week.
var ErrInvalidRange = errors.New("invalid range")

// Valid reports whether r is a known range.
func (r Range) Valid() bool {
	return r == RangeDay || r == RangeWeek
}

// ParseRange validates s; the empty string yields the empty Range (operation default).
func ParseRange(s string) (Range, error) {
	r := Range(s)
	if s == "" || r.Valid() {
		return r, nil
	}
	return "", fmt.Errorf("%w %q: want %q or %q", ErrInvalidRange, s, RangeDay, RangeWeek)
}

// ArtifactOptions configures a brief or insight fetch. An empty Range selects the
// operation's own default.
type ArtifactOptions struct {
	Range Range
	// Refresh asks the server to regenerate instead of answering from its cache. The server
	// may still answer from cache.
	Refresh bool
}

// Values returns the query parameters to transmit, with def applied when Range is empty.
func (o ArtifactOptions) Values(def Range) (url.Values, error) {
	r := o.Range
	if r == "" {
		r = def
	}
	if !r.Valid() {
		return nil, fmt.Errorf("%w %q: want %q or %q", ErrInvalidRange, r, RangeDay, RangeWeek)
	}
	return query.New().
		String("range", string(r)).
		Flag("refresh", o.Refresh).
		Values(), nil
}
