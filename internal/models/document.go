package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/miradorstack/fleetview/internal/utils"
)

// Document is a schemaless record as stored upstream. The fleet API returns robots, tasks,
// events and interactions as documents whose keys vary with firmware and integration
// versions, so the full record is kept and typed views read from it.
type Document map[string]any

// ID returns the storage identifier ("_id"), if any.
func (d Document) ID() string {
	return d.String("_id")
}

// String returns the first non-empty string-ish value among keys.
func (d Document) String(keys ...string) string {
	for _, key := range keys {
		switch v := d[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

// Float returns the first numeric value among keys. Numeric strings are accepted.
func (d Document) Float(keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := d[key].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Time returns the first parsable timestamp among keys.
func (d Document) Time(keys ...string) (time.Time, bool) {
	for _, key := range keys {
		v, ok := d[key]
		if !ok {
			continue
		}
		if t, err := utils.ParseTimestamp(v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Object returns a nested object under key.
func (d Document) Object(key string) Document {
	if m, ok := d[key].(map[string]any); ok {
		return Document(m)
	}
	return nil
}

// Robot is the current snapshot of one vehicle.
type Robot Document

func (r Robot) doc() Document { return Document(r) }

// RobotID returns "robot_id", falling back to the storage id.
func (r Robot) RobotID() string { return r.doc().String("robot_id", "_id") }

// Status returns the robot's reported state ("status" or "state").
func (r Robot) Status() string { return r.doc().String("status", "state") }

// Battery returns the battery percentage clamped to 0..100.
func (r Robot) Battery() (float64, bool) {
	v, ok := r.doc().Float("battery", "battery_pct")
	if !ok {
		return 0, false
	}
	return min(max(v, 0), 100), true
}

// CPUTemp returns the CPU temperature in °C.
func (r Robot) CPUTemp() (float64, bool) { return r.doc().Float("cpu_temp") }

// Pose returns the x/y position and heading.
func (r Robot) Pose() (Pose, bool) {
	return poseFrom(r.doc().Object("pose"))
}

// UpdatedAt returns the last update time.
func (r Robot) UpdatedAt() (time.Time, bool) { return r.doc().Time("updated_at", "ts") }

// Task is one task lifecycle record.
type Task Document

func (t Task) doc() Document { return Document(t) }

// TaskID returns "task_id", falling back to the storage id.
func (t Task) TaskID() string { return t.doc().String("task_id", "_id") }

// Status returns the lifecycle status.
func (t Task) Status() string { return t.doc().String("status") }

// AssignedRobot returns the robot the task was dispatched to.
func (t Task) AssignedRobot() string { return t.doc().String("assigned_robot", "robot_id") }

// ActualDuration returns the measured execution time.
func (t Task) ActualDuration() (time.Duration, bool) {
	ms, ok := t.doc().Float("actual_duration_ms")
	return time.Duration(ms * float64(time.Millisecond)), ok
}

// ExpectedDuration returns the planned execution time.
func (t Task) ExpectedDuration() (time.Duration, bool) {
	ms, ok := t.doc().Float("expected_duration_ms")
	return time.Duration(ms * float64(time.Millisecond)), ok
}

// CreatedAt returns when the task was created.
func (t Task) CreatedAt() (time.Time, bool) { return t.doc().Time("created_at", "ts") }

// Event is one entry of the append-only event stream.
type Event Document

func (e Event) doc() Document { return Document(e) }

// Type returns the event type, e.g. "task_status_update".
func (e Event) Type() string { return e.doc().String("type") }

// RobotID returns the robot the event concerns.
func (e Event) RobotID() string { return e.doc().String("robot_id") }

// Message returns the human-readable detail.
func (e Event) Message() string { return e.doc().String("msg", "detail", "message") }

// Timestamp returns when the event happened.
func (e Event) Timestamp() (time.Time, bool) { return e.doc().Time("ts", "created_at") }

// PoseLike reports whether the event carries a position update.
func (e Event) PoseLike() bool {
	_, ok := poseFrom(e.doc().Object("pose"))
	return ok
}

// Interaction is a user input or command (voice, button, chat integration...).
type Interaction Document

func (i Interaction) doc() Document { return Document(i) }

// InteractionID returns "interaction_id", falling back to the storage id.
func (i Interaction) InteractionID() string { return i.doc().String("interaction_id", "_id") }

// Type returns the interaction type, e.g. "voice".
func (i Interaction) Type() string { return i.doc().String("type") }

// InputMode returns how the input was captured.
func (i Interaction) InputMode() string { return i.doc().String("input_mode") }

// Result returns the outcome recorded for the interaction.
func (i Interaction) Result() string { return i.doc().String("result") }

// Timestamp returns when the interaction happened.
func (i Interaction) Timestamp() (time.Time, bool) { return i.doc().Time("ts", "created_at") }

// Pose is a planar position with heading.
type Pose struct {
	X   float64
	Y   float64
	Yaw float64
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.1f°)", p.X, p.Y, p.Yaw)
}

func poseFrom(d Document) (Pose, bool) {
	if d == nil {
		return Pose{}, false
	}
	x, okX := d.Float("x")
	y, okY := d.Float("y")
	if !okX || !okY {
		return Pose{}, false
	}
	yaw, _ := d.Float("yaw", "theta")
	return Pose{X: x, Y: y, Yaw: yaw}, true
}
