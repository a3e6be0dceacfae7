package mockapi

import (
	"fmt"
	"time"

	"github.com/miradorstack/fleetview/internal/models"
)

// Fixtures is the in-memory dataset served by the mock.
type Fixtures struct {
	Robots       []models.Robot
	Tasks        []models.Task
	Events       []models.Event
	Interactions []models.Interaction
	Settings     models.Settings
}

// DefaultFixtures returns a small warehouse fleet anchored at base: three robots, a handful of
// tasks in different states, recent events and interactions.
func DefaultFixtures(base time.Time) Fixtures {
	ts := func(ago time.Duration) string { return base.Add(-ago).UTC().Format(time.RFC3339) }

	robots := []models.Robot{
		{"_id": "agv-01", "robot_id": "agv-01", "status": "idle", "battery": 87.0, "cpu_temp": 48.2,
			"pose": map[string]any{"x": 1.2, "y": 3.4, "yaw": 90.0}, "updated_at": ts(5 * time.Second)},
		{"_id": "agv-02", "robot_id": "agv-02", "status": "moving", "battery": 54.0, "cpu_temp": 57.9,
			"pose": map[string]any{"x": 6.0, "y": 1.5, "yaw": 180.0}, "updated_at": ts(2 * time.Second)},
		{"_id": "agv-03", "robot_id": "agv-03", "status": "charging", "battery": 12.0, "cpu_temp": 41.0,
			"pose": map[string]any{"x": 0.0, "y": 0.0, "yaw": 0.0}, "updated_at": ts(40 * time.Second)},
	}

	tasks := []models.Task{
		{"_id": "t-100", "task_id": "t-100", "status": "done", "assigned_robot": "agv-01", "target": "A3",
			"expected_duration_ms": 90000.0, "actual_duration_ms": 84000.0, "created_at": ts(2 * time.Hour)},
		{"_id": "t-101", "task_id": "t-101", "status": "done", "assigned_robot": "agv-02", "target": "B1",
			"expected_duration_ms": 60000.0, "actual_duration_ms": 72000.0, "created_at": ts(90 * time.Minute)},
		{"_id": "t-102", "task_id": "t-102", "status": "running", "assigned_robot": "agv-02", "target": "C2",
			"expected_duration_ms": 120000.0, "created_at": ts(3 * time.Minute)},
		{"_id": "t-103", "task_id": "t-103", "status": "queued", "target": "DOCK", "created_at": ts(time.Minute)},
		{"_id": "t-104", "task_id": "t-104", "status": "failed", "assigned_robot": "agv-03", "target": "A1",
			"detail": "battery low", "created_at": ts(30 * time.Minute)},
	}

	events := make([]models.Event, 0, 8)
	for i := 0; i < 6; i++ {
		events = append(events, models.Event{
			"_id": fmt.Sprintf("ev-%03d", i), "type": "pose", "robot_id": "agv-02",
			"pose": map[string]any{"x": 6.0 - float64(i)*0.5, "y": 1.5}, "ts": ts(time.Duration(i) * 10 * time.Second),
		})
	}
	events = append(events,
		models.Event{"_id": "ev-100", "type": "task_status_update", "robot_id": "agv-02", "task_id": "t-102",
			"msg": "running", "ts": ts(3 * time.Minute)},
		models.Event{"_id": "ev-101", "type": "error", "robot_id": "agv-03", "msg": "battery low, aborting t-104",
			"ts": ts(30 * time.Minute)},
	)

	interactions := []models.Interaction{
		{"_id": "i-1", "interaction_id": "i-1", "type": "voice", "input_mode": "mic", "result": "accepted",
			"text": "send agv-01 to the dock", "ts": ts(10 * time.Minute)},
		{"_id": "i-2", "interaction_id": "i-2", "type": "voice", "input_mode": "mic", "result": "rejected",
			"text": "go to zone Z", "ts": ts(20 * time.Minute)},
		{"_id": "i-3", "interaction_id": "i-3", "type": "button", "input_mode": "touch", "result": "accepted",
			"text": "emergency stop", "ts": ts(time.Hour)},
		{"_id": "i-4", "interaction_id": "i-4", "type": "telegram", "input_mode": "chat", "result": "accepted",
			"text": "status of dock queue", "ts": ts(26 * time.Hour)},
	}

	return Fixtures{
		Robots:       robots,
		Tasks:        tasks,
		Events:       events,
		Interactions: interactions,
		Settings:     models.Settings{"refresh_interval_s": 10.0, "theme": "dark", "brief_enabled": true},
	}
}
