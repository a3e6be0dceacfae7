package utils

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerHonoursLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", true)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("op", "list_robots"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"op":"list_robots"`) {
		t.Fatalf("expected JSON attribute in output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("WARNING") != slog.LevelWarn {
		t.Fatalf("expected warning alias")
	}
	if ParseLevel("bogus") != slog.LevelInfo {
		t.Fatalf("expected info default")
	}
}
