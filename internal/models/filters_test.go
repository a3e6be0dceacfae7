package models

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterValuesTransmitOnlyTruthyOptions(t *testing.T) {
	tests := []struct {
		name string
		got  url.Values
		want url.Values
	}{
		{"robots empty", RobotFilter{}.Values(), url.Values{}},
		{"robots limit", RobotFilter{Limit: 20}.Values(), url.Values{"limit": {"20"}}},
		{"tasks zero limit", TaskFilter{Limit: 0, Status: "done"}.Values(), url.Values{"status": {"done"}}},
		{"tasks both", TaskFilter{Limit: 200, Status: "running"}.Values(), url.Values{"status": {"running"}, "limit": {"200"}}},
		{"events limit", EventFilter{Limit: 300}.Values(), url.Values{"limit": {"300"}}},
		{
			"interactions type and query",
			InteractionFilter{Type: "voice", Query: "dock"}.Values(),
			url.Values{"type": {"voice"}, "q": {"dock"}},
		},
		{
			"interactions all",
			InteractionFilter{Limit: 5, Type: "button", InputMode: "touch", Result: "ok", Query: "charge"}.Values(),
			url.Values{"limit": {"5"}, "type": {"button"}, "input_mode": {"touch"}, "result": {"ok"}, "q": {"charge"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.got); diff != "" {
				t.Fatalf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArtifactOptionsDefaultsAndRefresh(t *testing.T) {
	got, err := ArtifactOptions{}.Values(RangeDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(url.Values{"range": {"day"}}, got); diff != "" {
		t.Fatalf("default brief params (-want +got):\n%s", diff)
	}

	got, err = ArtifactOptions{Refresh: true}.Values(RangeWeek)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(url.Values{"range": {"week"}, "refresh": {"1"}}, got); diff != "" {
		t.Fatalf("refresh insight params (-want +got):\n%s", diff)
	}

	got, err = ArtifactOptions{Range: RangeDay}.Values(RangeWeek)
	if err != nil || got.Get("range") != "day" {
		t.Fatalf("explicit range must override default, got %v err=%v", got, err)
	}
}

func TestArtifactOptionsRejectsUnknownRange(t *testing.T) {
	_, err := ArtifactOptions{Range: "month"}.Values(RangeDay)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestParseRange(t *testing.T) {
	for _, s := range []string{"", "day", "week"} {
		if _, err := ParseRange(s); err != nil {
			t.Fatalf("ParseRange(%q): %v", s, err)
		}
	}
	if _, err := ParseRange("Day"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("ranges are case-sensitive on the wire, got %v", err)
	}
}
