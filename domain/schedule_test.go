package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestKeyframeString(t *testing.T) {
	got := KeyframeString([]float64{0.5, 1.0, 0.0}, 2.0, 0.5)
	want := "0:(2.0000), 1:(2.5000), 2:(1.5000)"
	if got != want {
		t.Errorf("KeyframeString = %q, want %q", got, want)
	}
}

func TestKeyframeStringEmpty(t *testing.T) {
	got := KeyframeString(nil, 0.65, 0.2)
	if got != "0:(0.65)" {
		t.Errorf("empty series = %q, want base-only keyframe", got)
	}
}

func TestScheduleFrameCount(t *testing.T) {
	s := Schedule{"a": {1, 2, 3}, "b": {1}}
	if s.FrameCount() != 3 {
		t.Errorf("FrameCount = %d, want 3", s.FrameCount())
	}
	if (Schedule{}).FrameCount() != 0 {
		t.Error("empty schedule should have zero frames")
	}
}

func TestScheduleSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	s := Schedule{"strength": {0.1, 0.9}}
	if err := s.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var loaded Schedule
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved schedule is not valid JSON: %v", err)
	}
	if len(loaded["strength"]) != 2 || loaded["strength"][1] != 0.9 {
		t.Errorf("round trip mismatch: %v", loaded)
	}
}
