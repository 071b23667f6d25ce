package log

import (
	"testing"
	"time"
)

func TestAppendAndReadAll(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events := []LogEvent{
		{Event: EventLoginSucceeded, User: "ada@example.com", Role: "client"},
		{Event: EventRequestFailed, Method: "GET", Path: "/tasks", Status: 500, Error: "internal server error"},
		{Event: EventCallStarted, RoomID: "call_1_2_99"},
	}
	for _, ev := range events {
		if err := logger.Append(ev); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("ReadAll: got %d events, want %d", len(got), len(events))
	}
	if got[0].Event != EventLoginSucceeded || got[0].User != "ada@example.com" {
		t.Errorf("event 0 mismatch: %+v", got[0])
	}
	if got[1].Status != 500 {
		t.Errorf("event 1 status: got %d, want 500", got[1].Status)
	}
	if got[0].Time.IsZero() {
		t.Error("Append should stamp zero times")
	}
}

func TestReadAllMissingFile(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestAppendKeepsExplicitTime(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	stamp := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	if err := logger.Append(LogEvent{Time: stamp, Event: EventLoggedOut}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !events[0].Time.Equal(stamp) {
		t.Errorf("time: got %v, want %v", events[0].Time, stamp)
	}
}
