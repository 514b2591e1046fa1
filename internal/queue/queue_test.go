package queue_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/kaina/internal/queue"
)

func TestNewAnswerEvent(t *testing.T) {
	ev := queue.NewAnswerEvent("default", "sess-1", "kokia:nominative:teens", 15, true)

	if ev.ID == uuid.Nil {
		t.Error("event ID should be generated")
	}
	if ev.LearnerID != "default" {
		t.Errorf("LearnerID = %q; want %q", ev.LearnerID, "default")
	}
	if ev.SessionID != "sess-1" {
		t.Errorf("SessionID = %q; want %q", ev.SessionID, "sess-1")
	}
	if ev.ArmKey != "kokia:nominative:teens" {
		t.Errorf("ArmKey = %q; want %q", ev.ArmKey, "kokia:nominative:teens")
	}
	if ev.Number != 15 {
		t.Errorf("Number = %d; want 15", ev.Number)
	}
	if !ev.Correct {
		t.Error("Correct should be true")
	}
	if ev.AnsweredAt.IsZero() {
		t.Error("AnsweredAt should be set")
	}
}

func TestNewAnswerEvent_GeneratesUniqueIDs(t *testing.T) {
	ids := make(map[uuid.UUID]bool)
	for i := 0; i < 10; i++ {
		ev := queue.NewAnswerEvent("default", "sess", "kiek:accusative:decade", 30, false)
		if ids[ev.ID] {
			t.Errorf("Duplicate event ID generated: %v", ev.ID)
		}
		ids[ev.ID] = true
	}
}

func TestNewAnswerEvent_SetsTimestamp(t *testing.T) {
	before := time.Now()
	ev := queue.NewAnswerEvent("default", "sess", "kokia:nominative:compound", 42, true)
	after := time.Now()

	if ev.AnsweredAt.Before(before) || ev.AnsweredAt.After(after) {
		t.Errorf("AnsweredAt = %v; should be between %v and %v", ev.AnsweredAt, before, after)
	}
}

func TestAnswerEvent_JSONRoundTrip(t *testing.T) {
	original := queue.NewAnswerEvent("default", "sess-7", "kiek:accusative:single_digit", 5, false)

	body, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded queue.AnswerEvent
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.ID != original.ID {
		t.Errorf("ID = %v; want %v", decoded.ID, original.ID)
	}
	if decoded.ArmKey != original.ArmKey {
		t.Errorf("ArmKey = %q; want %q", decoded.ArmKey, original.ArmKey)
	}
	if decoded.Number != original.Number {
		t.Errorf("Number = %d; want %d", decoded.Number, original.Number)
	}
	if decoded.Correct != original.Correct {
		t.Errorf("Correct = %v; want %v", decoded.Correct, original.Correct)
	}
}

func TestDefaultConsumerConfig(t *testing.T) {
	cfg := queue.DefaultConsumerConfig()

	if cfg.Workers != 3 {
		t.Errorf("Default Workers = %d; want 3", cfg.Workers)
	}
	if cfg.Prefetch != 1 {
		t.Errorf("Default Prefetch = %d; want 1", cfg.Prefetch)
	}
}

func TestConsumerConfig_ZeroValues(t *testing.T) {
	cfg := queue.ConsumerConfig{}

	if cfg.Workers != 0 {
		t.Errorf("Zero value Workers = %d; want 0", cfg.Workers)
	}
	if cfg.Prefetch != 0 {
		t.Errorf("Zero value Prefetch = %d; want 0", cfg.Prefetch)
	}
}

func TestConsumerConfig_CustomValues(t *testing.T) {
	cfg := queue.ConsumerConfig{
		Workers:  10,
		Prefetch: 5,
	}

	if cfg.Workers != 10 {
		t.Errorf("Workers = %d; want 10", cfg.Workers)
	}
	if cfg.Prefetch != 5 {
		t.Errorf("Prefetch = %d; want 5", cfg.Prefetch)
	}
}
