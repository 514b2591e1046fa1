package queue

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewConsumer_DefaultsZeroConfig(t *testing.T) {
	c := NewConsumer(nil, nil, ConsumerConfig{})

	if c.workers != 3 {
		t.Errorf("workers = %d; want 3", c.workers)
	}
	if c.prefetch != 1 {
		t.Errorf("prefetch = %d; want 1", c.prefetch)
	}
}

func TestNewConsumer_PreservesCustomConfig(t *testing.T) {
	c := NewConsumer(nil, nil, ConsumerConfig{Workers: 10, Prefetch: 5})

	if c.workers != 10 {
		t.Errorf("workers = %d; want 10", c.workers)
	}
	if c.prefetch != 5 {
		t.Errorf("prefetch = %d; want 5", c.prefetch)
	}
}

func TestConsumer_Stop_NilCancelFunc(t *testing.T) {
	c := &Consumer{}

	// Stop with nil cancelFunc should not panic
	c.Stop()
	// If we reach here without panic, test passes
}

func TestAnswerHandler_Type(t *testing.T) {
	var seen *AnswerEvent
	var handler AnswerHandler = func(ctx context.Context, ev *AnswerEvent) error {
		seen = ev
		return nil
	}

	ev := &AnswerEvent{ID: uuid.New(), ArmKey: "kokia:nominative:decade"}
	if err := handler(context.Background(), ev); err != nil {
		t.Errorf("Handler returned unexpected error: %v", err)
	}
	if seen == nil || seen.ID != ev.ID {
		t.Error("Handler should have received the event")
	}
}
