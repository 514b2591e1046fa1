package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Producer publishes answer events to the queue
type Producer struct {
	conn *Connection
}

// NewProducer creates a new queue producer
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// PublishAnswer publishes a graded-answer event to the queue
func (p *Producer) PublishAnswer(ctx context.Context, ev *AnswerEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.AnsweredAt.IsZero() {
		ev.AnsweredAt = time.Now()
	}

	if err := p.conn.PublishJSON(ctx, AnswerQueueName, ev); err != nil {
		return fmt.Errorf("failed to publish answer event: %w", err)
	}

	slog.Info("published answer event",
		"event_id", ev.ID,
		"learner_id", ev.LearnerID,
		"session_id", ev.SessionID,
		"arm", ev.ArmKey,
		"correct", ev.Correct,
	)

	return nil
}
