package sqlite

import (
	"context"
	"fmt"
	"time"
)

// Attempt is one graded answer in the persistent attempt log.
type Attempt struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	LearnerID string    `json:"learner_id"`
	SessionID string    `json:"session_id,omitempty"`
	Arm       string    `json:"arm"`
	Price     int       `json:"price"`
	Correct   bool      `json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}

// AttemptStore provides attempt logging backed by SQLite. The answer-event
// consumer writes one row per event.
type AttemptStore struct {
	db *DB
}

// NewAttemptStore creates a new SQLite-backed attempt store.
func NewAttemptStore(db *DB) *AttemptStore {
	return &AttemptStore{db: db}
}

// Record stores an attempt. A redelivered event with a known event_id is a no-op.
func (s *AttemptStore) Record(ctx context.Context, a *Attempt) error {
	var sessID *string
	if a.SessionID != "" {
		sessID = &a.SessionID
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (event_id, learner_id, session_id, arm, price, correct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO NOTHING`,
		a.EventID, a.LearnerID, sessID, a.Arm, a.Price, boolToInt(a.Correct), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// Query returns attempts for a learner, optionally filtered by arm and time range.
func (s *AttemptStore) Query(ctx context.Context, learnerID, arm string, since, until time.Time) ([]Attempt, error) {
	query := "SELECT id, event_id, learner_id, session_id, arm, price, correct, created_at FROM attempts WHERE learner_id = ?"
	args := []interface{}{learnerID}

	if arm != "" {
		query += " AND arm = ?"
		args = append(args, arm)
	}
	if !since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, since)
	}
	if !until.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, until)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var sessID *string
		var correct int
		if err := rows.Scan(&a.ID, &a.EventID, &a.LearnerID, &sessID, &a.Arm, &a.Price, &correct, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if sessID != nil {
			a.SessionID = *sessID
		}
		a.Correct = correct != 0
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Count returns the number of logged attempts for a learner.
func (s *AttemptStore) Count(ctx context.Context, learnerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attempts WHERE learner_id = ?", learnerID,
	).Scan(&count)
	return count, err
}

// Prune deletes attempts older than the given duration.
func (s *AttemptStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, "DELETE FROM attempts WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune attempts: %w", err)
	}
	return result.RowsAffected()
}

// boolToInt converts a bool to the 0/1 form stored in INTEGER columns.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
