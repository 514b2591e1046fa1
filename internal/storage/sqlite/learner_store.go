package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// LearnerStore implements learner persistence backed by SQLite.
type LearnerStore struct {
	db *DB
}

// NewLearnerStore creates a new SQLite-backed learner store.
func NewLearnerStore(db *DB) *LearnerStore {
	return &LearnerStore{db: db}
}

// Save persists a learner snapshot (insert or update).
func (s *LearnerStore) Save(ctx context.Context, l *domain.Learner) error {
	beliefs, err := json.Marshal(l.Beliefs)
	if err != nil {
		return fmt.Errorf("marshal beliefs: %w", err)
	}
	history, err := json.Marshal(l.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO learners (id, beliefs, history, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			beliefs=excluded.beliefs, history=excluded.history,
			updated_at=excluded.updated_at`,
		l.ID, string(beliefs), string(history), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert learner: %w", err)
	}
	return nil
}

// Get retrieves a learner snapshot by ID.
func (s *LearnerStore) Get(ctx context.Context, id string) (*domain.Learner, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, beliefs, history, created_at, updated_at
		FROM learners WHERE id = ?`, id)

	var l domain.Learner
	var beliefsJSON, historyJSON string
	err := row.Scan(&l.ID, &beliefsJSON, &historyJSON, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
		}
		return nil, fmt.Errorf("scan learner: %w", err)
	}

	if err := json.Unmarshal([]byte(beliefsJSON), &l.Beliefs); err != nil {
		return nil, fmt.Errorf("unmarshal beliefs: %w", err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &l.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return &l, nil
}

// Delete removes a learner snapshot.
func (s *LearnerStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM learners WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete learner: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
	}
	return nil
}

// List returns all learner IDs, most recently updated first.
func (s *LearnerStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM learners ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan learner id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks if a learner snapshot is stored.
func (s *LearnerStore) Exists(ctx context.Context, id string) bool {
	var count int
	s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM learners WHERE id = ?", id).Scan(&count)
	return count > 0
}
