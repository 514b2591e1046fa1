package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/session"
)

// SessionStore implements session persistence backed by SQLite.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SQLite-backed session store.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save persists a session (insert or update).
func (s *SessionStore) Save(sess *session.Session) error {
	var pending *string
	if sess.Pending != nil {
		data, err := json.Marshal(sess.Pending)
		if err != nil {
			return fmt.Errorf("marshal pending exercise: %w", err)
		}
		str := string(data)
		pending = &str
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, learner_id, pending, answered, correct, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			learner_id=excluded.learner_id, pending=excluded.pending,
			answered=excluded.answered, correct=excluded.correct,
			updated_at=excluded.updated_at`,
		sess.ID, sess.LearnerID, pending, sess.Answered, sess.Correct,
		sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(id string) (*session.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, learner_id, pending, answered, correct, created_at, updated_at
		FROM sessions WHERE id = ?`, id)

	var sess session.Session
	var pending sql.NullString
	err := row.Scan(
		&sess.ID, &sess.LearnerID, &pending, &sess.Answered, &sess.Correct,
		&sess.CreatedAt, &sess.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if pending.Valid {
		sess.Pending = &domain.Exercise{}
		if err := json.Unmarshal([]byte(pending.String), sess.Pending); err != nil {
			return nil, fmt.Errorf("unmarshal pending exercise: %w", err)
		}
	}
	return &sess, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) error {
	result, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return nil
}

// List returns all session IDs, newest first.
func (s *SessionStore) List() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM sessions ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks if a session exists.
func (s *SessionStore) Exists(id string) bool {
	var count int
	s.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = ?", id).Scan(&count)
	return count > 0
}
