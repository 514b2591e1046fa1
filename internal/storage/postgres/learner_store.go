package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/learner"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// LearnerStore implements learner persistence using PostgreSQL. It is the
// backend for shared deployments where several clients drill against one
// database.
type LearnerStore struct {
	pool *pgxpool.Pool
}

var _ learner.Store = (*LearnerStore)(nil)

// NewLearnerStore creates a new PostgreSQL learner store.
func NewLearnerStore(pool *pgxpool.Pool) *LearnerStore {
	return &LearnerStore{pool: pool}
}

// EnsureSchema creates the learners table if it does not exist.
func (s *LearnerStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS learners (
			id         TEXT PRIMARY KEY,
			beliefs    JSONB NOT NULL,
			history    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure learners table: %w", err)
	}
	return nil
}

// Save persists a learner snapshot (insert or update).
func (s *LearnerStore) Save(ctx context.Context, l *domain.Learner) error {
	beliefsJSON, err := json.Marshal(l.Beliefs)
	if err != nil {
		return fmt.Errorf("marshal beliefs: %w", err)
	}
	historyJSON, err := json.Marshal(l.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	query := `
		INSERT INTO learners (id, beliefs, history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			beliefs = EXCLUDED.beliefs,
			history = EXCLUDED.history,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.pool.Exec(ctx, query,
		l.ID, beliefsJSON, historyJSON, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

// Get retrieves a learner snapshot by ID.
func (s *LearnerStore) Get(ctx context.Context, id string) (*domain.Learner, error) {
	query := `
		SELECT id, beliefs, history, created_at, updated_at
		FROM learners WHERE id = $1
	`
	var l domain.Learner
	var beliefsJSON, historyJSON []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &beliefsJSON, &historyJSON, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(beliefsJSON, &l.Beliefs); err != nil {
		return nil, fmt.Errorf("unmarshal beliefs: %w", err)
	}
	if err := json.Unmarshal(historyJSON, &l.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return &l, nil
}

// Delete removes a learner snapshot.
func (s *LearnerStore) Delete(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM learners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
	}
	return nil
}

// List returns all learner IDs, most recently updated first.
func (s *LearnerStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM learners ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
