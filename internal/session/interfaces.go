package session

import (
	"context"

	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/learner"
)

// DrillService defines the session operations consumed by the daemon
// handlers and the MCP tools
type DrillService interface {
	// Create starts a new drill session
	Create(ctx context.Context, learnerID string) (*Session, error)

	// Get retrieves a session by ID
	Get(ctx context.Context, id string) (*Session, error)

	// Next binds the next exercise for the session
	Next(ctx context.Context, id string) (*domain.Exercise, error)

	// Answer grades the pending exercise
	Answer(ctx context.Context, id, given string) (*AnswerResult, error)

	// Stats reports learner and session counters
	Stats(ctx context.Context, id string) (*StatsReport, error)

	// WeakAreas reports the learner's weakest categories
	WeakAreas(ctx context.Context, id string) (learner.WeakAreaReport, error)

	// Reset wipes the learner profile behind the session
	Reset(ctx context.Context, id string) error

	// Delete removes a session
	Delete(ctx context.Context, id string) error

	// List returns all live sessions
	List(ctx context.Context) ([]*Session, error)

	// PruneExpired sweeps idle sessions
	PruneExpired(ctx context.Context) (int, error)
}

// Ensure Service implements DrillService
var _ DrillService = (*Service)(nil)

// SessionStore defines the persistence interface for sessions.
// Both the JSON file store and the SQLite store implement this.
type SessionStore interface {
	Save(sess *Session) error
	Get(id string) (*Session, error)
	Delete(id string) error
	List() ([]string, error)
	Exists(id string) bool
}

// Ensure Store (JSON) implements SessionStore
var _ SessionStore = (*Store)(nil)
