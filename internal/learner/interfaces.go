package learner

import (
	"context"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// Store defines the persistence interface for learner snapshots.
// The JSON file store, the SQLite store and the Postgres store all
// implement this.
type Store interface {
	// Get loads a learner snapshot. Unknown IDs return ErrLearnerNotFound.
	Get(ctx context.Context, id string) (*domain.Learner, error)

	// Save persists the full snapshot, replacing any previous one.
	Save(ctx context.Context, learner *domain.Learner) error

	// Delete removes a learner snapshot.
	Delete(ctx context.Context, id string) error
}

// Ensure the resilient wrapper satisfies the store contract
var _ Store = (*ResilientStore)(nil)
