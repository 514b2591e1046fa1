package learner

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// DefaultLearnerID names the single local learner of a default install.
const DefaultLearnerID = "default"

// Service owns learner state transitions. Every mutation is applied to a
// clone and persisted as a full snapshot before the in-memory aggregate
// advances, so a failed save leaves the caller's state untouched.
type Service struct {
	store Store
}

// NewService creates a learner service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get loads a learner, returning a fresh aggregate for IDs that were
// never saved.
func (s *Service) Get(ctx context.Context, id string) (*domain.Learner, error) {
	l, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrLearnerNotFound) {
			return domain.NewLearner(id), nil
		}
		return nil, persistErr("load learner", err)
	}
	return l, nil
}

// Record applies exactly one graded answer: the arm is validated, a clone
// takes the observation and the history entry, the clone is persisted,
// and only then does it replace the caller's aggregate.
func (s *Service) Record(ctx context.Context, l *domain.Learner, arm domain.Arm, rec domain.AnswerRecord) error {
	if err := arm.Validate(); err != nil {
		return err
	}

	next := l.Clone()
	next.Apply(arm, rec)
	if err := s.store.Save(ctx, next); err != nil {
		return persistErr("save learner", err)
	}
	*l = *next
	return nil
}

// Reset wipes the learner's evidence and history and persists the empty
// snapshot before swapping it in.
func (s *Service) Reset(ctx context.Context, l *domain.Learner) error {
	next := l.Clone()
	next.Reset()
	if err := s.store.Save(ctx, next); err != nil {
		return persistErr("reset learner", err)
	}
	*l = *next
	return nil
}

// persistErr tags store failures as unavailable persistence unless the
// store already classified them.
func persistErr(op string, err error) error {
	if errors.Is(err, domain.ErrPersistenceUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistenceUnavailable, err)
}
