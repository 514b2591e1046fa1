package learner

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/storage/local"
)

const collectionLearners = "learners"

// FileStore persists learner snapshots as JSON documents on disk.
// It is the default backend for single-user CLI use.
type FileStore struct {
	store *local.Store
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a learner store rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	store, err := local.NewStore(basePath)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}
	return &FileStore{store: store}, nil
}

// Get retrieves a learner snapshot by ID.
func (s *FileStore) Get(ctx context.Context, id string) (*domain.Learner, error) {
	var l domain.Learner
	if err := s.store.Load(collectionLearners, id, &l); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
		}
		return nil, err
	}
	return &l, nil
}

// Save persists a learner snapshot, replacing any previous one.
func (s *FileStore) Save(ctx context.Context, l *domain.Learner) error {
	return s.store.Save(collectionLearners, l.ID, l)
}

// Delete removes a learner snapshot.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(collectionLearners, id); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
		}
		return err
	}
	return nil
}

// List returns all stored learner IDs.
func (s *FileStore) List() ([]string, error) {
	return s.store.List(collectionLearners)
}

// Exists checks whether a learner snapshot is stored.
func (s *FileStore) Exists(id string) bool {
	return s.store.Exists(collectionLearners, id)
}
