package session

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/storage/local"
)

const collectionSessions = "sessions"

// Store handles session persistence on the local JSON store
type Store struct {
	store *local.Store
}

// NewStore creates a new session store
func NewStore(basePath string) (*Store, error) {
	store, err := local.NewStore(basePath)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}
	return &Store{store: store}, nil
}

// Save persists a session
func (s *Store) Save(sess *Session) error {
	return s.store.Save(collectionSessions, sess.ID, sess)
}

// Get retrieves a session by ID
func (s *Store) Get(id string) (*Session, error) {
	var sess Session
	if err := s.store.Load(collectionSessions, id, &sess); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, err
	}
	return &sess, nil
}

// Delete removes a session
func (s *Store) Delete(id string) error {
	if err := s.store.Delete(collectionSessions, id); err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return err
	}
	return nil
}

// List returns all session IDs
func (s *Store) List() ([]string, error) {
	return s.store.List(collectionSessions)
}

// Exists checks if a session exists
func (s *Store) Exists(id string) bool {
	return s.store.Exists(collectionSessions, id)
}
