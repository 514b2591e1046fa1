package sqlite

import (
	"github.com/felixgeelhaar/kaina/internal/learner"
	"github.com/felixgeelhaar/kaina/internal/session"
)

// Ensure SQLite stores implement the storage interfaces.
var (
	_ learner.Store        = (*LearnerStore)(nil)
	_ session.SessionStore = (*SessionStore)(nil)
)
