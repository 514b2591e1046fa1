package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// MaxIdleAge is how long a session may sit idle before it is expired.
const MaxIdleAge = 86400 * time.Second

// Session is one drill conversation: the learner it belongs to, the
// exercise waiting for an answer, and per-session counters.
type Session struct {
	ID        string           `json:"id"`
	LearnerID string           `json:"learner_id"`
	Pending   *domain.Exercise `json:"pending,omitempty"`
	Answered  int              `json:"answered"`
	Correct   int              `json:"correct"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewSession creates a new session for a learner
func NewSession(learnerID string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		LearnerID: learnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetPending stores the bound exercise awaiting an answer. An earlier
// pending exercise that was never answered is replaced.
func (s *Session) SetPending(ex *domain.Exercise) {
	s.Pending = ex
	s.UpdatedAt = time.Now()
}

// ClearPending drops the pending exercise without grading it.
func (s *Session) ClearPending() {
	s.Pending = nil
	s.UpdatedAt = time.Now()
}

// RecordAnswer advances the session counters and clears the pending slot.
func (s *Session) RecordAnswer(correct bool) {
	s.Answered++
	if correct {
		s.Correct++
	}
	s.Pending = nil
	s.UpdatedAt = time.Now()
}

// ExpiredAt reports whether the session has been idle past MaxIdleAge.
func (s *Session) ExpiredAt(now time.Time) bool {
	return now.Sub(s.UpdatedAt) > MaxIdleAge
}

// Accuracy returns the session-local success percentage.
func (s *Session) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered) * 100
}
