package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/kaina/internal/adaptive"
	"github.com/felixgeelhaar/kaina/internal/content"
	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/learner"
	"github.com/felixgeelhaar/kaina/internal/queue"
)

// AnswerResult is the grading outcome returned for one submitted answer.
type AnswerResult struct {
	Correct  bool                 `json:"correct"`
	Expected string               `json:"expected"`
	Given    string               `json:"given"`
	Diff     []domain.DiffSegment `json:"diff,omitempty"`
	Streak   int                  `json:"streak"`
}

// SessionStats are the counters local to one drill session.
type SessionStats struct {
	Answered int     `json:"answered"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// StatsReport pairs lifetime learner stats with session counters.
type StatsReport struct {
	LearnerStats domain.Stats `json:"learner"`
	SessionStats SessionStats `json:"session"`
}

// Service runs drill sessions: it picks the next arm, binds content,
// grades answers and keeps the learner profile current. Access to a
// session is serialized through a per-session mutex, so the selection
// and recording core never runs concurrently for the same learner flow.
type Service struct {
	store    SessionStore
	learners *learner.Service
	registry *content.Registry
	policy   *adaptive.Policy
	binder   *content.Binder
	producer *queue.Producer // optional; answer events are best effort

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewService creates a new drill session service
func NewService(store SessionStore, learners *learner.Service, registry *content.Registry, policy *adaptive.Policy, binder *content.Binder) *Service {
	return &Service{
		store:    store,
		learners: learners,
		registry: registry,
		policy:   policy,
		binder:   binder,
		locks:    make(map[string]*sync.Mutex),
	}
}

// SetEventProducer wires the answer-event producer. Without one, no
// events are emitted.
func (s *Service) SetEventProducer(p *queue.Producer) {
	s.producer = p
}

// lock returns the mutex serializing access to one session.
func (s *Service) lock(id string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

// release drops the mutex entry for a session that no longer exists,
// so the lock map does not grow for the life of the daemon.
func (s *Service) release(id string) {
	s.lockMu.Lock()
	delete(s.locks, id)
	s.lockMu.Unlock()
}

// Create starts a new drill session for a learner. An empty learner ID
// falls back to the default single-user profile.
func (s *Service) Create(ctx context.Context, learnerID string) (*Session, error) {
	if learnerID == "" {
		learnerID = learner.DefaultLearnerID
	}

	sess := NewSession(learnerID)
	if err := s.store.Save(sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	slog.Info("session created", "session_id", sess.ID, "learner_id", learnerID)
	return sess, nil
}

// Get retrieves a session, expiring it when it has been idle too long.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	return s.get(id)
}

// get loads and expiry-checks a session. Callers hold the session lock.
func (s *Service) get(id string) (*Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.ExpiredAt(time.Now()) {
		if err := s.store.Delete(id); err != nil {
			slog.Warn("failed to delete expired session", "session_id", id, "error", err)
		} else {
			s.release(id)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionExpired, id)
	}
	return sess, nil
}

// Next selects the weakest arm for the learner and binds a concrete
// exercise, replacing any pending one.
func (s *Service) Next(ctx context.Context, id string) (*domain.Exercise, error) {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	l, err := s.learners.Get(ctx, sess.LearnerID)
	if err != nil {
		return nil, err
	}

	decision, err := s.policy.Select(&l.Beliefs, s.registry.Arms())
	if err != nil {
		return nil, err
	}

	ex, err := s.binder.Bind(decision.Arm)
	if err != nil {
		return nil, err
	}

	sess.SetPending(&ex)
	if err := s.store.Save(sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	slog.Debug("exercise bound",
		"session_id", sess.ID,
		"arm", decision.Arm.Key(),
		"explored", decision.Explored,
		"price", ex.Price,
	)

	return &ex, nil
}

// Answer grades the pending exercise, records the outcome on the
// learner profile and clears the pending slot. The profile write
// happens before the session write, so a failed answer leaves the
// exercise pending and retryable.
func (s *Service) Answer(ctx context.Context, id, given string) (*AnswerResult, error) {
	if strings.TrimSpace(given) == "" {
		return nil, fmt.Errorf("%w: empty answer", domain.ErrInvalidInput)
	}

	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if sess.Pending == nil {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNoPendingExercise, id)
	}

	ex := *sess.Pending
	correct := domain.Check(ex.Answer, given)

	rec := domain.AnswerRecord{
		Question:   ex.Prompt,
		Expected:   ex.Answer,
		Given:      given,
		Correct:    correct,
		AnsweredAt: time.Now(),
	}
	if !correct {
		rec.Diff = domain.Diff(ex.Answer, given)
	}

	l, err := s.learners.Get(ctx, sess.LearnerID)
	if err != nil {
		return nil, err
	}
	if err := s.learners.Record(ctx, l, ex.Arm, rec); err != nil {
		return nil, err
	}

	sess.RecordAnswer(correct)
	if err := s.store.Save(sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.publishAnswer(ctx, sess, ex, correct)

	return &AnswerResult{
		Correct:  correct,
		Expected: ex.Answer,
		Given:    given,
		Diff:     rec.Diff,
		Streak:   l.Stats().CurrentStreak,
	}, nil
}

// publishAnswer emits the answer event when a producer is wired.
func (s *Service) publishAnswer(ctx context.Context, sess *Session, ex domain.Exercise, correct bool) {
	if s.producer == nil {
		return
	}
	ev := queue.NewAnswerEvent(sess.LearnerID, sess.ID, ex.Arm.Key(), ex.Price, correct)
	if err := s.producer.PublishAnswer(ctx, ev); err != nil {
		slog.Warn("failed to publish answer event", "session_id", sess.ID, "error", err)
	}
}

// Stats returns lifetime learner stats alongside this session's counters.
func (s *Service) Stats(ctx context.Context, id string) (*StatsReport, error) {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	l, err := s.learners.Get(ctx, sess.LearnerID)
	if err != nil {
		return nil, err
	}

	return &StatsReport{
		LearnerStats: l.Stats(),
		SessionStats: SessionStats{
			Answered: sess.Answered,
			Correct:  sess.Correct,
			Accuracy: sess.Accuracy(),
		},
	}, nil
}

// WeakAreas derives the learner's weakest categories from the belief
// counters.
func (s *Service) WeakAreas(ctx context.Context, id string) (learner.WeakAreaReport, error) {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return learner.WeakAreaReport{}, err
	}

	l, err := s.learners.Get(ctx, sess.LearnerID)
	if err != nil {
		return learner.WeakAreaReport{}, err
	}

	return learner.WeakAreas(&l.Beliefs), nil
}

// Reset wipes the learner profile behind this session and zeroes the
// session counters.
func (s *Service) Reset(ctx context.Context, id string) error {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.get(id)
	if err != nil {
		return err
	}

	l, err := s.learners.Get(ctx, sess.LearnerID)
	if err != nil {
		return err
	}
	if err := s.learners.Reset(ctx, l); err != nil {
		return err
	}

	sess.Answered = 0
	sess.Correct = 0
	sess.ClearPending()
	if err := s.store.Save(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	slog.Info("progress reset", "session_id", id, "learner_id", sess.LearnerID)
	return nil
}

// Delete removes a session
func (s *Service) Delete(ctx context.Context, id string) error {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.release(id)
	return nil
}

// List returns all live sessions
func (s *Service) List(ctx context.Context) ([]*Session, error) {
	ids, err := s.store.List()
	if err != nil {
		return nil, err
	}

	sessions := make([]*Session, 0, len(ids))
	now := time.Now()
	for _, id := range ids {
		sess, err := s.store.Get(id)
		if err != nil {
			continue
		}
		if sess.ExpiredAt(now) {
			continue
		}
		sessions = append(sessions, sess)
	}

	return sessions, nil
}

// PruneExpired deletes sessions idle past MaxIdleAge and returns how
// many were removed.
func (s *Service) PruneExpired(ctx context.Context) (int, error) {
	ids, err := s.store.List()
	if err != nil {
		return 0, err
	}

	pruned := 0
	now := time.Now()
	for _, id := range ids {
		mu := s.lock(id)
		mu.Lock()
		sess, err := s.store.Get(id)
		if err == nil && sess.ExpiredAt(now) {
			if err := s.store.Delete(id); err != nil {
				slog.Warn("failed to prune session", "session_id", id, "error", err)
			} else {
				pruned++
				s.release(id)
			}
		}
		mu.Unlock()
	}

	if pruned > 0 {
		slog.Info("pruned expired sessions", "count", pruned)
	}
	return pruned, nil
}
