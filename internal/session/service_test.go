package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/kaina/internal/adaptive"
	"github.com/felixgeelhaar/kaina/internal/content"
	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/learner"
)

const drillPackYAML = `id: drill-pack
name: Drill fixtures
version: "1.0"
language: lt
rows:
  - number: 5
    kokia_kaina: penki
    euro_nom: eurai
    kiek_kainuoja: penkis
    euro_acc: eurus
  - number: 15
    kokia_kaina: penkiolika
    euro_nom: eurų
    kiek_kainuoja: penkiolika
    euro_acc: eurų
  - number: 21
    kokia_kaina: dvidešimt
    kokia_kaina_compound: vienas
    euro_nom: euras
    kiek_kainuoja: dvidešimt
    kiek_kainuoja_compound: vieną
    euro_acc: eurą
`

// memLearnerStore is an in-memory learner.Store for drill flow tests.
type memLearnerStore struct {
	mu    sync.Mutex
	saved map[string]*domain.Learner
}

var _ learner.Store = (*memLearnerStore)(nil)

func newMemLearnerStore() *memLearnerStore {
	return &memLearnerStore{saved: make(map[string]*domain.Learner)}
}

func (m *memLearnerStore) Get(ctx context.Context, id string) (*domain.Learner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.saved[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
	}
	return l.Clone(), nil
}

func (m *memLearnerStore) Save(ctx context.Context, l *domain.Learner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[l.ID] = l.Clone()
	return nil
}

func (m *memLearnerStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, id)
	return nil
}

func (m *memLearnerStore) belief(id string, arm domain.Arm) domain.Belief {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.saved[id]
	if !ok {
		return domain.ColdBelief()
	}
	return l.Beliefs.Get(arm)
}

func setupDrill(t *testing.T) (*Service, *Store, *memLearnerStore) {
	t.Helper()

	contentDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(contentDir, "prices.yaml"), []byte(drillPackYAML), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	registry := content.NewRegistry(content.NewLoader(contentDir))
	if err := registry.Load(); err != nil {
		t.Fatalf("registry.Load() error = %v", err)
	}

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	ls := newMemLearnerStore()
	policy := adaptive.NewPolicy(adaptive.NewBetaSampler(rand.New(rand.NewSource(11))), rand.New(rand.NewSource(12)))
	binder := content.NewBinder(registry, rand.New(rand.NewSource(13)))

	svc := NewService(store, learner.NewService(ls), registry, policy, binder)
	return svc, store, ls
}

func expireSession(t *testing.T, store *Store, id string) {
	t.Helper()
	sess, err := store.Get(id)
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	sess.UpdatedAt = time.Now().Add(-MaxIdleAge - time.Hour)
	if err := store.Save(sess); err != nil {
		t.Fatalf("store.Save() error = %v", err)
	}
}

func TestService_Create(t *testing.T) {
	svc, store, _ := setupDrill(t)

	sess, err := svc.Create(context.Background(), "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if sess.LearnerID != learner.DefaultLearnerID {
		t.Errorf("LearnerID = %q; want %q", sess.LearnerID, learner.DefaultLearnerID)
	}
	if !store.Exists(sess.ID) {
		t.Error("session should be persisted after Create")
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc, _, _ := setupDrill(t)

	_, err := svc.Get(context.Background(), "no-such-session")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get() error = %v; want ErrSessionNotFound", err)
	}
}

func TestService_Get_Expired(t *testing.T) {
	svc, store, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expireSession(t, store, sess.ID)

	_, err = svc.Get(ctx, sess.ID)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("Get() error = %v; want ErrSessionExpired", err)
	}

	// The expired session is swept on access
	if _, err := store.Get(sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("store.Get() after expiry = %v; want ErrSessionNotFound", err)
	}
}

func TestService_Next_BindsPending(t *testing.T) {
	svc, store, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ex, err := svc.Next(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	if err := ex.Arm.Validate(); err != nil {
		t.Errorf("bound arm invalid: %v", err)
	}
	if ex.Prompt == "" || ex.Answer == "" {
		t.Errorf("exercise incomplete: prompt %q, answer %q", ex.Prompt, ex.Answer)
	}

	reloaded, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if reloaded.Pending == nil {
		t.Fatal("Pending should be persisted after Next")
	}
	if reloaded.Pending.Answer != ex.Answer {
		t.Errorf("persisted answer = %q; want %q", reloaded.Pending.Answer, ex.Answer)
	}
}

func TestService_Next_ReplacesPending(t *testing.T) {
	svc, store, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Next(ctx, sess.ID); err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	second, err := svc.Next(ctx, sess.ID)
	if err != nil {
		t.Fatalf("second Next() error = %v", err)
	}

	reloaded, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if reloaded.Pending == nil {
		t.Fatal("Pending should be set")
	}
	if *reloaded.Pending != *second {
		t.Errorf("Pending = %+v; want the latest bound exercise %+v", *reloaded.Pending, *second)
	}
}

func TestService_Answer_NoPending(t *testing.T) {
	svc, _, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Answer(ctx, sess.ID, "penki eurai.")
	if !errors.Is(err, domain.ErrNoPendingExercise) {
		t.Errorf("Answer() error = %v; want ErrNoPendingExercise", err)
	}
}

func TestService_Answer_BlankInput(t *testing.T) {
	svc, _, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Next(ctx, sess.ID); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	for _, given := range []string{"", "   ", "\t\n"} {
		_, err := svc.Answer(ctx, sess.ID, given)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Answer(%q) error = %v; want ErrInvalidInput", given, err)
		}
	}

	// A blank submission must not consume the pending exercise.
	got, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Pending == nil {
		t.Error("pending exercise was cleared by a blank answer")
	}
}

func TestService_Answer_Correct(t *testing.T) {
	svc, store, ls := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ex, err := svc.Next(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	res, err := svc.Answer(ctx, sess.ID, ex.Answer)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if !res.Correct {
		t.Error("Correct = false; want true for the expected answer")
	}
	if len(res.Diff) != 0 {
		t.Errorf("Diff = %v; want empty for a correct answer", res.Diff)
	}
	if res.Streak != 1 {
		t.Errorf("Streak = %d; want 1", res.Streak)
	}
	if res.Expected != ex.Answer {
		t.Errorf("Expected = %q; want %q", res.Expected, ex.Answer)
	}

	// Exactly one success recorded on the answered arm
	b := ls.belief(learner.DefaultLearnerID, ex.Arm)
	if b.Successes != 1 || b.Failures != 1 {
		t.Errorf("belief = %+v; want {Successes: 1, Failures: 1}", b)
	}

	reloaded, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if reloaded.Pending != nil {
		t.Error("Pending should be cleared after Answer")
	}
	if reloaded.Answered != 1 || reloaded.Correct != 1 {
		t.Errorf("session counters = %d/%d; want 1/1", reloaded.Correct, reloaded.Answered)
	}
}

func TestService_Answer_Incorrect(t *testing.T) {
	svc, _, ls := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ex, err := svc.Next(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	res, err := svc.Answer(ctx, sess.ID, "visiškai ne tas atsakymas")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if res.Correct {
		t.Error("Correct = true; want false")
	}
	if len(res.Diff) == 0 {
		t.Error("Diff should not be empty for an incorrect answer")
	}
	if res.Streak != 0 {
		t.Errorf("Streak = %d; want 0", res.Streak)
	}

	b := ls.belief(learner.DefaultLearnerID, ex.Arm)
	if b.Successes != 0 || b.Failures != 2 {
		t.Errorf("belief = %+v; want {Successes: 0, Failures: 2}", b)
	}
}

func TestService_Answer_NormalizesInput(t *testing.T) {
	svc, _, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ex, err := svc.Next(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	sloppy := "  " + ex.Answer + "  "
	res, err := svc.Answer(ctx, sess.ID, sloppy)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !res.Correct {
		t.Errorf("Answer(%q) graded incorrect; want correct", sloppy)
	}
}

func TestService_Stats(t *testing.T) {
	svc, _, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Two correct answers, then one incorrect
	for i := 0; i < 2; i++ {
		ex, err := svc.Next(ctx, sess.ID)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if _, err := svc.Answer(ctx, sess.ID, ex.Answer); err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
	}
	if _, err := svc.Next(ctx, sess.ID); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, err := svc.Answer(ctx, sess.ID, "ne"); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	report, err := svc.Stats(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if report.LearnerStats.Total != 3 {
		t.Errorf("LearnerStats.Total = %d; want 3", report.LearnerStats.Total)
	}
	if report.LearnerStats.Correct != 2 {
		t.Errorf("LearnerStats.Correct = %d; want 2", report.LearnerStats.Correct)
	}
	if report.LearnerStats.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d; want 0 after an incorrect answer", report.LearnerStats.CurrentStreak)
	}
	if report.SessionStats.Answered != 3 || report.SessionStats.Correct != 2 {
		t.Errorf("session counters = %d/%d; want 2/3",
			report.SessionStats.Correct, report.SessionStats.Answered)
	}
	wantAccuracy := float64(2) / float64(3) * 100
	if report.SessionStats.Accuracy != wantAccuracy {
		t.Errorf("SessionStats.Accuracy = %v; want %v", report.SessionStats.Accuracy, wantAccuracy)
	}
}

func TestService_WeakAreas(t *testing.T) {
	svc, _, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Next(ctx, sess.ID); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if _, err := svc.Answer(ctx, sess.ID, "ne"); err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
	}

	report, err := svc.WeakAreas(ctx, sess.ID)
	if err != nil {
		t.Fatalf("WeakAreas() error = %v", err)
	}

	if len(report.ExerciseTypes) == 0 {
		t.Error("ExerciseTypes should not be empty after answered drills")
	}
	if len(report.GrammaticalCases) == 0 {
		t.Error("GrammaticalCases should not be empty after answered drills")
	}
	if len(report.NumberPatterns) == 0 {
		t.Error("NumberPatterns should not be empty after answered drills")
	}
	for _, area := range report.ExerciseTypes {
		if area.SuccessRate != 0 {
			t.Errorf("SuccessRate = %v; want 0 after only incorrect answers", area.SuccessRate)
		}
	}
}

func TestService_Reset(t *testing.T) {
	svc, store, ls := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ex, err := svc.Next(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, err := svc.Answer(ctx, sess.ID, ex.Answer); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if err := svc.Reset(ctx, sess.ID); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	ls.mu.Lock()
	persisted := ls.saved[learner.DefaultLearnerID]
	ls.mu.Unlock()
	if persisted == nil {
		t.Fatal("learner should still be persisted after Reset")
	}
	if persisted.Beliefs.TotalAnswered != 0 {
		t.Errorf("TotalAnswered = %d; want 0 after Reset", persisted.Beliefs.TotalAnswered)
	}
	if len(persisted.History) != 0 {
		t.Errorf("History length = %d; want 0 after Reset", len(persisted.History))
	}

	reloaded, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if reloaded.Answered != 0 || reloaded.Correct != 0 {
		t.Errorf("session counters = %d/%d; want 0/0 after Reset", reloaded.Correct, reloaded.Answered)
	}
	if reloaded.Pending != nil {
		t.Error("Pending should be cleared by Reset")
	}
}

func TestService_Delete(t *testing.T) {
	svc, _, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get() after delete = %v; want ErrSessionNotFound", err)
	}
}

func TestService_List_SkipsExpired(t *testing.T) {
	svc, store, _ := setupDrill(t)
	ctx := context.Background()

	live, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	stale, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expireSession(t, store, stale.ID)

	sessions, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("List() returned %d sessions; want 1", len(sessions))
	}
	if sessions[0].ID != live.ID {
		t.Errorf("List() returned %q; want %q", sessions[0].ID, live.ID)
	}
}

func TestService_PruneExpired(t *testing.T) {
	svc, store, _ := setupDrill(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		stale, err := svc.Create(ctx, "")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		expireSession(t, store, stale.ID)
	}

	pruned, err := svc.PruneExpired(ctx)
	if err != nil {
		t.Fatalf("PruneExpired() error = %v", err)
	}
	if pruned != 2 {
		t.Errorf("PruneExpired() = %d; want 2", pruned)
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("store.List() error = %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("remaining sessions = %d; want 1", len(ids))
	}
}

func lockCount(svc *Service) int {
	svc.lockMu.Lock()
	defer svc.lockMu.Unlock()
	return len(svc.locks)
}

func TestService_LockMapShrinksWithSessions(t *testing.T) {
	svc, store, _ := setupDrill(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := lockCount(svc); got != 1 {
		t.Fatalf("lock entries = %d; want 1", got)
	}

	if err := svc.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := lockCount(svc); got != 0 {
		t.Errorf("lock entries after Delete = %d; want 0", got)
	}

	stale, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expireSession(t, store, stale.ID)
	if _, err := svc.PruneExpired(ctx); err != nil {
		t.Fatalf("PruneExpired() error = %v", err)
	}
	if got := lockCount(svc); got != 0 {
		t.Errorf("lock entries after PruneExpired = %d; want 0", got)
	}
}
