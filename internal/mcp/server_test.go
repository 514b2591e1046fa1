package mcp

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/felixgeelhaar/kaina/internal/adaptive"
	"github.com/felixgeelhaar/kaina/internal/content"
	"github.com/felixgeelhaar/kaina/internal/domain"
	"github.com/felixgeelhaar/kaina/internal/learner"
	"github.com/felixgeelhaar/kaina/internal/session"
)

const testPackYAML = `id: test-pack
name: Test fixtures
version: "1.0"
language: lt
rows:
  - number: 5
    kokia_kaina: penki
    euro_nom: eurai
    kiek_kainuoja: penkis
    euro_acc: eurus
`

// memStore is an in-memory learner.Store for MCP tool tests.
type memStore struct {
	mu    sync.Mutex
	saved map[string]*domain.Learner
}

var _ learner.Store = (*memStore)(nil)

func (m *memStore) Get(ctx context.Context, id string) (*domain.Learner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.saved[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
	}
	return l.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, l *domain.Learner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[l.ID] = l.Clone()
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, id)
	return nil
}

// setupTestServer wires a full drill stack on temp storage with seeded
// randomness.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(testPackYAML), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	registry := content.NewRegistry(content.NewLoader(dir))
	if err := registry.Load(); err != nil {
		t.Fatalf("load registry: %v", err)
	}

	store, err := session.NewStore(filepath.Join(dir, "sessions"))
	if err != nil {
		t.Fatalf("create session store: %v", err)
	}

	learners := learner.NewService(&memStore{saved: make(map[string]*domain.Learner)})
	rng := rand.New(rand.NewSource(7))
	policy := adaptive.NewPolicy(adaptive.NewBetaSampler(rand.New(rand.NewSource(11))), rng)
	binder := content.NewBinder(registry, rand.New(rand.NewSource(13)))

	drill := session.NewService(store, learners, registry, policy, binder)

	return NewServer(Config{Drill: drill, Version: "test"})
}

func TestNewServer(t *testing.T) {
	srv := setupTestServer(t)

	if srv.mcpServer == nil {
		t.Fatal("expected non-nil MCP server")
	}
	if srv.GetMCPServer() == nil {
		t.Fatal("expected non-nil underlying MCP server")
	}
}

func TestDrillFlow(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	start, err := srv.handleStart(ctx, StartInput{})
	if err != nil {
		t.Fatalf("kaina_start: %v", err)
	}
	if start.SessionID == "" {
		t.Fatal("session ID is empty")
	}
	if start.LearnerID != learner.DefaultLearnerID {
		t.Errorf("learner = %q, want %q", start.LearnerID, learner.DefaultLearnerID)
	}

	next, err := srv.handleNext(ctx, NextInput{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("kaina_next: %v", err)
	}
	if next.Prompt == "" {
		t.Error("prompt is empty")
	}
	if next.Price != 5 {
		t.Errorf("price = %d, want 5 (only row in the pack)", next.Price)
	}

	// The only kokia answer in the pack; kiek prompts expect the
	// accusative phrasing instead.
	given := "penki eurai"
	if strings.HasPrefix(next.Prompt, "Kiek") {
		given = "penkis eurus"
	}

	answer, err := srv.handleAnswer(ctx, AnswerInput{SessionID: start.SessionID, Answer: given})
	if err != nil {
		t.Fatalf("kaina_answer: %v", err)
	}
	if !answer.Correct {
		t.Errorf("answer %q graded incorrect, expected %q", given, answer.Expected)
	}
	if answer.Streak != 1 {
		t.Errorf("streak = %d, want 1", answer.Streak)
	}

	stats, err := srv.handleStats(ctx, StatsInput{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("kaina_stats: %v", err)
	}
	if stats.Total != 1 || stats.Correct != 1 {
		t.Errorf("stats = %+v, want one correct answer", stats)
	}
	if stats.SessionAnswered != 1 {
		t.Errorf("session answered = %d, want 1", stats.SessionAnswered)
	}

	stop, err := srv.handleStop(ctx, StopInput{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("kaina_stop: %v", err)
	}
	if stop.Message == "" {
		t.Error("stop message is empty")
	}
}

func TestAnswerWithoutPending(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	start, err := srv.handleStart(ctx, StartInput{})
	if err != nil {
		t.Fatalf("kaina_start: %v", err)
	}

	if _, err := srv.handleAnswer(ctx, AnswerInput{SessionID: start.SessionID, Answer: "penki eurai"}); err == nil {
		t.Error("expected error answering with no pending exercise")
	}
}

func TestResetWipesProgress(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	start, err := srv.handleStart(ctx, StartInput{})
	if err != nil {
		t.Fatalf("kaina_start: %v", err)
	}

	for i := 0; i < 3; i++ {
		next, err := srv.handleNext(ctx, NextInput{SessionID: start.SessionID})
		if err != nil {
			t.Fatalf("kaina_next: %v", err)
		}
		given := "penki eurai"
		if strings.HasPrefix(next.Prompt, "Kiek") {
			given = "penkis eurus"
		}
		if _, err := srv.handleAnswer(ctx, AnswerInput{SessionID: start.SessionID, Answer: given}); err != nil {
			t.Fatalf("kaina_answer: %v", err)
		}
	}

	if _, err := srv.handleReset(ctx, ResetInput{SessionID: start.SessionID}); err != nil {
		t.Fatalf("kaina_reset: %v", err)
	}

	stats, err := srv.handleStats(ctx, StatsInput{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("kaina_stats: %v", err)
	}
	if stats.Total != 0 || stats.SessionAnswered != 0 {
		t.Errorf("stats after reset = %+v, want zeroes", stats)
	}
}

func TestWeakAreasEmptyState(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	start, err := srv.handleStart(ctx, StartInput{})
	if err != nil {
		t.Fatalf("kaina_start: %v", err)
	}

	report, err := srv.handleWeakAreas(ctx, WeakAreasInput{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("kaina_weak_areas: %v", err)
	}
	if len(report.NumberPatterns) != 0 {
		t.Errorf("fresh state weak patterns = %+v, want none", report.NumberPatterns)
	}
	if report.Summary == "" {
		t.Error("summary is empty")
	}
}
