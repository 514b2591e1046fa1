package learner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

func setupFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return store
}

func TestFileStore_SaveAndGet(t *testing.T) {
	store := setupFileStore(t)
	ctx := context.Background()

	arm := domain.NewArm(domain.TypeKokia, 15)
	l := domain.NewLearner("default")
	l.Apply(arm, domain.AnswerRecord{
		Question:   "Kokia kaina? (€15)",
		Expected:   "penkiolika eurų.",
		Given:      "penkiolika eurų.",
		Correct:    true,
		AnsweredAt: time.Now(),
	})

	if err := store.Save(ctx, l); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Get(ctx, "default")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if loaded.ID != "default" {
		t.Errorf("ID = %q; want default", loaded.ID)
	}
	if loaded.Beliefs.TotalAnswered != 1 {
		t.Errorf("TotalAnswered = %d; want 1", loaded.Beliefs.TotalAnswered)
	}
	if b := loaded.Beliefs.Get(arm); b.Successes != 1 || b.Failures != 1 {
		t.Errorf("belief = %+v; want {Successes: 1, Failures: 1}", b)
	}
	if len(loaded.History) != 1 {
		t.Fatalf("History length = %d; want 1", len(loaded.History))
	}
	if loaded.History[0].Expected != "penkiolika eurų." {
		t.Errorf("History[0].Expected = %q; want penkiolika eurų.", loaded.History[0].Expected)
	}
}

func TestFileStore_Get_NotFound(t *testing.T) {
	store := setupFileStore(t)

	_, err := store.Get(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrLearnerNotFound) {
		t.Errorf("Get() error = %v; want ErrLearnerNotFound", err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	store := setupFileStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, domain.NewLearner("default")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "default"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "default"); !errors.Is(err, domain.ErrLearnerNotFound) {
		t.Errorf("Get() after delete = %v; want ErrLearnerNotFound", err)
	}
}

func TestFileStore_Delete_NotFound(t *testing.T) {
	store := setupFileStore(t)

	err := store.Delete(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrLearnerNotFound) {
		t.Errorf("Delete() error = %v; want ErrLearnerNotFound", err)
	}
}

func TestFileStore_ColdArmSurvivesRoundTrip(t *testing.T) {
	store := setupFileStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, domain.NewLearner("default")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.Get(ctx, "default")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// Unseen arms still answer with the cold prior after a round trip
	b := loaded.Beliefs.Get(domain.NewArm(domain.TypeKiek, 7))
	if b != domain.ColdBelief() {
		t.Errorf("cold belief = %+v; want %+v", b, domain.ColdBelief())
	}
}

func TestFileStore_ListAndExists(t *testing.T) {
	store := setupFileStore(t)
	ctx := context.Background()

	if store.Exists("default") {
		t.Error("Exists() should be false before save")
	}

	store.Save(ctx, domain.NewLearner("default"))
	store.Save(ctx, domain.NewLearner("antras"))

	if !store.Exists("default") {
		t.Error("Exists() should be true after save")
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("List() returned %d IDs; want 2", len(ids))
	}
}
