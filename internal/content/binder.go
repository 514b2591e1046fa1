package content

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// Binder turns a selected arm into a concrete exercise by picking one of
// the catalog rows matching the arm.
type Binder struct {
	registry *Registry
	rng      *rand.Rand
}

// NewBinder creates a binder over the registry. A nil rng gets a
// time-seeded one.
func NewBinder(registry *Registry, rng *rand.Rand) *Binder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Binder{registry: registry, rng: rng}
}

// Bind resolves an arm to an exercise, choosing uniformly among the rows
// matching the arm's number pattern. An arm with no matching content
// yields ErrNoContentForArm.
func (b *Binder) Bind(arm domain.Arm) (domain.Exercise, error) {
	if err := arm.Validate(); err != nil {
		return domain.Exercise{}, err
	}

	rows := b.registry.InstancesFor(arm)
	if len(rows) == 0 {
		return domain.Exercise{}, fmt.Errorf("%w: %s", domain.ErrNoContentForArm, arm.Key())
	}

	row := rows[b.rng.Intn(len(rows))]
	ex := domain.Exercise{
		Arm:    arm,
		Price:  row.Number,
		Answer: AnswerFor(arm.Type, row),
	}
	if arm.Type == domain.TypeKiek {
		ex.Item = Items[b.rng.Intn(len(Items))]
	}
	ex.Prompt = PromptFor(arm.Type, row.Number, ex.Item)
	return ex, nil
}
