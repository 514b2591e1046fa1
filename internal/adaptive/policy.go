// Package adaptive implements exercise selection: reverse Thompson
// sampling over per-arm Beta beliefs, picking the arm the learner is
// weakest on so practice concentrates where it helps most.
package adaptive

import (
	"math/rand"
	"time"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// Selection tuning. Until ColdStartThreshold answers have been recorded
// every selection is uniform; after that a flat ExplorationRate keeps
// every arm reachable regardless of the beliefs.
const (
	ColdStartThreshold = 10
	ExplorationRate    = 0.20
)

// Decision reports one selection and how it was made.
type Decision struct {
	Arm      domain.Arm
	Explored bool
}

// Policy selects the next arm to drill. It draws once from each arm's
// Beta posterior and picks the minimum draw, so arms with poor or thin
// evidence surface first. Not safe for concurrent use.
type Policy struct {
	sampler Sampler
	rng     *rand.Rand
}

// NewPolicy creates a policy with the given sampler and randomness
// source. A nil rng gets a time-seeded one.
func NewPolicy(sampler Sampler, rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Policy{sampler: sampler, rng: rng}
}

// Select picks the next arm from the catalog given the learner's
// evidence. The catalog is the full set of selectable arms; exploration
// picks uniformly from it, exploitation takes the weakest posterior draw
// with ties broken uniformly.
func (p *Policy) Select(state *domain.BeliefState, catalog []domain.Arm) (Decision, error) {
	if len(catalog) == 0 {
		return Decision{}, domain.ErrNoArmsAvailable
	}

	if state.TotalAnswered < ColdStartThreshold || p.rng.Float64() < ExplorationRate {
		return Decision{Arm: catalog[p.rng.Intn(len(catalog))], Explored: true}, nil
	}

	var (
		tied    []domain.Arm
		minDraw float64
	)
	for i, arm := range catalog {
		b := state.Get(arm)
		draw := p.sampler.Sample(b.Successes, b.Failures)
		switch {
		case i == 0 || draw < minDraw:
			minDraw = draw
			tied = tied[:0]
			tied = append(tied, arm)
		case draw == minDraw:
			tied = append(tied, arm)
		}
	}

	arm := tied[0]
	if len(tied) > 1 {
		arm = tied[p.rng.Intn(len(tied))]
	}
	return Decision{Arm: arm}, nil
}
