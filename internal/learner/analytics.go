package learner

import (
	"sort"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// weakAreaLimit caps how many values each category reports.
const weakAreaLimit = 3

// WeakArea is one underperforming category value.
type WeakArea struct {
	Name        string  `json:"name"`
	SuccessRate float64 `json:"success_rate"`
}

// WeakAreaReport groups the weakest values per skill category, weakest
// first. Categories without enough evidence stay empty.
type WeakAreaReport struct {
	ExerciseTypes    []WeakArea `json:"exercise_types,omitempty"`
	NumberPatterns   []WeakArea `json:"number_patterns,omitempty"`
	GrammaticalCases []WeakArea `json:"grammatical_cases,omitempty"`
}

// categoryTally accumulates per-value evidence across the arms sharing it.
// Each tracked arm carries one pseudo-failure from its cold prior; the
// category keeps a single one, so the aggregate matches counters that were
// bumped once per answer.
type categoryTally struct {
	successes     int
	extraFailures int
}

// WeakAreas derives the learner's weakest category values from the
// per-arm evidence. A value is reported once more than one observation
// stands behind it.
func WeakAreas(state *domain.BeliefState) WeakAreaReport {
	types := make(map[string]*categoryTally)
	patterns := make(map[string]*categoryTally)
	cases := make(map[string]*categoryTally)

	for arm, b := range state.Arms {
		tallyInto(types, string(arm.Type), b)
		tallyInto(patterns, string(arm.Pattern), b)
		tallyInto(cases, string(arm.Case), b)
	}

	return WeakAreaReport{
		ExerciseTypes:    weakest(types),
		NumberPatterns:   weakest(patterns),
		GrammaticalCases: weakest(cases),
	}
}

func tallyInto(m map[string]*categoryTally, key string, b domain.Belief) {
	t, ok := m[key]
	if !ok {
		t = &categoryTally{}
		m[key] = t
	}
	t.successes += b.Successes
	t.extraFailures += b.Failures - 1
}

func weakest(m map[string]*categoryTally) []WeakArea {
	var out []WeakArea
	for name, t := range m {
		failures := 1 + t.extraFailures
		total := t.successes + failures
		if total <= 1 {
			continue
		}
		out = append(out, WeakArea{
			Name:        name,
			SuccessRate: float64(t.successes) / float64(total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate < out[j].SuccessRate
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > weakAreaLimit {
		out = out[:weakAreaLimit]
	}
	return out
}
