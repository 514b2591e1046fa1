package adaptive

import (
	"math"
	"math/rand"
	"time"
)

// Sampler draws from the Beta posterior implied by an arm's pseudo-counts.
// Implementations return values in [0, 1].
type Sampler interface {
	// Sample draws from Beta(successes+1, failures+1).
	Sample(successes, failures int) float64
}

// BetaSampler is the production Sampler. It is not safe for concurrent
// use; callers serialize access the same way they serialize the policy.
type BetaSampler struct {
	rng *rand.Rand
}

var _ Sampler = (*BetaSampler)(nil)

// NewBetaSampler creates a sampler on the given randomness source. A nil
// rng gets a time-seeded one.
func NewBetaSampler(rng *rand.Rand) *BetaSampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &BetaSampler{rng: rng}
}

// Sample draws from Beta(successes+1, failures+1) as the ratio of two
// gamma variates. Negative counts clamp to zero, so (0, 0) yields the
// uniform Beta(1, 1).
func (s *BetaSampler) Sample(successes, failures int) float64 {
	if successes < 0 {
		successes = 0
	}
	if failures < 0 {
		failures = 0
	}
	x := s.gamma(float64(successes) + 1)
	y := s.gamma(float64(failures) + 1)
	return x / (x + y)
}

// gamma draws a Gamma(alpha, 1) variate for alpha >= 1 with the
// Marsaglia-Tsang squeeze method.
func (s *BetaSampler) gamma(alpha float64) float64 {
	d := alpha - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := s.rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}
