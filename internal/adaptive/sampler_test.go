package adaptive

import (
	"math"
	"math/rand"
	"testing"
)

func TestBetaSampler_Range(t *testing.T) {
	s := NewBetaSampler(rand.New(rand.NewSource(1)))

	counts := []struct{ successes, failures int }{
		{0, 0}, {10, 0}, {0, 10}, {50, 50}, {1, 20},
	}
	for _, c := range counts {
		for i := 0; i < 1000; i++ {
			v := s.Sample(c.successes, c.failures)
			if v < 0 || v > 1 {
				t.Fatalf("Sample(%d, %d) = %f, want [0, 1]", c.successes, c.failures, v)
			}
		}
	}
}

func TestBetaSampler_MeanTracksEvidence(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		failures  int
		wantMean  float64
		tolerance float64
	}{
		{"uniform", 0, 0, 0.5, 0.02},
		{"cold default", 0, 1, 1.0 / 3.0, 0.02},
		{"mostly right", 9, 1, 10.0 / 12.0, 0.02},
		{"mostly wrong", 0, 20, 1.0 / 22.0, 0.01},
		{"all right", 20, 0, 21.0 / 22.0, 0.01},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewBetaSampler(rand.New(rand.NewSource(2)))
			const n = 20000
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += s.Sample(tc.successes, tc.failures)
			}
			mean := sum / n
			if math.Abs(mean-tc.wantMean) > tc.tolerance {
				t.Errorf("mean of Sample(%d, %d) = %f, want %f within %f",
					tc.successes, tc.failures, mean, tc.wantMean, tc.tolerance)
			}
		})
	}
}

func TestBetaSampler_WeakArmDrawsLower(t *testing.T) {
	s := NewBetaSampler(rand.New(rand.NewSource(3)))

	lower := 0
	const n = 1000
	for i := 0; i < n; i++ {
		weak := s.Sample(0, 20)
		strong := s.Sample(20, 0)
		if weak < strong {
			lower++
		}
	}
	if lower < n*95/100 {
		t.Errorf("weak draw below strong draw %d of %d times, want >= %d", lower, n, n*95/100)
	}
}

func TestBetaSampler_DeterministicWithSeed(t *testing.T) {
	s1 := NewBetaSampler(rand.New(rand.NewSource(4)))
	s2 := NewBetaSampler(rand.New(rand.NewSource(4)))

	for i := 0; i < 100; i++ {
		v1 := s1.Sample(3, 7)
		v2 := s2.Sample(3, 7)
		if v1 != v2 {
			t.Fatalf("draw %d diverged: %f vs %f", i, v1, v2)
		}
	}
}

func TestBetaSampler_NegativeCountsClamp(t *testing.T) {
	s := NewBetaSampler(rand.New(rand.NewSource(5)))
	for i := 0; i < 100; i++ {
		v := s.Sample(-3, -1)
		if v < 0 || v > 1 {
			t.Fatalf("Sample(-3, -1) = %f, want [0, 1]", v)
		}
	}
}
