package domain

// Belief is the evidence accumulated for one arm, kept as the pseudo-counts
// of a Beta distribution over the learner's success probability.
type Belief struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// ColdBelief is the prior assigned to an arm before any evidence: zero
// successes and one failure, a Beta(1,2) whose draws skew low so unseen
// arms register as weak.
func ColdBelief() Belief {
	return Belief{Successes: 0, Failures: 1}
}

// Total returns the evidence count behind the belief.
func (b Belief) Total() int {
	return b.Successes + b.Failures
}

// SuccessRate returns the observed success fraction, 0 when empty.
func (b Belief) SuccessRate() float64 {
	if b.Total() == 0 {
		return 0
	}
	return float64(b.Successes) / float64(b.Total())
}

// BeliefState holds the per-arm evidence for one learner. The zero value
// is a valid empty state; arms are materialized lazily on first observation.
type BeliefState struct {
	Arms          map[Arm]Belief `json:"arms,omitempty"`
	TotalAnswered int            `json:"total_answered"`
}

// NewBeliefState returns a state with no recorded evidence.
func NewBeliefState() BeliefState {
	return BeliefState{Arms: make(map[Arm]Belief)}
}

// Get returns the belief for an arm, or the cold prior if the arm has never
// been observed. The map is not mutated.
func (s *BeliefState) Get(arm Arm) Belief {
	if b, ok := s.Arms[arm]; ok {
		return b
	}
	return ColdBelief()
}

// Observe applies one answer outcome to an arm. The cold prior is
// materialized on first observation; exactly one counter increments, and
// the answered total advances by one.
func (s *BeliefState) Observe(arm Arm, correct bool) {
	if s.Arms == nil {
		s.Arms = make(map[Arm]Belief)
	}
	b, ok := s.Arms[arm]
	if !ok {
		b = ColdBelief()
	}
	if correct {
		b.Successes++
	} else {
		b.Failures++
	}
	s.Arms[arm] = b
	s.TotalAnswered++
}

// Reset discards all evidence.
func (s *BeliefState) Reset() {
	s.Arms = make(map[Arm]Belief)
	s.TotalAnswered = 0
}

// Clone returns a deep copy that can be mutated independently.
func (s *BeliefState) Clone() BeliefState {
	c := BeliefState{TotalAnswered: s.TotalAnswered}
	if s.Arms != nil {
		c.Arms = make(map[Arm]Belief, len(s.Arms))
		for arm, b := range s.Arms {
			c.Arms[arm] = b
		}
	}
	return c
}
