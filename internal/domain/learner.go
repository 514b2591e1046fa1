package domain

import "time"

// HistoryLimit bounds the answer history kept per learner. Older entries
// are evicted first.
const HistoryLimit = 50

// AnswerRecord is one graded answer kept in the learner's history.
type AnswerRecord struct {
	Question   string        `json:"question"`
	Expected   string        `json:"expected"`
	Given      string        `json:"given"`
	Correct    bool          `json:"correct"`
	Diff       []DiffSegment `json:"diff,omitempty"`
	AnsweredAt time.Time     `json:"answered_at"`
}

// Learner is the aggregate persisted per learner: the bandit evidence plus
// a bounded history of graded answers.
type Learner struct {
	ID        string         `json:"id"`
	Beliefs   BeliefState    `json:"beliefs"`
	History   []AnswerRecord `json:"history,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewLearner creates an empty learner profile.
func NewLearner(id string) *Learner {
	now := time.Now()
	return &Learner{
		ID:        id,
		Beliefs:   NewBeliefState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply records one graded answer: the matching belief counter and the
// bounded history advance together.
func (l *Learner) Apply(arm Arm, rec AnswerRecord) {
	l.Beliefs.Observe(arm, rec.Correct)
	l.History = append(l.History, rec)
	if len(l.History) > HistoryLimit {
		l.History = l.History[len(l.History)-HistoryLimit:]
	}
	l.UpdatedAt = time.Now()
}

// Reset discards all evidence and history.
func (l *Learner) Reset() {
	l.Beliefs.Reset()
	l.History = nil
	l.UpdatedAt = time.Now()
}

// Clone returns a deep copy. Mutating the copy leaves the original intact.
func (l *Learner) Clone() *Learner {
	c := *l
	c.Beliefs = l.Beliefs.Clone()
	if l.History != nil {
		c.History = append([]AnswerRecord(nil), l.History...)
	}
	return &c
}

// Stats summarizes the learner's kept answer history.
type Stats struct {
	Total         int     `json:"total"`
	Correct       int     `json:"correct"`
	Incorrect     int     `json:"incorrect"`
	Accuracy      float64 `json:"accuracy"`
	CurrentStreak int     `json:"current_streak"`
}

// Stats computes totals, accuracy and the current streak of consecutive
// correct answers over the kept history window.
func (l *Learner) Stats() Stats {
	var s Stats
	for _, rec := range l.History {
		s.Total++
		if rec.Correct {
			s.Correct++
		} else {
			s.Incorrect++
		}
	}
	if s.Total > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Total) * 100
	}
	for i := len(l.History) - 1; i >= 0; i-- {
		if !l.History[i].Correct {
			break
		}
		s.CurrentStreak++
	}
	return s
}
