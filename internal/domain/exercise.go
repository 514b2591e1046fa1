package domain

// Exercise is a fully bound drill: the question shown to the learner and
// the answer it is graded against.
type Exercise struct {
	Arm    Arm    `json:"arm"`
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
	Price  int    `json:"price"`
	// Item is the priced object, set for "Kiek kainuoja X?" questions.
	Item string `json:"item,omitempty"`
}
