package domain

import (
	"fmt"
	"strings"
)

// ExerciseType identifies the question form a drill uses.
type ExerciseType string

const (
	// TypeKokia asks "Kokia kaina?" and expects the price in the nominative.
	TypeKokia ExerciseType = "kokia"
	// TypeKiek asks "Kiek kainuoja X?" and expects the price in the accusative.
	TypeKiek ExerciseType = "kiek"
)

// GrammaticalCase is the case the spoken price takes in the answer.
type GrammaticalCase string

const (
	CaseNominative GrammaticalCase = "nominative"
	CaseAccusative GrammaticalCase = "accusative"
)

// CaseFor returns the case a question type demands.
func CaseFor(t ExerciseType) GrammaticalCase {
	if t == TypeKiek {
		return CaseAccusative
	}
	return CaseNominative
}

// NumberPattern classifies a price by the number-grammar rule its reading follows.
type NumberPattern string

const (
	PatternSingleDigit NumberPattern = "single_digit" // 1-9
	PatternTeens       NumberPattern = "teens"        // 10-19
	PatternDecade      NumberPattern = "decade"       // 20, 30, ...
	PatternCompound    NumberPattern = "compound"     // 21-99 off the decade
)

// PatternFor classifies a number.
func PatternFor(n int) NumberPattern {
	switch {
	case n < 10:
		return PatternSingleDigit
	case n < 20:
		return PatternTeens
	case n%10 == 0:
		return PatternDecade
	default:
		return PatternCompound
	}
}

// Arm is one practisable skill combination: a question type, the case the
// answer takes, and the number pattern of the price. Arms have value
// semantics and are used directly as map keys.
type Arm struct {
	Type    ExerciseType    `json:"type"`
	Case    GrammaticalCase `json:"case"`
	Pattern NumberPattern   `json:"pattern"`
}

// NewArm builds the arm for a question type and a price, deriving the case
// from the type and the pattern from the price.
func NewArm(t ExerciseType, price int) Arm {
	return Arm{Type: t, Case: CaseFor(t), Pattern: PatternFor(price)}
}

// Key renders the stable "type:case:pattern" form used for persistence and
// display. The colon separator keeps pattern names that contain underscores
// unambiguous.
func (a Arm) Key() string {
	return fmt.Sprintf("%s:%s:%s", a.Type, a.Case, a.Pattern)
}

// ParseArmKey parses the form produced by Key.
func ParseArmKey(s string) (Arm, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Arm{}, fmt.Errorf("%w: malformed arm key %q", ErrInvalidArm, s)
	}
	arm := Arm{
		Type:    ExerciseType(parts[0]),
		Case:    GrammaticalCase(parts[1]),
		Pattern: NumberPattern(parts[2]),
	}
	if err := arm.Validate(); err != nil {
		return Arm{}, err
	}
	return arm, nil
}

// Validate checks that every field is a known member.
func (a Arm) Validate() error {
	switch a.Type {
	case TypeKokia, TypeKiek:
	default:
		return fmt.Errorf("%w: unknown exercise type %q", ErrInvalidArm, a.Type)
	}
	switch a.Case {
	case CaseNominative, CaseAccusative:
	default:
		return fmt.Errorf("%w: unknown grammatical case %q", ErrInvalidArm, a.Case)
	}
	switch a.Pattern {
	case PatternSingleDigit, PatternTeens, PatternDecade, PatternCompound:
	default:
		return fmt.Errorf("%w: unknown number pattern %q", ErrInvalidArm, a.Pattern)
	}
	return nil
}

// MarshalText renders the arm as its key, so maps keyed by Arm serialize
// to readable JSON objects.
func (a Arm) MarshalText() ([]byte, error) {
	return []byte(a.Key()), nil
}

// UnmarshalText parses the key form produced by MarshalText.
func (a *Arm) UnmarshalText(text []byte) error {
	parsed, err := ParseArmKey(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
