package content

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// Row is one price entry of the catalog: the number plus the word forms
// needed to build and grade both question types. Compound numbers split
// their spelling into a leading part and a declined tail.
type Row struct {
	Number               int    `yaml:"number" json:"number"`
	Informal             string `yaml:"informal,omitempty" json:"informal,omitempty"`
	Compound             string `yaml:"compound,omitempty" json:"compound,omitempty"`
	KokiaKaina           string `yaml:"kokia_kaina" json:"kokia_kaina"`
	KokiaKainaCompound   string `yaml:"kokia_kaina_compound,omitempty" json:"kokia_kaina_compound,omitempty"`
	EuroNom              string `yaml:"euro_nom" json:"euro_nom"`
	CentNom              string `yaml:"cent_nom,omitempty" json:"cent_nom,omitempty"`
	KiekKainuoja         string `yaml:"kiek_kainuoja" json:"kiek_kainuoja"`
	KiekKainuojaCompound string `yaml:"kiek_kainuoja_compound,omitempty" json:"kiek_kainuoja_compound,omitempty"`
	EuroAcc              string `yaml:"euro_acc" json:"euro_acc"`
	CentAcc              string `yaml:"cent_acc,omitempty" json:"cent_acc,omitempty"`
}

// Pattern classifies the row's number.
func (r Row) Pattern() domain.NumberPattern {
	return domain.PatternFor(r.Number)
}

// Items are the priced objects used by "Kiek kainuoja X?" questions.
var Items = []string{"knyga", "puodelis", "marškinėliai", "žurnalas", "kepurė"}

// AnswerFor builds the expected Lithuanian price phrase for a row: the
// number words in the case the question type demands, the matching euro
// form, and a trailing period.
func AnswerFor(t domain.ExerciseType, row Row) string {
	var parts []string
	if t == domain.TypeKokia {
		parts = append(parts, row.KokiaKaina)
		if row.KokiaKainaCompound != "" {
			parts = append(parts, row.KokiaKainaCompound)
		}
		parts = append(parts, row.EuroNom)
	} else {
		parts = append(parts, row.KiekKainuoja)
		if row.KiekKainuojaCompound != "" {
			parts = append(parts, row.KiekKainuojaCompound)
		}
		parts = append(parts, row.EuroAcc)
	}
	return strings.Join(parts, " ") + "."
}

// PromptFor formats the question shown to the learner.
func PromptFor(t domain.ExerciseType, price int, item string) string {
	if t == domain.TypeKiek {
		return fmt.Sprintf("Kiek kainuoja %s? (€%d)", item, price)
	}
	return fmt.Sprintf("Kokia kaina? (€%d)", price)
}
