package roster

import (
	"math"

	"github.com/stemsi/student-roster/internal/model"
)

// Derive computes the percentage (two decimals) and division for a set of marks.
func Derive(marks model.Marks) (model.Percentage, model.Division) {
	percentage := round2(marks.Total() / (model.MarkCount * model.MaxMark) * 100)
	return model.Percentage(percentage), Classify(percentage)
}

// Build validates a draft and returns the normalized record with derived
// fields filled in. Create and update both go through here. The returned
// record has no ID; assigning one is the caller's job.
func Build(d model.Draft) (model.Student, error) {
	s, verr := parse(d)
	if verr != nil {
		return model.Student{}, verr
	}
	s.Percentage, s.Division = Derive(s.Marks)
	return s, nil
}

// Rederive recomputes the derived fields of an already stored record.
func Rederive(s model.Student) model.Student {
	s.Percentage, s.Division = Derive(s.Marks)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
