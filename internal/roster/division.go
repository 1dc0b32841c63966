package roster

import "github.com/stemsi/student-roster/internal/model"

// Lower bounds (inclusive) of each passing division.
const (
	FirstDivisionMin  = 60
	SecondDivisionMin = 45
	ThirdDivisionMin  = 33
)

// Classify maps a percentage to its division. Anything below the third
// division bound, including negative values and NaN, is a Fail.
func Classify(percentage float64) model.Division {
	switch {
	case percentage >= FirstDivisionMin:
		return model.DivisionFirst
	case percentage >= SecondDivisionMin:
		return model.DivisionSecond
	case percentage >= ThirdDivisionMin:
		return model.DivisionThird
	default:
		return model.DivisionFail
	}
}
