package roster

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stemsi/student-roster/internal/model"
)

// lettersPattern accepts Unicode letters and whitespace only.
var lettersPattern = regexp.MustCompile(`^[\p{L}\s]+$`)

var validate = newValidate()

func newValidate() *govalidator.Validate {
	v := govalidator.New()
	_ = v.RegisterValidation("letters", func(fl govalidator.FieldLevel) bool {
		return lettersPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks a draft in a fixed order and returns the first failure,
// or nil when the draft can be stored. It has no side effects.
func Validate(d model.Draft) *ValidationError {
	_, verr := parse(d)
	return verr
}

// parse validates and coerces a draft. The returned student carries the
// normalized input fields only; derived fields are filled by Build.
func parse(d model.Draft) (model.Student, *ValidationError) {
	var s model.Student

	name := strings.TrimSpace(d.Name)
	if validate.Var(name, "required") != nil {
		return s, &ValidationError{Field: FieldName, Message: MsgNameRequired}
	}
	if validate.Var(name, "letters") != nil {
		return s, &ValidationError{Field: FieldName, Message: MsgNameLetters}
	}

	age, err := strconv.Atoi(strings.TrimSpace(d.Age))
	if err != nil || validate.Var(age, "gt=0") != nil {
		return s, &ValidationError{Field: FieldAge, Message: MsgAgeInvalid}
	}

	var marks model.Marks
	for i, raw := range d.Marks {
		v, ok := parseMark(raw)
		if !ok {
			return s, &ValidationError{Field: MarkField(i), Message: MsgMarksInvalid}
		}
		marks[i] = v
	}

	s.Name = name
	s.Age = age
	s.Marks = marks
	return s, nil
}

func parseMark(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if validate.Var(v, "gte=0,lte=100") != nil {
		return 0, false
	}
	return v, true
}
