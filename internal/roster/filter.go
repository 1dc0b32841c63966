package roster

import (
	"strings"

	"github.com/stemsi/student-roster/internal/model"
)

// Filter narrows a roster listing. Zero value matches everything.
type Filter struct {
	// Name matches as a case-insensitive substring of the student name.
	Name string
	// Division, when set, must equal the student's division exactly.
	Division model.Division
}

// Matches reports whether s passes both filter conditions.
func (f Filter) Matches(s model.Student) bool {
	if f.Division != "" && s.Division != f.Division {
		return false
	}
	if f.Name == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Name))
}
