package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrIndexOutOfRange matches every *IndexOutOfRangeError via errors.Is.
	ErrIndexOutOfRange = errors.New("roster index out of range")
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("student not found")
)

// Validation messages, in the order the checks run.
const (
	MsgNameRequired  = "Name is required."
	MsgNameLetters   = "Name must contain only letters."
	MsgAgeInvalid    = "Valid age is required."
	MsgMarksInvalid  = "Marks must be numbers between 0 and 100."
	FieldName        = "name"
	FieldAge         = "age"
	fieldMarksFormat = "marks[%d]"
)

// ValidationError reports the first draft field that failed validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// MarkField returns the field name used for the i-th mark (zero based).
func MarkField(i int) string {
	return fmt.Sprintf(fieldMarksFormat, i)
}

// IndexOutOfRangeError is returned when a positional operation targets an
// index outside the current roster. Positions shift on every delete, so a
// stale index from an earlier listing is the usual cause.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("roster index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// LoadError wraps a failure to read the persisted roster. It is recoverable:
// the roster falls back to empty and the caller decides how to surface it.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "load roster: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
