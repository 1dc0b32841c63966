package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stemsi/student-roster/internal/model"
)

// ErrCorruptPayload is returned when a stored roster cannot be decoded.
var ErrCorruptPayload = errors.New("corrupt roster payload")

// storedStudent mirrors model.Student with a variable-length marks slice so
// that a payload with the wrong number of marks is rejected instead of
// being silently padded or truncated.
type storedStudent struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Age        int              `json:"age"`
	Marks      []float64        `json:"marks"`
	Percentage model.Percentage `json:"percentage"`
	Division   model.Division   `json:"division"`
}

// EncodeRoster serializes the roster as a JSON array. An empty roster
// encodes as [].
func EncodeRoster(students []model.Student) ([]byte, error) {
	if students == nil {
		students = []model.Student{}
	}
	return json.Marshal(students)
}

// DecodeRoster parses a payload written by EncodeRoster. A blank payload
// is an empty roster.
func DecodeRoster(data []byte) ([]model.Student, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []model.Student{}, nil
	}

	var stored []storedStudent
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}

	students := make([]model.Student, 0, len(stored))
	for i, s := range stored {
		if len(s.Marks) != model.MarkCount {
			return nil, fmt.Errorf("%w: record %d has %d marks, want %d",
				ErrCorruptPayload, i, len(s.Marks), model.MarkCount)
		}
		st := model.Student{
			ID:         s.ID,
			Name:       s.Name,
			Age:        s.Age,
			Percentage: s.Percentage,
			Division:   s.Division,
		}
		copy(st.Marks[:], s.Marks)
		students = append(students, st)
	}
	return students, nil
}
