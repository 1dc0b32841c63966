// Package roster holds the student record rules: validation, derivation of
// percentage and division, filtering, and the ordered roster sequence.
// Nothing in here touches storage; persistence goes through Repository.
package roster

import (
	"context"
	"iter"
	"slices"

	"github.com/stemsi/student-roster/internal/model"
)

// Repository loads and saves the whole roster at once.
type Repository interface {
	Load(ctx context.Context) ([]model.Student, error)
	Save(ctx context.Context, students []model.Student) error
}

// Roster is an ordered sequence of students. Order is insertion order;
// replacing a record keeps its position and removing one shifts every
// later record down by one.
type Roster struct {
	students []model.Student
}

// New returns a roster holding a copy of students.
func New(students []model.Student) *Roster {
	return &Roster{students: slices.Clone(students)}
}

// Len returns the number of records.
func (r *Roster) Len() int {
	return len(r.students)
}

// At returns the record at index i.
func (r *Roster) At(i int) (model.Student, error) {
	if err := r.check(i); err != nil {
		return model.Student{}, err
	}
	return r.students[i], nil
}

// IndexOf returns the position of the record with the given id, or -1.
func (r *Roster) IndexOf(id string) int {
	return slices.IndexFunc(r.students, func(s model.Student) bool {
		return s.ID == id
	})
}

// Append adds s at the end and returns its index.
func (r *Roster) Append(s model.Student) int {
	r.students = append(r.students, s)
	return len(r.students) - 1
}

// ReplaceAt swaps the record at index i for s and returns the old record.
func (r *Roster) ReplaceAt(i int, s model.Student) (model.Student, error) {
	if err := r.check(i); err != nil {
		return model.Student{}, err
	}
	old := r.students[i]
	r.students[i] = s
	return old, nil
}

// InsertAt puts s at index i, shifting later records up. i may equal Len.
func (r *Roster) InsertAt(i int, s model.Student) error {
	if i < 0 || i > len(r.students) {
		return &IndexOutOfRangeError{Index: i, Len: len(r.students)}
	}
	r.students = slices.Insert(r.students, i, s)
	return nil
}

// RemoveAt deletes the record at index i and returns it.
func (r *Roster) RemoveAt(i int) (model.Student, error) {
	if err := r.check(i); err != nil {
		return model.Student{}, err
	}
	old := r.students[i]
	r.students = slices.Delete(r.students, i, i+1)
	return old, nil
}

// Students returns a copy of all records in order.
func (r *Roster) Students() []model.Student {
	return slices.Clone(r.students)
}

// View yields the index and record of every student matching f, in roster
// order. It reads the live sequence, so the roster must not be mutated while
// the iteration is running.
func (r *Roster) View(f Filter) iter.Seq2[int, model.Student] {
	return func(yield func(int, model.Student) bool) {
		for i, s := range r.students {
			if !f.Matches(s) {
				continue
			}
			if !yield(i, s) {
				return
			}
		}
	}
}

func (r *Roster) check(i int) error {
	if i < 0 || i >= len(r.students) {
		return &IndexOutOfRangeError{Index: i, Len: len(r.students)}
	}
	return nil
}
