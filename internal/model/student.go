package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarkCount is the number of subject marks recorded per student.
const MarkCount = 5

// MaxMark is the upper bound of a single subject mark.
const MaxMark = 100

// Division is the result band derived from a student's percentage.
type Division string

const (
	DivisionFirst  Division = "First"
	DivisionSecond Division = "Second"
	DivisionThird  Division = "Third"
	DivisionFail   Division = "Fail"
)

// Divisions lists every division from best to worst.
var Divisions = []Division{DivisionFirst, DivisionSecond, DivisionThird, DivisionFail}

// Valid reports whether d is one of the known divisions.
func (d Division) Valid() bool {
	switch d {
	case DivisionFirst, DivisionSecond, DivisionThird, DivisionFail:
		return true
	}
	return false
}

// Marks holds the five subject marks in entry order.
type Marks [MarkCount]float64

// Total returns the sum of all marks.
func (m Marks) Total() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Percentage is a derived score kept at two decimal places.
// It encodes as a JSON number with exactly two fractional digits (70 -> 70.00).
type Percentage float64

// String renders the percentage with two decimals.
func (p Percentage) String() string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}

// MarshalJSON implements json.Marshaler.
func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string ("70.00").
func (p *Percentage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("percentage: %w", err)
	}
	*p = Percentage(v)
	return nil
}

// Student is one roster entry. Percentage and Division are always derived
// from Marks and never set from user input.
type Student struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Age        int        `json:"age"`
	Marks      Marks      `json:"marks"`
	Percentage Percentage `json:"percentage"`
	Division   Division   `json:"division"`
}

// Draft is raw form input as typed by a user. Every field is a string;
// the roster core coerces and validates it.
type Draft struct {
	Name  string
	Age   string
	Marks [MarkCount]string
}

// StudentDraftRequest is the JSON payload for creating, updating or
// validating a student. Values arrive as strings, the way a form posts them.
type StudentDraftRequest struct {
	Name  string   `json:"name"`
	Age   string   `json:"age"`
	Marks []string `json:"marks" binding:"max=5"`
}

// Draft converts the request into a core Draft. Missing marks stay empty
// and are reported by validation.
func (r StudentDraftRequest) Draft() Draft {
	d := Draft{Name: r.Name, Age: r.Age}
	copy(d.Marks[:], r.Marks)
	return d
}

// ListStudentsQuery holds the optional roster filters.
type ListStudentsQuery struct {
	Name     string   `form:"name" binding:"max=100"`
	Division Division `form:"division" binding:"omitempty,oneof=First Second Third Fail"`
}

// StudentIDParam binds the :id path segment.
type StudentIDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// RosterIndexParam binds the :index path segment. Range is checked against
// the roster, not here, so a negative index reports as out of range.
type RosterIndexParam struct {
	Index int `uri:"index"`
}

// StudentEntry pairs a record with its current roster position.
type StudentEntry struct {
	Index   int     `json:"index"`
	Student Student `json:"student"`
}
