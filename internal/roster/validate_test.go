package roster

import (
	"errors"
	"testing"

	"github.com/stemsi/student-roster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() model.Draft {
	return model.Draft{
		Name:  "Jane Doe",
		Age:   "20",
		Marks: [5]string{"50", "60", "70", "80", "90"},
	}
}

func TestValidate_Accepts(t *testing.T) {
	assert.Nil(t, Validate(validDraft()))

	d := validDraft()
	d.Name = "  José Álvarez  "
	d.Marks = [5]string{"0", "100", "99.5", " 42 ", "0.25"}
	assert.Nil(t, Validate(d))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *model.Draft)
		field   string
		message string
	}{
		{"empty name", func(d *model.Draft) { d.Name = "" }, FieldName, MsgNameRequired},
		{"blank name", func(d *model.Draft) { d.Name = "   " }, FieldName, MsgNameRequired},
		{"digit in name", func(d *model.Draft) { d.Name = "John3" }, FieldName, MsgNameLetters},
		{"punctuation in name", func(d *model.Draft) { d.Name = "O'Brien" }, FieldName, MsgNameLetters},
		{"missing age", func(d *model.Draft) { d.Age = "" }, FieldAge, MsgAgeInvalid},
		{"zero age", func(d *model.Draft) { d.Age = "0" }, FieldAge, MsgAgeInvalid},
		{"negative age", func(d *model.Draft) { d.Age = "-4" }, FieldAge, MsgAgeInvalid},
		{"fractional age", func(d *model.Draft) { d.Age = "20.5" }, FieldAge, MsgAgeInvalid},
		{"mark below range", func(d *model.Draft) { d.Marks[0] = "-1" }, "marks[0]", MsgMarksInvalid},
		{"mark above range", func(d *model.Draft) { d.Marks[3] = "101" }, "marks[3]", MsgMarksInvalid},
		{"missing mark", func(d *model.Draft) { d.Marks[4] = "" }, "marks[4]", MsgMarksInvalid},
		{"non numeric mark", func(d *model.Draft) { d.Marks[2] = "abc" }, "marks[2]", MsgMarksInvalid},
		{"NaN mark", func(d *model.Draft) { d.Marks[1] = "NaN" }, "marks[1]", MsgMarksInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			verr := Validate(d)
			require.NotNil(t, verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	d := model.Draft{Name: "John3", Age: "0", Marks: [5]string{"-1"}}
	verr := Validate(d)
	require.NotNil(t, verr)
	assert.Equal(t, MsgNameLetters, verr.Message)

	d.Name = "John"
	verr = Validate(d)
	require.NotNil(t, verr)
	assert.Equal(t, MsgAgeInvalid, verr.Message)

	d.Age = "18"
	d.Marks = [5]string{"10", "200", "-5", "", ""}
	verr = Validate(d)
	require.NotNil(t, verr)
	assert.Equal(t, "marks[1]", verr.Field)
}

func TestBuild(t *testing.T) {
	d := validDraft()
	d.Name = "  Jane Doe "

	s, err := Build(d)
	require.NoError(t, err)
	assert.Equal(t, model.Student{
		Name:       "Jane Doe",
		Age:        20,
		Marks:      model.Marks{50, 60, 70, 80, 90},
		Percentage: 70,
		Division:   model.DivisionFirst,
	}, s)

	d.Age = "zero"
	_, err = Build(d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldAge, verr.Field)
}
