package repository

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stemsi/student-roster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoster() []model.Student {
	return []model.Student{
		{
			ID: "3b241101-e2bb-4255-8caf-4136c566a962", Name: "Jane Doe", Age: 20,
			Marks: model.Marks{50, 60, 70, 80, 90}, Percentage: 70, Division: model.DivisionFirst,
		},
		{
			ID: "0b5c6b2e-7f4a-4a36-9a52-9b0b44e5c7aa", Name: "Ali Khan", Age: 17,
			Marks: model.Marks{33.5, 40, 12.25, 60, 20}, Percentage: 33.15, Division: model.DivisionThird,
		},
		{
			ID: "f1a0b9f4-1a1e-4c89-8a70-2f9d0d4a0e11", Name: "Jane Doe", Age: 21,
			Marks: model.Marks{0, 0, 0, 0, 1}, Percentage: 0.2, Division: model.DivisionFail,
		},
	}
}

func TestRosterCodec_RoundTrip(t *testing.T) {
	in := sampleRoster()

	data, err := EncodeRoster(in)
	require.NoError(t, err)

	out, err := DecodeRoster(data)
	require.NoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRosterCodec_WireFormat(t *testing.T) {
	data, err := EncodeRoster(sampleRoster()[:1])
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"id": "3b241101-e2bb-4255-8caf-4136c566a962",
		"name": "Jane Doe",
		"age": 20,
		"marks": [50, 60, 70, 80, 90],
		"percentage": 70.00,
		"division": "First"
	}]`, string(data))
	assert.Contains(t, string(data), `"percentage":70.00`)
}

func TestRosterCodec_Empty(t *testing.T) {
	data, err := EncodeRoster(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	for _, payload := range []string{"", "  \n", "null", "[]"} {
		out, err := DecodeRoster([]byte(payload))
		require.NoError(t, err, "payload %q", payload)
		assert.Empty(t, out)
		assert.NotNil(t, out)
	}
}

func TestRosterCodec_Corrupt(t *testing.T) {
	payloads := []string{
		`{not json`,
		`{"name":"Jane"}`,
		`[{"name":"Jane","marks":[1,2,3]}]`,
		`[{"name":"Jane","marks":[1,2,3,4,5,6]}]`,
		`[{"name":"Jane","age":"twenty","marks":[1,2,3,4,5]}]`,
	}
	for _, p := range payloads {
		_, err := DecodeRoster([]byte(p))
		assert.ErrorIs(t, err, ErrCorruptPayload, "payload %s", p)
	}
}

func TestPercentage_DecodesStrings(t *testing.T) {
	var s model.Student
	err := json.Unmarshal([]byte(`{"percentage":"45.50"}`), &s)
	require.NoError(t, err)
	assert.Equal(t, model.Percentage(45.5), s.Percentage)
}
