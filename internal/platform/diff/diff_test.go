// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/diff"
)

var biodataSchema = diff.Schema{
	"email":          diff.KindString,
	"firstname":      diff.KindString,
	"lastname":       diff.KindString,
	"profilePicture": diff.KindString,
	"country":        diff.KindString,
	"age":            diff.KindInt,
}

func storedBiodata() diff.Record {
	return diff.Record{
		"email":          "john@example.com",
		"firstname":      "John",
		"lastname":       "Doe",
		"profilePicture": "default-profile.png",
		"country":        "Indonesia",
		"age":            21,
	}
}

/*
TestCompute_SingleFieldChange verifies that only the submitted-and-different
field enters the diff.
*/
func TestCompute_SingleFieldChange(t *testing.T) {
	result, err := diff.Compute(biodataSchema, storedBiodata(), diff.Record{
		"firstname": "Jane",
	})

	require.NoError(t, err)
	assert.Equal(t, diff.Record{"firstname": "John"}, result.Before)
	assert.Equal(t, diff.Record{"firstname": "Jane"}, result.After)
	assert.False(t, result.Changed("lastname"))
}

/*
TestCompute_NoChanges verifies the empty diff outcome when every submitted
value equals the stored value.
*/
func TestCompute_NoChanges(t *testing.T) {
	result, err := diff.Compute(biodataSchema, storedBiodata(), diff.Record{
		"firstname": "John",
		"age":       21,
	})

	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Empty(t, result.Before)
	assert.Empty(t, result.After)
}

/*
TestCompute_UnknownKeysIgnored verifies that keys outside the declared schema
are silently dropped, never errors.
*/
func TestCompute_UnknownKeysIgnored(t *testing.T) {
	result, err := diff.Compute(biodataSchema, storedBiodata(), diff.Record{
		"id":        99,
		"accountId": 5,
		"nonsense":  "x",
		"country":   "Japan",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"country"}, result.Fields())
}

/*
TestCompute_NumericStringNormalization verifies that form-encoded numeric
strings compare meaningfully against stored integers.
*/
func TestCompute_NumericStringNormalization(t *testing.T) {
	tests := []struct {
		name      string
		submitted any
		changed   bool
	}{
		{"same_value_as_string", "21", false},
		{"different_value_as_string", "22", true},
		{"same_value_as_json_number", float64(21), false},
		{"different_value_as_int", 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := diff.Compute(biodataSchema, storedBiodata(), diff.Record{
				"age": tt.submitted,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.changed, result.Changed("age"))
			if tt.changed {
				assert.Equal(t, 21, result.Before["age"])
			}
		})
	}
}

/*
TestCompute_UnparsableIntRejected pins the open normalization question: an
integer field receiving a non-numeric value is rejected with a field-level
validation error instead of silently registering as changed.
*/
func TestCompute_UnparsableIntRejected(t *testing.T) {
	_, err := diff.Compute(biodataSchema, storedBiodata(), diff.Record{
		"age": "twenty",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 400, ae.HTTPStatus)
	require.Len(t, ae.Errors, 1)
	assert.Equal(t, "age", ae.Errors[0].Param)
	assert.Equal(t, "twenty", ae.Errors[0].Value)
}

/*
TestCompute_DoesNotMutateInputs verifies the engine is a pure comparison.
*/
func TestCompute_DoesNotMutateInputs(t *testing.T) {
	current := storedBiodata()
	submitted := diff.Record{"age": "35", "firstname": "Jane"}

	_, err := diff.Compute(biodataSchema, current, submitted)

	require.NoError(t, err)
	assert.Equal(t, storedBiodata(), current)
	assert.Equal(t, diff.Record{"age": "35", "firstname": "Jane"}, submitted)
}

/*
TestResult_Fields verifies deterministic sorted ordering of changed fields.
*/
func TestResult_Fields(t *testing.T) {
	result, err := diff.Compute(biodataSchema, storedBiodata(), diff.Record{
		"lastname":  "Smith",
		"age":       40,
		"firstname": "Jane",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"age", "firstname", "lastname"}, result.Fields())
}
