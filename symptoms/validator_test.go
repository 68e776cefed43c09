package symptoms

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_SplitsKnownAndUnknown(t *testing.T) {
	v := NewValidator(newTestVocab(t))
	res := v.Validate([]string{"Foo_Bar", "cough"})
	assert.Equal(t, []string{"cough"}, res.Valid)
	assert.Equal(t, []string{"foo_bar"}, res.Invalid)
	assert.False(t, res.AllValid)
}

func TestValidator_AllValid(t *testing.T) {
	v := NewValidator(newTestVocab(t))
	res := v.Validate([]string{"High Fever", "cough"})
	assert.Equal(t, []string{"high_fever", "cough"}, res.Valid)
	assert.Empty(t, res.Invalid)
	assert.True(t, res.AllValid)
}

func TestValidator_PartitionIsComplete(t *testing.T) {
	v := NewValidator(newTestVocab(t))
	inputs := [][]string{
		nil,
		{""},
		{"cough", "Cough", " COUGH "},
		{"x", "y", "headache", "x", "fatigue", "high-fever"},
	}
	for _, in := range inputs {
		res := v.Validate(in)
		assert.Equal(t, len(NormalizeList(in)), len(res.Valid)+len(res.Invalid), "%v", in)
		for _, s := range res.Valid {
			assert.NotContains(t, res.Invalid, s)
		}
	}
}

func TestValidator_EmptyInputEncodesAsArrays(t *testing.T) {
	res := NewValidator(newTestVocab(t)).Validate(nil)
	assert.True(t, res.AllValid)
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":[],"invalid":[],"all_valid":true}`, string(data))
}

func TestLimits_ApplyDefaults(t *testing.T) {
	var l Limits
	l.ApplyDefaults()
	assert.Equal(t, Limits{MaxSymptomLength: 100, MaxSymptoms: 20, MaxTextLength: 1000}, l)
}

func TestLimits_SanitizeSymptoms(t *testing.T) {
	var l Limits
	got, err := l.SanitizeSymptoms([]string{
		" Skin  Rash ",
		"cough; DROP TABLE",
		strings.Repeat("a", 101),
		"__itching__",
		"itching",
		"",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"skin_rash", "itching"}, got)

	_, err = Limits{MaxSymptoms: 2}.SanitizeSymptoms([]string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestLimits_SanitizeText(t *testing.T) {
	l := Limits{MaxTextLength: 10}
	got, err := l.SanitizeText("  cough  ")
	require.NoError(t, err)
	assert.Equal(t, "cough", got)

	_, err = l.SanitizeText("a much longer description")
	assert.ErrorIs(t, err, ErrInputTooLarge)
}
