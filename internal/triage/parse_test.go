package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultPlainObject(t *testing.T) {
	text := `{"differential":[{"condition":"common cold","probability":"high","advice":"Rest and fluids."}],"triage":"home","confidence":"high","explain":"Rest and fluids."}`

	result, err := parseResult(text)
	require.NoError(t, err)
	assert.Equal(t, "home", result.Triage)
	require.Len(t, result.Differential, 1)
	assert.Equal(t, "common cold", result.Differential[0].Condition)
	assert.Equal(t, LevelHigh, result.Differential[0].Probability)
	assert.Equal(t, "Rest and fluids.", result.Differential[0].Advice)
	assert.Equal(t, LevelHigh, result.Confidence)
}

func TestParseResultWrappedInProse(t *testing.T) {
	text := "Here is my assessment:\n```json\n" +
		`{"differential":[],"triage":"see-doctor","confidence":"moderate","explain":"Worth a visit."}` +
		"\n```\nTake care!"

	result, err := parseResult(text)
	require.NoError(t, err)
	assert.Equal(t, "see-doctor", result.Triage)
}

func TestParseResultNestedBraces(t *testing.T) {
	text := `note {"triage":"urgent","confidence":"moderate","explain":"contains {braces} in \"text\"","differential":[]} trailing`

	result, err := parseResult(text)
	require.NoError(t, err)
	assert.Equal(t, "urgent", result.Triage)
}

func TestParseResultNoJSON(t *testing.T) {
	_, err := parseResult("I cannot help with that.")
	assert.ErrorIs(t, err, ErrInference)
}

func TestParseResultMissingTriageKey(t *testing.T) {
	_, err := parseResult(`{"differential":[],"confidence":"low","explain":"no level given"}`)
	assert.ErrorIs(t, err, ErrInference)
}

func TestParseResultUnbalancedObject(t *testing.T) {
	_, err := parseResult(`{"triage":"home","explain":"cut off`)
	assert.ErrorIs(t, err, ErrInference)
}
