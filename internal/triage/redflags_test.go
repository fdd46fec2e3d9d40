package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedFlagRules(t *testing.T) {
	cases := []struct {
		name        string
		symptoms    []string
		description string
		flagged     bool
	}{
		{"chest pain with shortness of breath", []string{"chest pain", "shortness of breath"}, "", true},
		{"chest pain with trouble breathing", []string{"chest pain"}, "trouble catching my breath", true},
		{"chest pain alone", []string{"chest pain"}, "", false},
		{"severe bleeding", []string{"severe bleeding from leg"}, "", true},
		{"unconscious", []string{"fainted"}, "found unconscious briefly", true},
		{"sudden slurred speech", []string{"sudden slurred speech"}, "", true},
		{"face droop with weakness", []string{"face drooping"}, "left arm feels weak", true},
		{"face mention alone", []string{"rash on face"}, "", false},
		{"runny nose", []string{"runny nose"}, "", false},
		{"empty-ish", []string{"tired"}, "mild headache", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, flagged := evaluateRedFlags(tc.symptoms, tc.description)
			assert.Equal(t, tc.flagged, flagged)
		})
	}
}

func TestRedFlagsCollectEveryMatchedReason(t *testing.T) {
	reasons, flagged := evaluateRedFlags(
		[]string{"chest pain", "shortness of breath", "severe bleeding"},
		"sudden slurred speech, face drooping and weak",
	)
	assert.True(t, flagged)
	assert.Equal(t, []string{"possible cardiac event", "severe trauma", "possible stroke"}, reasons)
}

func TestRedFlagsSingleMatchReason(t *testing.T) {
	reasons, flagged := evaluateRedFlags([]string{"severe bleeding"}, "")
	assert.True(t, flagged)
	assert.Equal(t, []string{"severe trauma"}, reasons)
}
