package triage

import "strings"

// redFlagRule matches when every allOf phrase is present and, if anyOf is
// non-empty, at least one of those phrases is present too.
type redFlagRule struct {
	reason string
	allOf  []string
	anyOf  []string
}

var redFlagRules = []redFlagRule{
	{reason: "possible cardiac event", allOf: []string{"chest pain"}, anyOf: []string{"breath", "shortness"}},
	{reason: "severe trauma", anyOf: []string{"severe bleeding", "unconscious"}},
	{reason: "possible stroke", anyOf: []string{"sudden slurred"}},
	{reason: "possible stroke", allOf: []string{"face", "weak"}},
}

// evaluateRedFlags scans the combined symptom text for emergency patterns.
// It returns every matched rule's reason, or ok=false when no rule fires.
func evaluateRedFlags(symptoms []string, description string) (reasons []string, ok bool) {
	text := strings.ToLower(strings.Join(symptoms, " ") + " " + description)

	seen := make(map[string]bool)
	for _, rule := range redFlagRules {
		if rule.matches(text) && !seen[rule.reason] {
			seen[rule.reason] = true
			reasons = append(reasons, rule.reason)
		}
	}
	return reasons, len(reasons) > 0
}

func (r redFlagRule) matches(text string) bool {
	for _, phrase := range r.allOf {
		if !strings.Contains(text, phrase) {
			return false
		}
	}
	if len(r.anyOf) == 0 {
		return true
	}
	for _, phrase := range r.anyOf {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
