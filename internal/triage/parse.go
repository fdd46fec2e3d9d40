package triage

import (
	"encoding/json"
	"strings"
)

// extractJSONObject returns the first balanced top-level JSON object in
// text. Providers often wrap the object in prose or code fences.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// parseResult decodes the provider's text into a Result. It fails with
// ErrInference when no JSON object with a triage key can be recovered.
func parseResult(text string) (Result, error) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return Result{}, ErrInference
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return Result{}, ErrInference
	}
	if strings.TrimSpace(result.Triage) == "" {
		return Result{}, ErrInference
	}
	if result.Differential == nil {
		result.Differential = []Condition{}
	}
	return result, nil
}
