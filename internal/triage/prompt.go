package triage

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a clinical triage assistant. Output ONLY valid JSON with the specified keys."

const responseSchema = `Return ONLY valid JSON with keys:
{
  "differential": [{"condition":"", "probability":"high|moderate|low", "advice":""}, ...],
  "triage": "home|see-doctor|urgent|emergency",
  "confidence": "low|moderate|high",
  "explain": "short explanation 1-2 sentences"
}

Do NOT include any extra text.`

// buildUserPrompt renders a symptom report for the inference provider.
func buildUserPrompt(req CheckRequest) string {
	var b strings.Builder
	b.WriteString("Input data:\n")
	fmt.Fprintf(&b, "age: %d\n", req.Age)
	fmt.Fprintf(&b, "sex: %s\n", req.Sex)
	fmt.Fprintf(&b, "symptoms: %s\n", strings.Join(req.Symptoms, ", "))
	fmt.Fprintf(&b, "description: %s\n", req.Description)
	b.WriteString("\n")
	b.WriteString(responseSchema)
	return b.String()
}
