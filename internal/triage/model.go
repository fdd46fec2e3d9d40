package triage

import (
	"errors"
	"time"
)

// Triage levels, least to most urgent.
const (
	TriageHome      = "home"
	TriageSeeDoctor = "see-doctor"
	TriageUrgent    = "urgent"
	TriageEmergency = "emergency"
)

// Sources for a persisted check result.
const (
	SourceRedFlag = "red-flag"
	SourceLLM     = "llm"
)

// CheckRequest is a symptom report submitted for triage.
type CheckRequest struct {
	Age         int      `json:"age" bson:"age"`
	Sex         string   `json:"sex" bson:"sex"`
	Symptoms    []string `json:"symptoms" bson:"symptoms"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
}

func (r *CheckRequest) Validate() error {
	if len(r.Symptoms) == 0 {
		return ErrNoSymptoms
	}
	return nil
}

// Probability and confidence buckets the inference contract allows.
const (
	LevelLow      = "low"
	LevelModerate = "moderate"
	LevelHigh     = "high"
)

// Condition is one entry in the differential diagnosis.
type Condition struct {
	Condition   string `json:"condition" bson:"condition"`
	Probability string `json:"probability" bson:"probability"`
	Advice      string `json:"advice" bson:"advice"`
}

// Result is the structured triage outcome, whether produced by the
// red-flag rules or by the inference provider.
type Result struct {
	Differential []Condition `json:"differential" bson:"differential"`
	Triage       string      `json:"triage" bson:"triage"`
	Confidence   string      `json:"confidence" bson:"confidence"`
	Explain      string      `json:"explain" bson:"explain"`
}

// SymptomCheck is the full persisted interaction.
type SymptomCheck struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	UserID    string       `json:"user_id" bson:"user_id"`
	Input     CheckRequest `json:"input" bson:"input"`
	Result    Result       `json:"result" bson:"result"`
	Source    string       `json:"source" bson:"source"`
	RawOutput string       `json:"-" bson:"raw_output,omitempty"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}

var (
	ErrNoSymptoms = errors.New("at least one symptom is required")
	ErrInference  = errors.New("inference produced no usable triage result")
)
