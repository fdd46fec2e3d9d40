package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/observability/metrics"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Options tune the inference call.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	return o
}

// Service runs symptom checks: deterministic red-flag rules first, then
// the inference provider, persisting every interaction.
type Service struct {
	store   Store
	llm     LLMClient
	opts    Options
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
}

func NewService(store Store, llm LLMClient, opts Options, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, llm: llm, opts: opts.withDefaults(), metrics: m, logger: logger}
}

// Check triages a symptom report. Red-flag matches short-circuit to an
// emergency result without touching the inference provider.
func (s *Service) Check(ctx context.Context, caller auth.Principal, req CheckRequest) (*SymptomCheck, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if reasons, flagged := evaluateRedFlags(req.Symptoms, req.Description); flagged {
		check := &SymptomCheck{
			UserID: caller.ID,
			Input:  req,
			Source: SourceRedFlag,
			Result: Result{
				Differential: []Condition{},
				Triage:       TriageEmergency,
				Confidence:   LevelHigh,
				Explain:      fmt.Sprintf("Immediate red flag: %s", strings.Join(reasons, "; ")),
			},
		}
		if err := s.store.Create(ctx, check); err != nil {
			return nil, fmt.Errorf("persisting symptom check: %w", err)
		}
		s.metrics.ObserveTriageCheck("red-flag")
		s.logger.Info("red flag triage", "user_id", caller.ID, "reasons", strings.Join(reasons, "; "))
		return check, nil
	}

	result, raw, err := s.infer(ctx, req)
	if err != nil {
		s.metrics.ObserveTriageCheck("error")
		return nil, err
	}

	check := &SymptomCheck{
		UserID:    caller.ID,
		Input:     req,
		Result:    result,
		Source:    SourceLLM,
		RawOutput: raw,
	}
	if err := s.store.Create(ctx, check); err != nil {
		return nil, fmt.Errorf("persisting symptom check: %w", err)
	}
	s.metrics.ObserveTriageCheck(result.Triage)
	s.logger.Info("llm triage", "user_id", caller.ID, "triage", result.Triage)
	return check, nil
}

// History returns the caller's previous checks, newest first.
func (s *Service) History(ctx context.Context, caller auth.Principal, limit int) ([]*SymptomCheck, error) {
	return s.store.ListByUser(ctx, caller.ID, limit)
}

func (s *Service) infer(ctx context.Context, req CheckRequest) (Result, string, error) {
	llmReq := LLMRequest{
		System:      []string{systemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: buildUserPrompt(req)}},
		MaxTokens:   600,
		Temperature: 0,
	}

	var lastErr error
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		start := time.Now()
		resp, err := s.llm.Complete(attemptCtx, llmReq)
		cancel()
		s.metrics.ObserveLLMLatency(time.Since(start).Seconds())

		if err != nil {
			lastErr = err
			s.logger.Warn("inference attempt failed", "attempt", attempt+1, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		result, parseErr := parseResult(resp.Text)
		if parseErr != nil {
			return Result{}, "", parseErr
		}
		return result, resp.Text, nil
	}
	return Result{}, "", fmt.Errorf("inference failed: %w", lastErr)
}
