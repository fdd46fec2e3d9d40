package triage

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerClient guards an LLM client with a circuit breaker so a failing
// provider sheds load quickly instead of burning the request timeout.
type BreakerClient struct {
	inner   LLMClient
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerClient(inner LLMClient) *BreakerClient {
	settings := gobreaker.Settings{
		Name:    "triage-llm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BreakerClient{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *BreakerClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.inner.Complete(ctx, req)
	})
	if err != nil {
		return LLMResponse{}, err
	}
	return result.(LLMResponse), nil
}
