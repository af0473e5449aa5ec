package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/projectziio/ziio-ai/pkg/logger"
	"github.com/sony/gobreaker"
)

// breakerSet lazily creates one circuit breaker per model name.
type breakerSet struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func newBreakerSet() *breakerSet {
	return &breakerSet{breakers: map[string]*gobreaker.CircuitBreaker{}}
}

func (s *breakerSet) get(model string) *gobreaker.CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cb, ok := s.breakers[model]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        model,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("llm: circuit breaker %q changed from %s to %s", name, from.String(), to.String())
		},
	})
	s.breakers[model] = cb
	return cb
}

// execute runs fn through the model's breaker. An open breaker is reported as
// a 503 so the caller's fallback model is tried.
func (s *breakerSet) execute(model string, fn func() (interface{}, error)) (interface{}, error) {
	out, err := s.get(model).Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &APIError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    fmt.Sprintf("model temporarily disabled: %v", err),
			Model:      model,
		}
	}
	return out, err
}

// countsAsFailure: transport errors, 5xx and 429 trip the breaker; client
// errors (bad request, auth) and caller cancellation do not.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrMissingAPIKey) {
		return false
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode >= 500 || ae.StatusCode == http.StatusTooManyRequests
	}
	return true
}
