package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrCircuitHalfOpen = errors.New("circuit breaker is half-open (probe in flight)")
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type CircuitBreaker struct {
	name          string
	mu            sync.Mutex
	state         State
	failureCount  int
	lastErrorTime time.Time
	threshold     int
	timeout       time.Duration
}

func NewCircuitBreaker(name string, threshold int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:      name,
		state:     StateClosed,
		threshold: threshold,
		timeout:   timeout,
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Execute runs action unless the breaker is open. After timeout an open
// breaker lets exactly one probe through; callers arriving during the probe
// are rejected. A failure after ctx is done means the caller gave up, which
// says nothing about the backend: counters stay as they were, and a
// cancelled probe returns the breaker to open so the next caller probes.
func (cb *CircuitBreaker) Execute(ctx context.Context, action func() error) error {
	cb.mu.Lock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.lastErrorTime) > cb.timeout {
			cb.state = StateHalfOpen
		} else {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
	case StateHalfOpen:
		cb.mu.Unlock()
		return ErrCircuitHalfOpen
	}

	cb.mu.Unlock()

	err := action()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			if cb.state == StateHalfOpen {
				cb.state = StateOpen
			}
			return err
		}

		var perm *PermanentError
		if errors.As(err, &perm) && cb.state == StateClosed {
			return err
		}

		cb.failureCount++
		cb.lastErrorTime = time.Now()

		if cb.failureCount >= cb.threshold || cb.state == StateHalfOpen {
			cb.state = StateOpen
			slog.Warn("Circuit Breaker OPENED", "breaker", cb.name, "failures", cb.failureCount)
		}
		return err
	}

	if cb.state == StateHalfOpen {
		slog.Info("Circuit Breaker RECOVERED", "breaker", cb.name)
	}
	cb.failureCount = 0
	cb.state = StateClosed

	return nil
}
