package utils

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is cooling down.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker trips after a run of consecutive failures and rejects
// calls for a cooldown period, then lets the next call probe the
// downstream. It guards best-effort side channels, so callers treat a
// rejection like any other publish failure.
type CircuitBreaker struct {
	name      string
	threshold uint32
	cooldown  time.Duration

	mu       sync.Mutex
	failures uint32
	openedAt time.Time
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:      name,
		threshold: 5,
		cooldown:  30 * time.Second,
	}
}

// Do runs fn unless the breaker is open. A success closes the breaker, a
// failure counts toward tripping it.
func (cb *CircuitBreaker) Do(fn func() error) error {
	cb.mu.Lock()
	if cb.failures >= cb.threshold {
		if time.Since(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		// Cooldown elapsed; let this call probe.
		cb.failures = cb.threshold - 1
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		if cb.failures >= cb.threshold {
			cb.openedAt = time.Now()
		}
		return err
	}
	cb.failures = 0
	return nil
}

// Name identifies the breaker in logs.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
