package api

import (
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed allows all fetches
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects fetches until the cool-down elapses
	CircuitOpen
	// CircuitHalfOpen lets one fetch probe the feed
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	}
	return "closed"
}

// ErrCircuitOpen is returned while a feed is considered down
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitBreaker stops hammering a feed host after repeated failures
type CircuitBreaker struct {
	maxFailures     int
	coolDown        time.Duration
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	onChange        func(CircuitState)
	mu              sync.Mutex
	clock           shared.Clock
}

// NewCircuitBreaker creates a circuit breaker; a nil clock uses the real clock
func NewCircuitBreaker(maxFailures int, coolDown time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		coolDown:    coolDown,
		state:       CircuitClosed,
		clock:       clock,
	}
}

// OnStateChange registers a callback run on every transition, under the breaker lock
func (cb *CircuitBreaker) OnStateChange(fn func(CircuitState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onChange = fn
}

// Call runs fn unless the circuit is open. fn runs without the lock held so
// retries and back-off sleeps do not block other callers.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == CircuitOpen {
		if cb.clock.Now().Sub(cb.lastFailureTime) < cb.coolDown {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.transition(CircuitHalfOpen)
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failureCount++
		cb.lastFailureTime = cb.clock.Now()
		if cb.state == CircuitHalfOpen || cb.failureCount >= cb.maxFailures {
			cb.transition(CircuitOpen)
		}
		return err
	}
	cb.failureCount = 0
	cb.transition(CircuitClosed)
	return nil
}

func (cb *CircuitBreaker) transition(state CircuitState) {
	if cb.state == state {
		return
	}
	cb.state = state
	if cb.onChange != nil {
		cb.onChange(state)
	}
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the current consecutive failure count
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount
}
