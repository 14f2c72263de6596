// Package circuitbreaker implements the circuit breaker pattern. The
// matching engine wraps its availability lookups with one so a sick
// database index cannot slow every ranking request to a crawl.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State of the breaker.
type State int

const (
	// StateClosed - normal operation, calls pass through.
	StateClosed State = iota
	// StateOpen - calls are refused without being attempted.
	StateOpen
	// StateHalfOpen - a probe call is allowed to test recovery.
	StateHalfOpen
)

// String returns the state name.
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

var (
	// ErrCircuitOpen is returned when the breaker refuses a call.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrTooManyRequests is returned when the half-open probe slot is taken.
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Config tunes a breaker.
type Config struct {
	// Name identifies the breaker in logs.
	Name string

	// FailureThreshold - consecutive failures before opening.
	FailureThreshold int

	// SuccessThreshold - consecutive half-open successes before closing.
	SuccessThreshold int

	// Timeout - how long to stay open before probing.
	Timeout time.Duration

	// OnStateChange is notified of transitions, typically a logger.
	OnStateChange func(name string, from, to State)
}

// Option configures a breaker.
type Option func(*Config)

// WithFailureThreshold sets how many consecutive failures open the circuit.
func WithFailureThreshold(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.FailureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many probe successes close the circuit.
func WithSuccessThreshold(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SuccessThreshold = n
		}
	}
}

// WithTimeout sets the open-state cooldown.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// WithOnStateChange sets the transition callback.
func WithOnStateChange(fn func(name string, from, to State)) Option {
	return func(c *Config) {
		c.OnStateChange = fn
	}
}

// CircuitBreaker guards calls to an unreliable dependency.
type CircuitBreaker struct {
	config Config

	mu            sync.Mutex
	state         State
	consecFails   int
	consecOKs     int
	lastFailure   time.Time
	probeInFlight bool
}

// New creates a breaker with defaults: 5 failures open it, 2 probe
// successes close it, 30s cooldown.
func New(name string, opts ...Option) *CircuitBreaker {
	config := Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &CircuitBreaker{config: config, state: StateClosed}
}

// Execute runs fn if the breaker allows it and records the outcome.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.allow(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.record(err)
	return err
}

// ExecuteWithFallback runs fn, calling fallback when the breaker itself
// refuses the call. Errors from fn pass through untouched.
func (cb *CircuitBreaker) ExecuteWithFallback(ctx context.Context, fn func(context.Context) error, fallback func(error) error) error {
	err := cb.Execute(ctx, fn)
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests) {
		return fallback(err)
	}
	return err
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(cb.lastFailure) >= cb.config.Timeout {
			cb.transition(StateHalfOpen)
			cb.probeInFlight = true
			return nil
		}
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probeInFlight {
			return ErrTooManyRequests
		}
		cb.probeInFlight = true
		return nil
	default:
		return ErrCircuitOpen
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probeInFlight = false

	if err != nil {
		cb.consecFails++
		cb.consecOKs = 0
		cb.lastFailure = time.Now()

		switch cb.state {
		case StateClosed:
			if cb.consecFails >= cb.config.FailureThreshold {
				cb.transition(StateOpen)
			}
		case StateHalfOpen:
			// A failed probe reopens immediately.
			cb.transition(StateOpen)
		}
		return
	}

	cb.consecOKs++
	cb.consecFails = 0
	if cb.state == StateHalfOpen && cb.consecOKs >= cb.config.SuccessThreshold {
		cb.transition(StateClosed)
	}
}

// transition assumes cb.mu is held.
func (cb *CircuitBreaker) transition(next State) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next
	cb.consecFails = 0
	cb.consecOKs = 0
	cb.probeInFlight = false

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, prev, next)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
