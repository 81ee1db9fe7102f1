package resilience

import (
	"sync"
	"time"

	"github.com/foodworks/orderflow/core"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
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

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// Name identifies the breaker in logs
	Name string

	// FailureThreshold consecutive failures open the circuit
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before a
	// half-open probe is allowed
	RecoveryTimeout time.Duration

	// HalfOpenMax caps concurrent probes while half-open
	HalfOpenMax int
}

// DefaultCircuitBreakerConfig provides sensible defaults.
func DefaultCircuitBreakerConfig(name string) *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		HalfOpenMax:      1,
	}
}

// CircuitBreaker prevents hammering an unhealthy backend. State is
// evaluated on consecutive failures; only transport errors count
// against the circuit.
type CircuitBreaker struct {
	config *CircuitBreakerConfig
	logger core.Logger

	mu               sync.Mutex
	state            CircuitState
	failures         int
	openedAt         time.Time
	halfOpenInFlight int
}

// NewCircuitBreaker creates a circuit breaker in the closed state.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig("default")
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 30 * time.Second
	}
	if config.HalfOpenMax <= 0 {
		config.HalfOpenMax = 1
	}
	return &CircuitBreaker{
		config: config,
		logger: &core.NoOpLogger{},
		state:  StateClosed,
	}
}

// SetLogger configures the logger for this breaker.
func (cb *CircuitBreaker) SetLogger(logger core.Logger) {
	if logger != nil {
		cb.logger = logger
	}
}

// CanExecute reports whether a call may proceed, reserving a probe slot
// when half-open.
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.openedAt) >= cb.config.RecoveryTimeout {
			cb.transition(StateHalfOpen)
			cb.halfOpenInFlight = 1
			return true
		}
		return false
	case StateHalfOpen:
		if cb.halfOpenInFlight < cb.config.HalfOpenMax {
			cb.halfOpenInFlight++
			return true
		}
		return false
	}
	return false
}

// RecordSuccess records a successful call.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	if cb.state != StateClosed {
		cb.transition(StateClosed)
	}
	cb.halfOpenInFlight = 0
}

// RecordFailure records a failed call.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.config.FailureThreshold {
		if cb.state != StateOpen {
			cb.transition(StateOpen)
		}
		cb.openedAt = time.Now()
		cb.halfOpenInFlight = 0
	}
}

// Execute runs fn under the breaker. Rejected calls return
// core.ErrCircuitOpen without invoking fn. Only transport errors count
// as breaker failures; a not-found or integrity error proves the
// backend is reachable.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.CanExecute() {
		return core.ErrCircuitOpen
	}

	err := fn()
	if err != nil && core.IsTransport(err) {
		cb.RecordFailure()
		return err
	}

	cb.RecordSuccess()
	return err
}

// State returns the current state name.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state.String()
}

// Reset forces the breaker back to closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.halfOpenInFlight = 0
	if cb.state != StateClosed {
		cb.transition(StateClosed)
	}
}

// transition changes state; callers must hold the lock.
func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	cb.state = to
	cb.logger.Info("Circuit breaker state change", map[string]interface{}{
		"name": cb.config.Name,
		"from": from.String(),
		"to":   to.String(),
	})
}
