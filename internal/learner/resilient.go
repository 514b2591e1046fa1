package learner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/kaina/internal/domain"
)

// ResilientStore wraps a Store with resilience patterns from fortify so
// transient persistence trouble surfaces as ErrPersistenceUnavailable
// instead of taking the drill loop down.
type ResilientStore struct {
	inner          Store
	circuitBreaker circuitbreaker.CircuitBreaker[*domain.Learner]
	retrier        retry.Retry[*domain.Learner]
}

// ResilientConfig holds configuration for the resilient store wrapper.
type ResilientConfig struct {
	// EnableCircuitBreaker enables the circuit breaker pattern.
	EnableCircuitBreaker bool

	// EnableRetry enables retry with backoff.
	EnableRetry bool

	// MaxAttempts bounds attempts per operation (default: 3).
	MaxAttempts int

	// InitialDelay is the first retry backoff step (default: 100ms).
	InitialDelay time.Duration

	// FailureThreshold is the consecutive failure count that opens the
	// breaker (default: 3).
	FailureThreshold int

	// BreakerTimeout is how long the breaker stays open before probing
	// the store again (default: 30s).
	BreakerTimeout time.Duration

	// Logger for resilience events.
	Logger *slog.Logger
}

// DefaultResilientConfig returns sensible defaults for local snapshot
// stores.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		EnableCircuitBreaker: true,
		EnableRetry:          true,
		MaxAttempts:          3,
		InitialDelay:         100 * time.Millisecond,
		FailureThreshold:     3,
		BreakerTimeout:       30 * time.Second,
	}
}

// NewResilientStore wraps a store with the configured patterns.
func NewResilientStore(inner Store, cfg ResilientConfig) *ResilientStore {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	rs := &ResilientStore{inner: inner}

	if cfg.EnableCircuitBreaker {
		rs.circuitBreaker = circuitbreaker.New[*domain.Learner](circuitbreaker.Config{
			MaxRequests: 2,
			Interval:    10 * time.Second,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return int(counts.ConsecutiveFailures) >= cfg.FailureThreshold
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				if cfg.Logger != nil {
					cfg.Logger.Warn("snapshot store circuit breaker state change",
						"from", from.String(),
						"to", to.String())
				}
			},
		})
	}

	if cfg.EnableRetry {
		rs.retrier = retry.New[*domain.Learner](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.InitialDelay,
			MaxDelay:      2 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable: func(err error) bool {
				return !errors.Is(err, domain.ErrLearnerNotFound)
			},
		})
	}

	return rs
}

// Get loads a snapshot through the protection layers. A missing learner
// is a normal outcome and does not count against the circuit breaker.
func (s *ResilientStore) Get(ctx context.Context, id string) (*domain.Learner, error) {
	var notFound bool
	l, err := s.execute(ctx, func(ctx context.Context) (*domain.Learner, error) {
		l, err := s.inner.Get(ctx, id)
		if errors.Is(err, domain.ErrLearnerNotFound) {
			notFound = true
			return nil, nil
		}
		return l, err
	})
	if notFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrLearnerNotFound, id)
	}
	if err != nil {
		return nil, persistErr("snapshot get", err)
	}
	return l, nil
}

// Save persists a snapshot through the protection layers.
func (s *ResilientStore) Save(ctx context.Context, l *domain.Learner) error {
	_, err := s.execute(ctx, func(ctx context.Context) (*domain.Learner, error) {
		return nil, s.inner.Save(ctx, l)
	})
	if err != nil {
		return persistErr("snapshot save", err)
	}
	return nil
}

// Delete removes a snapshot through the protection layers.
func (s *ResilientStore) Delete(ctx context.Context, id string) error {
	_, err := s.execute(ctx, func(ctx context.Context) (*domain.Learner, error) {
		return nil, s.inner.Delete(ctx, id)
	})
	if err != nil {
		return persistErr("snapshot delete", err)
	}
	return nil
}

func (s *ResilientStore) execute(ctx context.Context, operation func(ctx context.Context) (*domain.Learner, error)) (*domain.Learner, error) {
	if s.circuitBreaker != nil && s.retrier != nil {
		return s.circuitBreaker.Execute(ctx, func(ctx context.Context) (*domain.Learner, error) {
			return s.retrier.Do(ctx, operation)
		})
	}

	if s.circuitBreaker != nil {
		return s.circuitBreaker.Execute(ctx, operation)
	}

	if s.retrier != nil {
		return s.retrier.Do(ctx, operation)
	}

	return operation(ctx)
}
