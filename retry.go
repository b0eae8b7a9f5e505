package pqm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/theapemachine/errnie"
)

// RetryPolicy defines retry behavior
type RetryPolicy struct {
	MaxAttempts int
	Strategy    RetryStrategy
	Filter      func(error) bool
}

// RetryStrategy defines the interface for retry behavior
type RetryStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff implements RetryStrategy
type ExponentialBackoff struct {
	Initial time.Duration
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	return eb.Initial * time.Duration(math.Pow(2, float64(attempt-1)))
}

/*
RetryingBackend wraps a Backend with retries, job metrics and, when
configured, a circuit breaker and a submission rate limit. Validation errors from the circuits themselves are returned on the
first attempt, since running the same circuits again cannot fix them.
*/
type RetryingBackend struct {
	backend Backend
	policy  *RetryPolicy
	breaker *CircuitBreaker
	limiter *RateLimiter
	metrics *Metrics
}

// BackendOption configures a RetryingBackend.
type BackendOption func(*RetryingBackend)

// WithRetry configures retry behavior for a backend
func WithRetry(attempts int, strategy RetryStrategy) BackendOption {
	return func(rb *RetryingBackend) {
		rb.policy = &RetryPolicy{
			MaxAttempts: attempts,
			Strategy:    strategy,
			Filter:      rb.policy.Filter,
		}
	}
}

// WithRetryFilter replaces the decision of which errors are worth retrying.
func WithRetryFilter(filter func(error) bool) BackendOption {
	return func(rb *RetryingBackend) {
		rb.policy.Filter = filter
	}
}

// WithCircuitBreaker configures circuit breaker for a backend
func WithCircuitBreaker(maxFailures int, resetTimeout time.Duration, halfOpenMax int) BackendOption {
	return func(rb *RetryingBackend) {
		rb.breaker = NewCircuitBreaker(maxFailures, resetTimeout, halfOpenMax)
	}
}

// WithRateLimit allows bursts of maxJobs submissions and one more per interval.
func WithRateLimit(maxJobs int, interval time.Duration) BackendOption {
	return func(rb *RetryingBackend) {
		rb.limiter = NewRateLimiter(maxJobs, interval)
	}
}

// WithMetrics shares a metrics collector between backends.
func WithMetrics(metrics *Metrics) BackendOption {
	return func(rb *RetryingBackend) {
		rb.metrics = metrics
	}
}

func NewRetryingBackend(backend Backend, opts ...BackendOption) *RetryingBackend {
	rb := &RetryingBackend{
		backend: backend,
		policy: &RetryPolicy{
			MaxAttempts: 3,
			Strategy:    &ExponentialBackoff{Initial: 100 * time.Millisecond},
			Filter:      Retryable,
		},
		metrics: NewMetrics(),
	}

	for _, opt := range opts {
		opt(rb)
	}

	return rb
}

func (rb *RetryingBackend) Name() string {
	return rb.backend.Name()
}

func (rb *RetryingBackend) Metrics() *Metrics {
	return rb.metrics
}

func (rb *RetryingBackend) Breaker() *CircuitBreaker {
	return rb.breaker
}

func (rb *RetryingBackend) Run(ctx context.Context, circuits []*Circuit, shots int) (*Result, error) {
	attempts := rb.policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if rb.breaker != nil && !rb.breaker.Allow() {
			rb.metrics.recordRejection()
			return nil, fmt.Errorf("%w for backend %s", ErrCircuitOpen, rb.Name())
		}

		if rb.limiter != nil {
			if err := rb.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		startTime := time.Now()
		result, err := rb.backend.Run(ctx, circuits, shots)
		rb.metrics.recordJobExecution(startTime, err == nil)

		if err == nil {
			if rb.breaker != nil {
				rb.breaker.RecordSuccess()
			}
			return result, nil
		}

		lastErr = err
		if rb.breaker != nil {
			rb.breaker.RecordFailure()
		}

		if ctx.Err() != nil {
			return nil, err
		}

		if rb.policy.Filter != nil && !rb.policy.Filter(err) {
			return nil, err
		}

		if attempt == attempts {
			break
		}

		delay := rb.policy.Strategy.NextDelay(attempt)
		errnie.Info("RetryingBackend.Run - backend %s attempt %d failed, retrying in %v: %v", rb.Name(), attempt, delay, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("all retries failed for backend %s: %w", rb.Name(), lastErr)
}

/*
Retryable reports whether an execution error may succeed on another
attempt. Precondition failures of circuits, patterns and parameters never
do, and neither does cancellation.
*/
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var (
		tooLong     *PatternTooLongError
		mismatch    *PatternLengthMismatchError
		count       *UnsupportedPatternCountError
		length      *LengthMismatchError
		param       *InvalidParameterError
		bit         *InvalidBitError
		norm        *NormalizationError
		unsupported *UnsupportedOperationError
	)

	switch {
	case errors.As(err, &tooLong), errors.As(err, &mismatch), errors.As(err, &count),
		errors.As(err, &length), errors.As(err, &param), errors.As(err, &bit),
		errors.As(err, &norm), errors.As(err, &unsupported),
		errors.Is(err, ErrInitializeNotReset):
		return false
	}

	return true
}
