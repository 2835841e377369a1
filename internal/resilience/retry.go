// Package resilience wraps fallible remote calls with bounded
// exponential-backoff retry and a transient-error taxonomy.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls retry behavior for a single call site.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first
	// failure. 0 means fail on the first error. Default: 3.
	MaxRetries int

	// BaseDelay is the wait before the first retry. Default: 1s.
	BaseDelay time.Duration

	// MaxDelay caps the computed backoff. Default: 60s.
	MaxDelay time.Duration

	// Factor scales the delay after each retry. Default: 2.0.
	Factor float64

	// JitterFraction randomizes each delay by ±fraction. Default: 0,
	// so the backoff schedule doubles deterministically.
	JitterFraction float64

	// ShouldRetry overrides the default transient-error check.
	// If nil, IsTransient is used.
	ShouldRetry func(err error) bool

	// OnRetry is called before each retry sleep with the attempt number
	// (1-based) and the computed delay.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns the standard retry policy for API calls.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   60 * time.Second,
		Factor:     2.0,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 60 * time.Second
	}
	if p.Factor <= 0 {
		p.Factor = 2.0
	}
	if p.JitterFraction < 0 {
		p.JitterFraction = 0
	}
	return p
}

// Do executes fn, retrying transient failures per the policy. Non-transient
// errors propagate immediately. After exhausting retries the last error is
// returned. Context cancellation stops further attempts.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for operations that return a value.
func DoVal[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	shouldRetry := p.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}
		if !shouldRetry(lastErr) {
			return zero, lastErr
		}
		if attempt == p.MaxRetries {
			break
		}

		delay := p.backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, lastErr)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, lastErr
}

func (p Policy) backoff(attempt int) time.Duration {
	delay := float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if p.JitterFraction > 0 {
		jitter := delay * p.JitterFraction
		delay += (rand.Float64()*2 - 1) * jitter
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// Logged returns a copy of the policy that logs each retry attempt with the
// service and operation names.
func (p Policy) Logged(service, operation string) Policy {
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}
	return p
}
