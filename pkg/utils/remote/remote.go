package remote

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds backing-store calls. Every call gets a per-attempt timeout;
// idempotent calls additionally get a small number of retries with
// exponential backoff. Non-idempotent calls must go through Once.
type Policy struct {
	Timeout    time.Duration
	MaxRetries uint64
}

// DefaultPolicy returns the policy applied when none is configured
func DefaultPolicy() Policy {
	return Policy{
		Timeout:    10 * time.Second,
		MaxRetries: 2,
	}
}

func (p Policy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPolicy().Timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}

// Once runs fn exactly once under the policy timeout
func (p Policy) Once(ctx context.Context, fn func(ctx context.Context) error) error {
	return p.attempt(ctx, fn)
}

// Idempotent runs fn under the policy timeout, retrying transient failures
// with exponential backoff up to MaxRetries additional attempts. fn must be
// safe to run more than once.
func (p Policy) Idempotent(ctx context.Context, fn func(ctx context.Context) error) error {
	op := func() error {
		return p.attempt(ctx, fn)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 100 * time.Millisecond
	eb.MaxInterval = 2 * time.Second

	b := backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxRetries), ctx)
	return backoff.Retry(op, b)
}

// Permanent marks an error as non-retryable inside Idempotent
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}
