package service

import (
	"context"
	"time"
)

// RetryPolicy is an explicit retry contract: up to MaxAttempts calls with a
// fixed Delay between them. It is independent of any particular transport.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do calls op until it succeeds or attempts are exhausted, waiting Delay
// between attempts. The wait is interruptible by context cancellation
// (session teardown), in which case the last error is returned.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return err
		}
	}

	return err
}
