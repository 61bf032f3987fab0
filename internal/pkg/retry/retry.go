// Package retry provides a small exponential-backoff helper for flaky
// external calls (model endpoint, shell probes).
package retry

import (
	"context"
	"time"
)

// Options controls Do's behavior.
type Options struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// Factor multiplies the delay after each failed attempt.
	Factor float64
}

// Defaults returns the standard retry policy: two retries with a doubling
// one-second backoff.
func Defaults() Options {
	return Options{MaxRetries: 2, InitialDelay: time.Second, Factor: 2.0}
}

// Do runs fn until it succeeds, the retry budget is exhausted or the context
// is canceled. It returns the last error on exhaustion.
func Do(ctx context.Context, opts Options, fn func() error) error {
	if opts.Factor <= 0 {
		opts.Factor = 2.0
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = time.Second
	}

	delay := opts.InitialDelay
	var err error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * opts.Factor)
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
