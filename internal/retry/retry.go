// SPDX-License-Identifier: Apache-2.0

// Package retry provides a single parameterized backoff primitive shared by
// every at-most-3-attempt operation in the loader (PUT upload, COPY INTO):
// base 1s, min 4s, max 60s, matching the Python implementation's
// tenacity.retry(stop_after_attempt(3), wait_exponential(multiplier=1, min=4, max=60)).
package retry

import (
	"context"
	"time"

	"github.com/cloudflare/backoff"
)

const (
	maxAttempts = 3
	baseWait    = 1 * time.Second
	minWait     = 4 * time.Second
	maxWait     = 60 * time.Second
)

// Retryable reports whether an error returned by the operation should be
// retried. Operations that fail for a non-retryable reason return
// immediately on the first attempt.
type Retryable func(err error) bool

// Do runs op up to maxAttempts times, waiting an exponentially increasing
// delay (bounded by [minWait, maxWait]) between attempts for which
// retryable(err) is true. It returns the last error if every attempt fails.
func Do(ctx context.Context, retryable Retryable, op func(ctx context.Context) error) error {
	b := backoff.NewWithoutJitter(maxWait, baseWait)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts || !retryable(lastErr) {
			return lastErr
		}

		wait := b.Duration()
		if wait < minWait {
			wait = minWait
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}
