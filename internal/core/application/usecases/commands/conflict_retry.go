package commands

import (
	"context"
	"errors"
	"time"

	"empi/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// DefaultConflictBackOff bounds retries after a concurrent modification.
func DefaultConflictBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return backoff.WithMaxRetries(b, 5)
}

// retryOnConflict repeats op while it fails with a version conflict. Any
// other error stops the loop at once. onRetry, when set, runs before every
// repeated attempt.
func retryOnConflict(
	ctx context.Context,
	newBackOff func() backoff.BackOff,
	op func() error,
	onRetry func(attempt int, err error),
) error {
	attempt := 0
	var last error
	operation := func() error {
		attempt++
		if attempt > 1 && onRetry != nil {
			onRetry(attempt, last)
		}

		last = op()
		if last == nil || errors.Is(last, errs.ErrConcurrentModification) {
			return last
		}
		return backoff.Permanent(last)
	}
	return backoff.Retry(operation, backoff.WithContext(newBackOff(), ctx))
}
