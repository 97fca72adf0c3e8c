package notification

import (
	"context"
	"time"

	"empi/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

// RetryingNotifier retries a failing transport with exponential backoff
// until the caller's context expires or the attempts run out.
type RetryingNotifier struct {
	next       ports.Notifier
	newBackOff func() backoff.BackOff
}

func NewRetryingNotifier(next ports.Notifier, maxRetries uint64) *RetryingNotifier {
	return &RetryingNotifier{
		next: next,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			b.MaxInterval = time.Second
			return backoff.WithMaxRetries(b, maxRetries)
		},
	}
}

// WithBackOff replaces the retry schedule.
func (r *RetryingNotifier) WithBackOff(fn func() backoff.BackOff) *RetryingNotifier {
	r.newBackOff = fn
	return r
}

func (r *RetryingNotifier) Notify(ctx context.Context, n ports.Notification) error {
	return backoff.Retry(func() error {
		return r.next.Notify(ctx, n)
	}, backoff.WithContext(r.newBackOff(), ctx))
}
