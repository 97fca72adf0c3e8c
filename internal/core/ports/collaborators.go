package ports

import (
	"context"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
)

// PaymentEvidenceStore keeps uploaded payment proofs and returns an opaque
// reference to them.
type PaymentEvidenceStore interface {
	Put(ctx context.Context, number order.Number, contentType string, blob []byte) (string, error)
}

// Notification is an outbound message about an order.
type Notification struct {
	Event         string
	RecipientRole kernel.Role
	OrderNumber   order.Number
	Amount        kernel.Money
	Details       map[string]string
}

// Notifier delivers notifications. Failures are reported to the caller,
// which treats them as degraded success rather than failing the command.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// OrderNumberGenerator issues unique order numbers.
type OrderNumberGenerator interface {
	Next() order.Number
}

// Clock abstracts wall time for handlers and jobs.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns time.Now.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}
