package notification

import (
	"context"
	"time"

	"empi/internal/core/ports"

	"github.com/rs/zerolog"
)

// LogNotifier writes notifications to the service log. It is the default
// transport and never fails.
type LogNotifier struct {
	logger zerolog.Logger
	now    func() time.Time
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger.With().Str("component", "notifier").Logger(),
		now:    time.Now,
	}
}

func (n *LogNotifier) Notify(_ context.Context, notification ports.Notification) error {
	msg := NewMessage(notification, n.now())
	n.logger.Info().
		Str("event", msg.Event).
		Str("recipient", msg.RecipientRole).
		Str("order_number", msg.OrderNumber).
		Str("amount", msg.Amount).
		Interface("details", msg.Details).
		Msg("notification")
	return nil
}
