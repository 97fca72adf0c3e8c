package commands

import (
	"context"
	"fmt"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
	"empi/internal/pkg/metrics"

	"github.com/rs/zerolog"
)

// Notification event names.
const (
	NotifyOrderCreated       = "order.created"
	NotifyOrderApproved      = "order.approved"
	NotifyProductionStarted  = "order.in_production"
	NotifyOrderReady         = "order.ready"
	NotifyOrderHandedOff     = "order.handed_off"
	NotifyOrderCompleted     = "order.completed"
	NotifyRefundDue          = "order.refund_due"
	NotifyOrderRejected      = "order.rejected"
	NotifyProofUploaded      = "payment.proof_uploaded"
	NotifyPaymentVerified    = "payment.verified"
	NotifyDeadlineSet        = "order.deadline_set"
	NotifyDeadlinePassed     = "order.deadline_passed"
	NotifyQuoteSubmitted     = "quote.submitted"
	NotifyQuoteAccepted      = "quote.accepted"
	NotifyVATPeriodSubmitted = "vat.period_submitted"
)

// EventPublisher turns committed order events into notifications and
// metrics. Delivery failures never fail a command: they are logged, counted
// and returned as warnings.
type EventPublisher struct {
	notifier ports.Notifier
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewEventPublisher(notifier ports.Notifier, timeout time.Duration, logger zerolog.Logger) *EventPublisher {
	return &EventPublisher{
		notifier: notifier,
		timeout:  timeout,
		logger:   logger.With().Str("component", "event_publisher").Logger(),
	}
}

// PublishOrderEvents records metrics for status changes and sends one
// notification per notifiable event.
func (p *EventPublisher) PublishOrderEvents(ctx context.Context, events []order.Event) []string {
	var warnings []string
	for _, e := range events {
		if e.Kind == order.EventStatusChanged {
			metrics.OrderTransitionsTotal.WithLabelValues(e.From.String(), e.To.String()).Inc()
		}
		for _, n := range notificationsFor(e) {
			if w := p.Notify(ctx, n); w != "" {
				warnings = append(warnings, w)
			}
		}
	}
	return warnings
}

// Notify sends n with the configured timeout. It returns a warning message
// when delivery failed and an empty string otherwise.
func (p *EventPublisher) Notify(ctx context.Context, n ports.Notification) string {
	if p == nil || p.notifier == nil {
		return ""
	}

	notifyCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		notifyCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.notifier.Notify(notifyCtx, n); err != nil {
		metrics.NotificationsFailedTotal.WithLabelValues(n.Event).Inc()
		p.logger.Warn().
			Err(err).
			Str("event", n.Event).
			Str("order_number", n.OrderNumber.String()).
			Str("recipient", n.RecipientRole.String()).
			Msg("notification not delivered")
		return fmt.Sprintf("notification %s to %s was not delivered", n.Event, n.RecipientRole)
	}
	return ""
}

func notificationsFor(e order.Event) []ports.Notification {
	base := ports.Notification{OrderNumber: e.OrderNumber, Amount: e.Total}
	with := func(event string, to kernel.Role, details map[string]string) ports.Notification {
		n := base
		n.Event = event
		n.RecipientRole = to
		n.Details = details
		return n
	}

	switch e.Kind {
	case order.EventCreated:
		return []ports.Notification{with(NotifyOrderCreated, kernel.RoleAdmin, map[string]string{"origin": e.Origin.String()})}
	case order.EventPaymentProofAttached:
		return []ports.Notification{with(NotifyProofUploaded, kernel.RoleAdmin, map[string]string{"ref": e.Note})}
	case order.EventPaymentVerified:
		return []ports.Notification{with(NotifyPaymentVerified, kernel.RoleCustomer, map[string]string{"verifiedBy": e.Actor.ID})}
	case order.EventTimerSet:
		return []ports.Notification{with(NotifyDeadlineSet, kernel.RoleCustomer, map[string]string{"deadline": e.Note})}
	case order.EventHandedOff:
		return []ports.Notification{with(NotifyOrderHandedOff, kernel.RoleLogistics, nil)}
	case order.EventQuoteAccepted:
		to := kernel.RoleAdmin
		if e.Actor.Role == kernel.RoleAdmin {
			to = kernel.RoleCustomer
		}
		return []ports.Notification{with(NotifyQuoteAccepted, to, map[string]string{"quoteId": e.Note})}
	case order.EventStatusChanged:
		switch e.To {
		case order.Approved:
			return []ports.Notification{with(NotifyOrderApproved, kernel.RoleCustomer, nil)}
		case order.InProgress:
			return []ports.Notification{with(NotifyProductionStarted, kernel.RoleCustomer, nil)}
		case order.Ready:
			return []ports.Notification{with(NotifyOrderReady, kernel.RoleCustomer, nil)}
		case order.Completed:
			return []ports.Notification{with(NotifyOrderCompleted, kernel.RoleCustomer, nil)}
		case order.Cancelled:
			return []ports.Notification{
				with(NotifyRefundDue, kernel.RoleCustomer, map[string]string{"from": e.From.String()}),
				with(NotifyRefundDue, kernel.RoleAdmin, map[string]string{"from": e.From.String()}),
			}
		case order.Rejected:
			return []ports.Notification{with(NotifyOrderRejected, kernel.RoleCustomer, nil)}
		}
	}
	return nil
}
