package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
	"empi/internal/pkg/errs"
)

// OverdueReport lists the orders that were reported.
type OverdueReport struct {
	Orders   []order.Number
	Warnings []string
}

// NotifyOverdueOrdersCommandHandler reports each passed deadline once. The
// notice marker is committed before the notification goes out, so a deadline
// missed by skipped runs is still reported on the next one.
type NotifyOverdueOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  *EventPublisher
	clock      ports.Clock
}

// NewNotifyOverdueOrdersCommandHandler falls back to the system clock when
// clock is nil.
func NewNotifyOverdueOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) NotifyOverdueOrdersCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return NotifyOverdueOrdersCommandHandler{uowFactory: uowFactory, publisher: publisher, clock: clock}
}

// Handle marks and reports every overdue order not yet reported. Failed
// notifications come back as warnings.
func (h *NotifyOverdueOrdersCommandHandler) Handle(ctx context.Context, cmd NotifyOverdueOrdersCommand) (OverdueReport, error) {
	if err := cmd.Validate(); err != nil {
		return OverdueReport{}, err
	}

	now := h.clock.Now()
	overdue, err := h.load(ctx, now)
	if err != nil {
		return OverdueReport{}, err
	}

	var report OverdueReport
	for _, o := range overdue {
		deadline := o.Timer().Deadline()
		if cmd.Lookback() > 0 && deadline.Before(now.Add(-cmd.Lookback())) {
			continue
		}

		if err := h.markNotified(ctx, o, now); err != nil {
			if errors.Is(err, errs.ErrConcurrentModification) {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("order %s changed while its deadline was reported; retrying next run", o.Number()))
				continue
			}
			return report, err
		}

		report.Orders = append(report.Orders, o.Number())
		if w := h.publisher.Notify(ctx, ports.Notification{
			Event:         NotifyDeadlinePassed,
			RecipientRole: kernel.RoleAdmin,
			OrderNumber:   o.Number(),
			Amount:        o.Total(),
			Details:       map[string]string{"deadline": deadline.UTC().Format(time.RFC3339)},
		}); w != "" {
			report.Warnings = append(report.Warnings, w)
		}
	}
	return report, nil
}

func (h *NotifyOverdueOrdersCommandHandler) load(ctx context.Context, now time.Time) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().ListOverdue(ctx, now)
}

func (h *NotifyOverdueOrdersCommandHandler) markNotified(ctx context.Context, o *order.Order, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := o.MarkOverdueNotified(now); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
