package services

import (
	"errors"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/pkg/errs"
)

// HandoffCoordinator moves finished work from production to logistics.
// Nothing reaches logistics until an admin has verified its payment; an
// uploaded proof alone is not enough.
type HandoffCoordinator struct{}

// NewHandoffCoordinator returns the stateless coordinator.
func NewHandoffCoordinator() HandoffCoordinator {
	return HandoffCoordinator{}
}

// Handoff marks o ready and assigns it to logistics in one step.
func (HandoffCoordinator) Handoff(o *order.Order, actor kernel.Actor, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.IsActive() {
		return errs.NewObjectNotFoundError("orderNumber", o.Number())
	}
	if !o.Payment().Verified {
		return errs.NewInvalidTransitionErrorWithCause(
			o.Status().String(), order.Ready.String(), errors.New("payment is not verified"),
		)
	}
	if err := o.MarkReady(actor, now); err != nil {
		return err
	}
	if !o.IsReadyForDelivery() {
		return errs.NewInvalidTransitionError(o.Status().String(), order.Ready.String())
	}
	return nil
}
