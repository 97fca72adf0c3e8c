package commands

import (
	"context"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

// legacyVerifier is recorded as the verifier of payments confirmed in the
// previous system.
const legacyVerifier = "legacy-import"

// ImportLegacyOrderCommandHandler normalizes a legacy status and stores the
// order directly in that state. It is the only path that writes a status
// without walking the state machine. No notifications are sent.
type ImportLegacyOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	numbers    ports.OrderNumberGenerator
}

// NewImportLegacyOrderCommandHandler allocates numbers only for records that
// arrive without one.
func NewImportLegacyOrderCommandHandler(uowFactory OrderUoWFactory, numbers ports.OrderNumberGenerator) ImportLegacyOrderCommandHandler {
	return ImportLegacyOrderCommandHandler{uowFactory: uowFactory, numbers: numbers}
}

// Handle restores a legacy record as stored, with no transition checks and no
// events.
func (h *ImportLegacyOrderCommandHandler) Handle(ctx context.Context, cmd ImportLegacyOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.build(cmd)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func (h *ImportLegacyOrderCommandHandler) build(cmd ImportLegacyOrderCommand) (*order.Order, error) {
	record := cmd.Record()
	normalized, err := order.NormalizeLegacyStatus(record)
	if err != nil {
		return nil, err
	}

	number := cmd.Number()
	if number == "" {
		number = h.numbers.Next()
	}

	fresh, err := order.NewRegularOrder(number, cmd.Buyer(), cmd.Payload(), record.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s := fresh.Snapshot()
	s.Status = normalized.Status
	if s.Status == order.InProgress {
		// Cart orders have no production stage of their own.
		s.Status = order.Approved
	}
	s.CompletedAt = normalized.CompletedAt

	at := record.UpdatedAt
	if normalized.CompletedAt != nil {
		at = *normalized.CompletedAt
	}

	if normalized.PaymentVerified {
		verifiedAt := at
		if record.PaymentConfirmedAt != nil {
			verifiedAt = *record.PaymentConfirmedAt
		}
		s.Payment.Verified = true
		s.Payment.VerifiedAt = &verifiedAt
		s.Payment.VerifiedBy = legacyVerifier
	}

	switch normalized.Status {
	case order.Ready, order.Completed:
		s.Handler = order.Logistics
		s.HandoffAt = &at
	case order.Cancelled:
		s.CancelledAt = &at
	}

	return order.RestoreOrder(s)
}
