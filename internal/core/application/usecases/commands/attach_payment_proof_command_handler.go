package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
	"empi/internal/pkg/errs"
)

// AttachPaymentProofCommandHandler stores the proof, then records its
// reference on the order. A pending regular order is approved on upload when
// autoApprove is set.
type AttachPaymentProofCommandHandler struct {
	mutator     orderMutator
	evidence    ports.PaymentEvidenceStore
	timeout     time.Duration
	autoApprove bool
}

// NewAttachPaymentProofCommandHandler bounds each evidence upload by timeout.
// autoApprove lets a regular order move to approved on upload.
func NewAttachPaymentProofCommandHandler(
	uowFactory OrderUoWFactory,
	evidence ports.PaymentEvidenceStore,
	publisher *EventPublisher,
	clock ports.Clock,
	timeout time.Duration,
	autoApprove bool,
) AttachPaymentProofCommandHandler {
	return AttachPaymentProofCommandHandler{
		mutator:     newOrderMutator(uowFactory, publisher, clock),
		evidence:    evidence,
		timeout:     timeout,
		autoApprove: autoApprove,
	}
}

// Handle stores the proof and records it on the order. Upload alone never
// verifies the payment.
func (h *AttachPaymentProofCommandHandler) Handle(ctx context.Context, cmd AttachPaymentProofCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	ref, err := h.store(ctx, cmd)
	if err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return o.AttachPaymentProof(ref, h.autoApprove, now)
	})
}

func (h *AttachPaymentProofCommandHandler) store(ctx context.Context, cmd AttachPaymentProofCommand) (string, error) {
	storeCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		storeCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	ref, err := h.evidence.Put(storeCtx, cmd.Number(), cmd.ContentType(), cmd.Blob())
	if err != nil {
		return "", errs.NewUpstreamDependencyError("paymentEvidenceStore", err)
	}
	return ref, nil
}
