package quote

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/pkg/errs"
)

var ErrProposalIsNotConstructed = errors.New("proposal must be created via NewProposal or RestoreProposal")

const maxMessageLength = 2000

// Proposal is one priced offer on a custom order.
type Proposal struct {
	id                   kernel.UUID
	orderNumber          order.Number
	senderRole           kernel.Role
	quantity             int
	unitPrice            kernel.Money
	discount             pricing.DiscountPercent
	breakdown            pricing.Breakdown
	proposedDeliveryDate *time.Time
	message              string
	isFinal              bool
	createdAt            time.Time

	isConstructed bool
}

// Terms is the caller-supplied part of a proposal.
type Terms struct {
	Quantity             int
	UnitPrice            kernel.Money
	Discount             pricing.DiscountPercent
	ProposedDeliveryDate *time.Time
	Message              string
}

// NewProposal prices the terms and creates a non-final proposal.
func NewProposal(id kernel.UUID, orderNumber order.Number, sender kernel.Actor, terms Terms, now time.Time) (*Proposal, error) {
	p := &Proposal{
		id:                   id,
		orderNumber:          orderNumber,
		senderRole:           sender.Role,
		quantity:             terms.Quantity,
		unitPrice:            terms.UnitPrice,
		discount:             terms.Discount,
		proposedDeliveryDate: terms.ProposedDeliveryDate,
		message:              strings.TrimSpace(terms.Message),
		createdAt:            now,
		isConstructed:        true,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.proposedDeliveryDate != nil && p.proposedDeliveryDate.Before(now) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"proposedDeliveryDate", errors.New("delivery date is in the past"),
		)
	}

	p.breakdown = pricing.Quote(p.unitPrice, p.quantity, p.discount)
	return p, nil
}

// Snapshot is the persisted state of a proposal.
type Snapshot struct {
	ID                   kernel.UUID
	OrderNumber          order.Number
	SenderRole           kernel.Role
	Quantity             int
	UnitPrice            kernel.Money
	Discount             pricing.DiscountPercent
	Breakdown            pricing.Breakdown
	ProposedDeliveryDate *time.Time
	Message              string
	IsFinal              bool
	CreatedAt            time.Time
}

// RestoreProposal rehydrates a stored proposal. The stored breakdown must be
// what pricing derives from its terms.
func RestoreProposal(s Snapshot) (*Proposal, error) {
	p := &Proposal{
		id:                   s.ID,
		orderNumber:          s.OrderNumber,
		senderRole:           s.SenderRole,
		quantity:             s.Quantity,
		unitPrice:            s.UnitPrice,
		discount:             s.Discount,
		breakdown:            s.Breakdown,
		proposedDeliveryDate: s.ProposedDeliveryDate,
		message:              s.Message,
		isFinal:              s.IsFinal,
		createdAt:            s.CreatedAt,
		isConstructed:        true,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := p.breakdown.Validate(); err != nil {
		return nil, err
	}
	if derived := pricing.Quote(p.unitPrice, p.quantity, p.discount); !derived.Total.Equal(p.breakdown.Total) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("stored total %s differs from derived %s", p.breakdown.Total, derived.Total),
		)
	}
	return p, nil
}

func (p *Proposal) validate() error {
	var errList []error
	errList = append(errList, p.id.Validate(), p.orderNumber.Validate())
	if p.senderRole != kernel.RoleAdmin && p.senderRole != kernel.RoleCustomer {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"senderRole", fmt.Errorf("%s may not send quotes", p.senderRole),
		))
	}
	if p.quantity < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", p.quantity, 1, "unbounded"))
	}
	errList = append(errList, p.unitPrice.ValidateNonNegative("unitPrice"))
	if len(p.message) > maxMessageLength {
		errList = append(errList, errs.NewValueIsOutOfRangeError("message length", len(p.message), 0, maxMessageLength))
	}
	return errors.Join(errList...)
}

func (p *Proposal) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProposalIsNotConstructed
	}
	return nil
}

func (p *Proposal) Snapshot() Snapshot {
	return Snapshot{
		ID:                   p.id,
		OrderNumber:          p.orderNumber,
		SenderRole:           p.senderRole,
		Quantity:             p.quantity,
		UnitPrice:            p.unitPrice,
		Discount:             p.discount,
		Breakdown:            p.breakdown,
		ProposedDeliveryDate: p.proposedDeliveryDate,
		Message:              p.message,
		IsFinal:              p.isFinal,
		CreatedAt:            p.createdAt,
	}
}

func (p *Proposal) ID() kernel.UUID {
	return p.id
}

func (p *Proposal) OrderNumber() order.Number {
	return p.orderNumber
}

func (p *Proposal) SenderRole() kernel.Role {
	return p.senderRole
}

func (p *Proposal) Breakdown() pricing.Breakdown {
	return p.breakdown
}

func (p *Proposal) IsFinal() bool {
	return p.isFinal
}

func (p *Proposal) CreatedAt() time.Time {
	return p.createdAt
}

// CounterParty is the role notified about this proposal.
func (p *Proposal) CounterParty() kernel.Role {
	if p.senderRole == kernel.RoleAdmin {
		return kernel.RoleCustomer
	}
	return kernel.RoleAdmin
}

// CanBeAcceptedBy applies the acceptance policy: admins may accept any
// proposal, customers only those sent by an admin.
func (p *Proposal) CanBeAcceptedBy(actor kernel.Actor) error {
	switch actor.Role {
	case kernel.RoleAdmin:
		return nil
	case kernel.RoleCustomer:
		if p.senderRole == kernel.RoleAdmin {
			return nil
		}
		return errs.NewInvalidTransitionErrorWithCause(
			"proposed", "accepted", errors.New("customers may only accept proposals sent by an admin"),
		)
	default:
		return errs.NewInvalidTransitionErrorWithCause(
			"proposed", "accepted", fmt.Errorf("role %s may not accept proposals", actor.Role),
		)
	}
}

// Terms returns what acceptance copies onto the order.
func (p *Proposal) Terms() order.AcceptedTerms {
	return order.AcceptedTerms{
		QuoteID:   p.id,
		Quantity:  p.quantity,
		UnitPrice: p.unitPrice,
		Discount:  p.discount,
	}
}

// MarkFinal flags the proposal as the accepted one.
func (p *Proposal) MarkFinal() {
	p.isFinal = true
}

// ClearFinal is applied to a previously accepted proposal when a newer one
// supersedes it.
func (p *Proposal) ClearFinal() {
	p.isFinal = false
}
