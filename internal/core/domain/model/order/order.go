package order

import (
	"errors"
	"fmt"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by one
	// of the constructors or by RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("order must be created via NewRegularOrder, NewCustomOrder or RestoreOrder")
)

// Order is the aggregate root of the order lifecycle. It owns the status
// machine, the production/logistics handler, payment state, the deadline
// timer and the derived monetary fields.
//
// Invariants:
//   - total == subtotal - discountAmount + vat, always recomputed by pricing
//   - handler is logistics exactly when status is ready or completed
//   - a timer exists only on custom orders
//   - soft delete never changes status or handler
type Order struct {
	number    Number
	origin    Origin
	status    Status
	handler   Handler
	handoffAt *time.Time

	buyer     Buyer
	payload   Payload
	breakdown pricing.Breakdown
	payment   Payment
	timer     *Timer

	statusNote  string
	completedAt *time.Time
	cancelledAt *time.Time

	isActive  bool
	deletedAt *time.Time

	createdAt time.Time
	updatedAt time.Time
	version   int64

	events        []Event
	isConstructed bool
}

// NewRegularOrder creates a cart checkout in pending status, priced from its
// line items.
func NewRegularOrder(number Number, buyer Buyer, payload *RegularPayload, now time.Time) (*Order, error) {
	if payload == nil {
		return nil, errs.NewValueIsRequiredError("payload")
	}
	return newOrder(number, buyer, payload, now)
}

// NewCustomOrder creates a bespoke request in pending status. It carries no
// price until a quote is accepted.
func NewCustomOrder(number Number, buyer Buyer, payload *CustomPayload, now time.Time) (*Order, error) {
	if payload == nil {
		return nil, errs.NewValueIsRequiredError("payload")
	}
	return newOrder(number, buyer, payload, now)
}

// newOrder builds the shared pending state and prices the payload.
func newOrder(number Number, buyer Buyer, payload Payload, now time.Time) (*Order, error) {
	if err := errors.Join(number.Validate(), buyer.Validate(), payload.validate()); err != nil {
		return nil, err
	}

	o := &Order{
		number:        number,
		origin:        payload.Origin(),
		status:        Pending,
		handler:       Production,
		buyer:         buyer,
		payload:       payload,
		breakdown:     payload.breakdown(),
		isActive:      true,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}
	o.record(Event{Kind: EventCreated, To: Pending, Actor: kernel.SystemActor(), At: now})
	return o, nil
}

// Snapshot is the full persisted state of an order.
type Snapshot struct {
	Number      Number
	Origin      Origin
	Status      Status
	Handler     Handler
	HandoffAt   *time.Time
	Buyer       Buyer
	Payload     Payload
	Breakdown   pricing.Breakdown
	Payment     Payment
	Timer       *Timer
	StatusNote  string
	CompletedAt *time.Time
	CancelledAt *time.Time
	IsActive    bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

// RestoreOrder rehydrates an order from storage. Stored monetary fields must
// match what pricing derives from the payload.
func RestoreOrder(s Snapshot) (*Order, error) {
	if s.Payload == nil {
		return nil, errs.NewValueIsRequiredError("payload")
	}

	var errList []error
	errList = append(errList,
		s.Number.Validate(),
		s.Origin.Validate(),
		s.Status.Validate(),
		s.Handler.Validate(),
		s.Payload.validate(),
		s.Breakdown.Validate(),
	)
	if s.Payload.Origin() != s.Origin {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"payload", fmt.Errorf("%s payload on a %s order", s.Payload.Origin(), s.Origin),
		))
	}
	if s.Timer != nil && s.Origin != Custom {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"timer", errors.New("only custom orders carry a deadline timer"),
		))
	}
	if (s.Status == Ready || s.Status == Completed) != (s.Handler == Logistics) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"currentHandler", fmt.Errorf("%s order cannot be held by %s", s.Status, s.Handler),
		))
	}
	if s.Handler == Logistics && s.HandoffAt == nil {
		errList = append(errList, errs.NewValueIsRequiredError("handoffAt"))
	}
	if s.Status == Completed && s.CompletedAt == nil {
		errList = append(errList, errs.NewValueIsRequiredError("completedAt"))
	}
	if s.IsActive == (s.DeletedAt != nil) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"deletedAt", errors.New("deletedAt must be set exactly when the order is deleted"),
		))
	}
	if s.Version < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("version", s.Version, 0, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	derived := s.Payload.breakdown()
	if !derived.Total.Equal(s.Breakdown.Total) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("stored total %s differs from derived %s", s.Breakdown.Total, derived.Total),
		)
	}

	return &Order{
		number:        s.Number,
		origin:        s.Origin,
		status:        s.Status,
		handler:       s.Handler,
		handoffAt:     s.HandoffAt,
		buyer:         s.Buyer,
		payload:       s.Payload,
		breakdown:     s.Breakdown,
		payment:       s.Payment,
		timer:         s.Timer,
		statusNote:    s.StatusNote,
		completedAt:   s.CompletedAt,
		cancelledAt:   s.CancelledAt,
		isActive:      s.IsActive,
		deletedAt:     s.DeletedAt,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		version:       s.Version,
		isConstructed: true,
	}, nil
}

// Snapshot exports the order state for persistence.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		Number:      o.number,
		Origin:      o.origin,
		Status:      o.status,
		Handler:     o.handler,
		HandoffAt:   o.handoffAt,
		Buyer:       o.buyer,
		Payload:     o.payload,
		Breakdown:   o.breakdown,
		Payment:     o.payment,
		Timer:       o.timer,
		StatusNote:  o.statusNote,
		CompletedAt: o.completedAt,
		CancelledAt: o.cancelledAt,
		IsActive:    o.isActive,
		DeletedAt:   o.deletedAt,
		CreatedAt:   o.createdAt,
		UpdatedAt:   o.updatedAt,
		Version:     o.version,
	}
}

// Validate reports whether o is a usable aggregate.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Number is the order's human-facing identifier.
func (o *Order) Number() Number {
	return o.number
}

// Origin tells regular checkouts from custom requests.
func (o *Order) Origin() Origin {
	return o.origin
}

// Status is the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Handler is the department currently responsible for the order.
func (o *Order) Handler() Handler {
	return o.handler
}

// HandoffAt is when production handed the order to logistics, if it has.
func (o *Order) HandoffAt() *time.Time {
	return o.handoffAt
}

// Buyer returns the customer identity captured at checkout.
func (o *Order) Buyer() Buyer {
	return o.buyer
}

// Payload returns the origin-specific terms.
func (o *Order) Payload() Payload {
	return o.payload
}

// Breakdown returns the derived subtotal, discount, VAT and total.
func (o *Order) Breakdown() pricing.Breakdown {
	return o.breakdown
}

// Total is the amount the customer pays, VAT included.
func (o *Order) Total() kernel.Money {
	return o.breakdown.Total
}

// VAT is the output VAT carried by the order.
func (o *Order) VAT() kernel.Money {
	return o.breakdown.VAT
}

// Payment returns the proof and verification state.
func (o *Order) Payment() Payment {
	return o.payment
}

// Timer returns the production deadline, or nil when none is set.
func (o *Order) Timer() *Timer {
	return o.timer
}

// StatusNote is the reason given for a cancellation or rejection.
func (o *Order) StatusNote() string {
	return o.statusNote
}

// CompletedAt is the delivery instant, or nil.
func (o *Order) CompletedAt() *time.Time {
	return o.completedAt
}

// CancelledAt is set when the order was cancelled.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// IsActive reports whether the order is not soft-deleted.
func (o *Order) IsActive() bool {
	return o.isActive
}

// DeletedAt is the soft delete instant, or nil.
func (o *Order) DeletedAt() *time.Time {
	return o.deletedAt
}

// CreatedAt is when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt is the instant of the last state change.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version is the optimistic concurrency counter the order was loaded at.
func (o *Order) Version() int64 {
	return o.version
}

// IncrementVersion is called by the repository once a conditional update
// has been applied.
func (o *Order) IncrementVersion() {
	o.version++
}

// CustomPayload returns the custom terms, or nil for regular orders.
func (o *Order) CustomPayload() *CustomPayload {
	p, _ := o.payload.(*CustomPayload)
	return p
}

// RegularPayload returns the cart, or nil for custom orders.
func (o *Order) RegularPayload() *RegularPayload {
	p, _ := o.payload.(*RegularPayload)
	return p
}

// IsReadyForDelivery reports whether logistics may pick the order up.
func (o *Order) IsReadyForDelivery() bool {
	return o.status == Ready && o.handler == Logistics
}

// RecognizesRevenue reports whether the order's VAT belongs to output VAT.
// Soft-deleted orders still count; deletion does not undo a sale.
func (o *Order) RecognizesRevenue() bool {
	return o.status == Completed && o.completedAt != nil
}

// PullEvents returns the events recorded since the last call and clears them.
func (o *Order) PullEvents() []Event {
	events := o.events
	o.events = nil
	return events
}

// record stamps e with the order identity and queues it for PullEvents.
func (o *Order) record(e Event) {
	e.OrderNumber = o.number
	e.Origin = o.origin
	if e.Total.IsZero() {
		e.Total = o.breakdown.Total
	}
	o.events = append(o.events, e)
}

// moveTo applies a status change permitted by the state graph and records it.
// No order enters production unverified, whatever approved it.
func (o *Order) moveTo(to Status, actor kernel.Actor, now time.Time) error {
	from := o.status
	next, err := from.transitionTo(o.origin, to)
	if err != nil {
		return err
	}
	if next.startsProduction() && !o.payment.Verified {
		return errs.NewInvalidTransitionErrorWithCause(
			from.String(), next.String(), errors.New("payment is not verified"),
		)
	}
	o.status = next
	o.updatedAt = now
	o.record(Event{Kind: EventStatusChanged, From: from, To: next, Actor: actor, At: now})
	return nil
}

// requirePrice refuses custom orders that have no accepted quote yet.
func (o *Order) requirePrice(requested Status) error {
	if p := o.CustomPayload(); p != nil && !p.IsPriced() {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), requested.String(), errors.New("no quote has been accepted"),
		)
	}
	return nil
}

// requireRole refuses actors outside allowed for a move to requested.
func (o *Order) requireRole(requested Status, actor kernel.Actor, allowed ...kernel.Role) error {
	for _, r := range allowed {
		if actor.Role == r {
			return nil
		}
	}
	return errs.NewInvalidTransitionErrorWithCause(
		o.status.String(), requested.String(),
		fmt.Errorf("role %s may not perform this transition", actor.Role),
	)
}

// Approve moves a pending order to approved. Payment must be verified unless
// the admin explicitly overrides the check.
func (o *Order) Approve(actor kernel.Actor, override bool, now time.Time) error {
	if err := o.requireRole(Approved, actor, kernel.RoleAdmin); err != nil {
		return err
	}
	return o.approve(actor, override, now)
}

// approve is shared by Approve and SetTimer.
func (o *Order) approve(actor kernel.Actor, override bool, now time.Time) error {
	if !CanTransition(o.origin, o.status, Approved) {
		return errs.NewInvalidTransitionError(o.status.String(), Approved.String())
	}
	if err := o.requirePrice(Approved); err != nil {
		return err
	}
	if !o.payment.Verified && !override {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), Approved.String(), errors.New("payment is not verified"),
		)
	}
	return o.moveTo(Approved, actor, now)
}

// AttachPaymentProof records a stored proof of payment. A pending regular
// order is approved automatically when autoApprove is set; custom orders wait
// for an admin. The upload never verifies the payment, so an auto-approved
// order still cannot reach production until an admin verifies it.
func (o *Order) AttachPaymentProof(ref string, autoApprove bool, now time.Time) error {
	if ref == "" {
		return errs.NewValueIsRequiredError("paymentProofRef")
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), o.status.String(), errors.New("cannot attach payment proof to a closed order"),
		)
	}
	if err := o.requirePrice(o.status); err != nil {
		return err
	}
	if o.payment.Verified {
		return errs.NewValueIsInvalidErrorWithCause("paymentProofRef", errors.New("payment is already verified"))
	}

	o.payment.ProofRef = ref
	o.payment.ProofUploadedAt = &now
	o.updatedAt = now
	o.record(Event{Kind: EventPaymentProofAttached, Actor: kernel.SystemActor(), Note: ref, At: now})

	if o.origin == Regular && o.status == Pending && autoApprove {
		return o.moveTo(Approved, kernel.SystemActor(), now)
	}
	return nil
}

// VerifyPayment marks the attached proof as verified by an admin. Verifying
// twice is a no-op.
func (o *Order) VerifyPayment(actor kernel.Actor, now time.Time) error {
	if actor.Role != kernel.RoleAdmin {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), o.status.String(), fmt.Errorf("role %s may not verify payments", actor.Role),
		)
	}
	if o.status == Cancelled || o.status == Rejected {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), o.status.String(), errors.New("cannot verify payment on a closed order"),
		)
	}
	if !o.payment.HasProof() {
		return errs.NewValueIsRequiredErrorWithCause("paymentProofRef", errors.New("no payment proof attached"))
	}
	if o.payment.Verified {
		return nil
	}

	o.payment.Verified = true
	o.payment.VerifiedAt = &now
	o.payment.VerifiedBy = actor.ID
	o.updatedAt = now
	o.record(Event{Kind: EventPaymentVerified, Actor: actor, At: now})
	return nil
}

// SetTimer commits a production deadline on a custom order and advances it
// one step: pending -> approved (payment verified or override) or
// approved -> in-progress (payment verified). On an in-progress order it only
// replaces the deadline.
func (o *Order) SetTimer(actor kernel.Actor, days, hours int, override bool, now time.Time) error {
	if o.origin != Custom {
		return errs.NewValueIsInvalidErrorWithCause("timer", errors.New("deadline timers apply to custom orders only"))
	}
	if err := o.requireRole(o.status, actor, kernel.RoleAdmin); err != nil {
		return err
	}
	if o.status != Pending && o.status != Approved && o.status != InProgress {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), InProgress.String(), errors.New("production is already finished"),
		)
	}

	timer, err := NewTimer(days, hours, now)
	if err != nil {
		return err
	}

	switch o.status {
	case Pending:
		if err := o.approve(actor, override, now); err != nil {
			return err
		}
	case Approved:
		if err := o.moveTo(InProgress, actor, now); err != nil {
			return err
		}
	}

	o.timer = &timer
	o.updatedAt = now
	o.record(Event{Kind: EventTimerSet, Actor: actor, Note: timer.Deadline().UTC().Format(time.RFC3339), At: now})
	return nil
}

// MarkOverdueNotified records that the passed deadline was reported so the
// notice is not repeated. Setting a new timer clears the marker.
func (o *Order) MarkOverdueNotified(now time.Time) error {
	if o.timer == nil || !o.timer.IsOverdue(now) {
		return errs.NewValueIsInvalidErrorWithCause("timer", errors.New("deadline has not passed"))
	}
	if o.timer.notifiedAt != nil {
		return nil
	}

	marked := *o.timer
	marked.notifiedAt = &now
	o.timer = &marked
	o.updatedAt = now
	return nil
}

// StartProduction moves an approved custom order to in-progress. A deadline
// timer must already be set.
func (o *Order) StartProduction(actor kernel.Actor, now time.Time) error {
	if err := o.requireRole(InProgress, actor, kernel.RoleAdmin, kernel.RoleSystem); err != nil {
		return err
	}
	if !CanTransition(o.origin, o.status, InProgress) {
		return errs.NewInvalidTransitionError(o.status.String(), InProgress.String())
	}
	if o.timer == nil {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), InProgress.String(), errors.New("deadline timer is not set"),
		)
	}
	return o.moveTo(InProgress, actor, now)
}

// MarkReady finishes production and hands the order to logistics. Status,
// handler and handoffAt change together or not at all.
func (o *Order) MarkReady(actor kernel.Actor, now time.Time) error {
	if err := o.requireRole(Ready, actor, kernel.RoleAdmin); err != nil {
		return err
	}
	if o.handler != Production {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), Ready.String(), fmt.Errorf("order is held by %s", o.handler),
		)
	}
	if err := o.moveTo(Ready, actor, now); err != nil {
		return err
	}

	o.handler = Logistics
	o.handoffAt = &now
	o.record(Event{Kind: EventHandedOff, From: o.status, To: o.status, Actor: actor, At: now})
	return nil
}

// Complete records delivery. This is the revenue recognition instant.
func (o *Order) Complete(actor kernel.Actor, now time.Time) error {
	if err := o.requireRole(Completed, actor, kernel.RoleLogistics); err != nil {
		return err
	}
	if err := o.moveTo(Completed, actor, now); err != nil {
		return err
	}
	o.completedAt = &now
	return nil
}

// Cancel closes the order and returns it to production. Customers may only
// cancel while the order is still pending.
func (o *Order) Cancel(actor kernel.Actor, reason string, now time.Time) error {
	if err := o.requireRole(Cancelled, actor, kernel.RoleAdmin, kernel.RoleCustomer); err != nil {
		return err
	}
	if actor.Role == kernel.RoleCustomer && o.status != Pending {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), Cancelled.String(), errors.New("customers may only cancel pending orders"),
		)
	}
	if err := o.moveTo(Cancelled, actor, now); err != nil {
		return err
	}

	o.handler = Production
	o.handoffAt = nil
	o.cancelledAt = &now
	o.statusNote = reason
	return nil
}

// Reject closes an order before it is handed to logistics.
func (o *Order) Reject(actor kernel.Actor, reason string, now time.Time) error {
	if err := o.requireRole(Rejected, actor, kernel.RoleAdmin); err != nil {
		return err
	}
	if err := o.moveTo(Rejected, actor, now); err != nil {
		return err
	}
	o.statusNote = reason
	return nil
}

// AcceptedTerms are the priced terms copied from an accepted quote proposal.
type AcceptedTerms struct {
	QuoteID   kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
	Discount  pricing.DiscountPercent
}

// ApplyAcceptedQuote replaces the order's price with the accepted proposal's
// terms and recomputes totals. Later acceptances supersede earlier ones.
func (o *Order) ApplyAcceptedQuote(actor kernel.Actor, terms AcceptedTerms, now time.Time) error {
	p, err := o.quotable()
	if err != nil {
		return err
	}
	if err := terms.QuoteID.Validate(); err != nil {
		return err
	}

	next := *p
	next.quantity = terms.Quantity
	next.unitPrice = terms.UnitPrice
	next.discount = terms.Discount
	id := terms.QuoteID
	next.acceptedQuoteID = &id
	if err := next.validate(); err != nil {
		return err
	}

	*p = next
	o.breakdown = p.breakdown()
	o.updatedAt = now
	o.record(Event{Kind: EventQuoteAccepted, Actor: actor, Note: id.String(), At: now})
	return nil
}

// RegisterQuote counts a newly submitted proposal against the order.
func (o *Order) RegisterQuote(now time.Time) error {
	p, err := o.quotable()
	if err != nil {
		return err
	}
	p.quoteCount++
	o.updatedAt = now
	return nil
}

// quotable returns the custom payload if the order may still be negotiated:
// custom origin, active, and not yet handed off or closed.
func (o *Order) quotable() (*CustomPayload, error) {
	p := o.CustomPayload()
	if p == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("origin", errors.New("quotes apply to custom orders only"))
	}
	if !o.isActive {
		return nil, errs.NewObjectNotFoundError("orderNumber", o.number)
	}
	if o.status.IsTerminal() || o.status == Ready {
		return nil, errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), o.status.String(), errors.New("order can no longer be quoted"),
		)
	}
	return p, nil
}

// SoftDelete hides the order from normal reads. Status and handler are kept.
func (o *Order) SoftDelete(actor kernel.Actor, now time.Time) error {
	if err := o.requireRole(o.status, actor, kernel.RoleAdmin); err != nil {
		return err
	}
	if !o.isActive {
		return nil
	}
	o.isActive = false
	o.deletedAt = &now
	o.updatedAt = now
	o.record(Event{Kind: EventDeleted, From: o.status, To: o.status, Actor: actor, At: now})
	return nil
}

// Restore undoes a soft delete without revalidating the state machine.
func (o *Order) Restore(actor kernel.Actor, now time.Time) error {
	if err := o.requireRole(o.status, actor, kernel.RoleAdmin); err != nil {
		return err
	}
	if o.isActive {
		return nil
	}
	o.isActive = true
	o.deletedAt = nil
	o.updatedAt = now
	o.record(Event{Kind: EventRestored, From: o.status, To: o.status, Actor: actor, At: now})
	return nil
}
