package order

import (
	"time"

	"empi/internal/core/domain/model/kernel"
)

// EventKind names a domain event raised by the Order aggregate.
type EventKind string

const (
	EventCreated              EventKind = "order.created"
	EventStatusChanged        EventKind = "order.status_changed"
	EventPaymentProofAttached EventKind = "payment.proof_attached"
	EventPaymentVerified      EventKind = "payment.verified"
	EventHandedOff            EventKind = "order.handed_off"
	EventTimerSet             EventKind = "order.timer_set"
	EventQuoteAccepted        EventKind = "quote.accepted"
	EventDeleted              EventKind = "order.deleted"
	EventRestored             EventKind = "order.restored"
)

// Event is recorded on the aggregate as it changes and drained by the
// application layer after the change is committed.
type Event struct {
	Kind        EventKind
	OrderNumber Number
	Origin      Origin
	From        Status
	To          Status
	Actor       kernel.Actor
	Total       kernel.Money
	Note        string
	At          time.Time
}
