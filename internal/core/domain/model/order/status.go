package order

import (
	"fmt"

	"empi/internal/pkg/errs"
)

// Status is the lifecycle state of an order. Regular and custom orders share
// one machine; the origin decides which edges out of approved exist.
//
//	pending ──> approved ──> in-progress ──> ready ──> completed   (custom)
//	pending ──> approved ───────────────────> ready ──> completed   (regular)
//
// Any state before completed may move to cancelled; any state before ready may
// move to rejected. completed, cancelled and rejected are terminal.
type Status int

const (
	// Unknown catches zero values read from storage or the wire.
	Unknown Status = iota
	Pending
	Approved
	InProgress
	Ready
	Completed
	Cancelled
	Rejected
)

var statusNames = map[Status]string{
	Pending:    "pending",
	Approved:   "approved",
	InProgress: "in-progress",
	Ready:      "ready",
	Completed:  "completed",
	Cancelled:  "cancelled",
	Rejected:   "rejected",
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Approved, InProgress, Ready, Completed, Cancelled, Rejected}
}

// ParseStatus maps the canonical wire name onto a Status. Legacy synonyms are
// not accepted here; see NormalizeLegacyStatus.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further status transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Rejected
}

// startsProduction reports whether entering s commits production work.
func (s Status) startsProduction() bool {
	return s == InProgress || s == Ready
}

// edge is a permitted transition; an empty origin list means every origin.
type edge struct {
	to      Status
	origins []Origin
}

var transitions = map[Status][]edge{
	Pending: {
		{to: Approved},
		{to: Cancelled},
		{to: Rejected},
	},
	Approved: {
		{to: InProgress, origins: []Origin{Custom}},
		{to: Ready, origins: []Origin{Regular}},
		{to: Cancelled},
		{to: Rejected},
	},
	InProgress: {
		{to: Ready, origins: []Origin{Custom}},
		{to: Cancelled},
		{to: Rejected},
	},
	Ready: {
		{to: Completed},
		{to: Cancelled},
	},
}

// CanTransition reports whether the state graph allows from -> to for the
// given origin. Actor and precondition checks live on Order.
func CanTransition(origin Origin, from, to Status) bool {
	for _, e := range transitions[from] {
		if e.to != to {
			continue
		}
		if len(e.origins) == 0 {
			return true
		}
		for _, o := range e.origins {
			if o == origin {
				return true
			}
		}
	}
	return false
}

func (s Status) transitionTo(origin Origin, to Status) (Status, error) {
	if !CanTransition(origin, s, to) {
		return s, errs.NewInvalidTransitionError(s.String(), to.String())
	}
	return to, nil
}
