package vat

import (
	"fmt"

	"empi/internal/pkg/errs"
)

// Status of a period. It only moves forward; skipping steps is allowed.
type Status string

const (
	Active    Status = "active"
	Submitted Status = "submitted"
	Paid      Status = "paid"
	Archived  Status = "archived"
)

var statusRank = map[Status]int{
	Active:    0,
	Submitted: 1,
	Paid:      2,
	Archived:  3,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

func (s Status) Validate() error {
	if _, ok := statusRank[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid VAT period status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}

// CanMoveTo reports whether to lies strictly ahead of s.
func (s Status) CanMoveTo(to Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	next, ok := statusRank[to]
	return ok && next > from
}
