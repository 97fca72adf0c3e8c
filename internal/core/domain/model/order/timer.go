package order

import (
	"errors"
	"time"

	"empi/internal/pkg/errs"
)

// MaxTimerDays caps a production commitment.
const MaxTimerDays = 30

// Timer is a committed production deadline for a custom order. Setting a new
// timer replaces the old one; durations never accumulate.
type Timer struct {
	startedAt time.Time
	deadline  time.Time
	days      int
	hours     int

	notifiedAt *time.Time
}

// NewTimer validates the duration and fixes the deadline at startedAt + duration.
func NewTimer(days, hours int, startedAt time.Time) (Timer, error) {
	if err := validateDuration(days, hours); err != nil {
		return Timer{}, err
	}
	return Timer{
		startedAt: startedAt,
		deadline:  startedAt.Add(duration(days, hours)),
		days:      days,
		hours:     hours,
	}, nil
}

// RestoreTimer rebuilds a stored timer without recomputing its deadline.
// notifiedAt is nil until the overdue notice for this deadline went out.
func RestoreTimer(startedAt, deadline time.Time, days, hours int, notifiedAt *time.Time) (Timer, error) {
	if err := validateDuration(days, hours); err != nil {
		return Timer{}, err
	}
	if deadline.Before(startedAt) {
		return Timer{}, errs.NewValueIsInvalidErrorWithCause("deadlineDate", errors.New("deadline precedes timer start"))
	}
	if notifiedAt != nil && !notifiedAt.After(deadline) {
		return Timer{}, errs.NewValueIsInvalidErrorWithCause("deadlineNotifiedAt", errors.New("notice precedes the deadline"))
	}
	return Timer{startedAt: startedAt, deadline: deadline, days: days, hours: hours, notifiedAt: notifiedAt}, nil
}

func validateDuration(days, hours int) error {
	var errList []error
	if days < 0 || days > MaxTimerDays {
		errList = append(errList, errs.NewValueIsOutOfRangeError("timerDurationDays", days, 0, MaxTimerDays))
	}
	if hours < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("timerDurationHours", hours, 0, "unbounded"))
	}
	if len(errList) == 0 && days*24+hours <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"timerDuration", errors.New("duration must be greater than zero"),
		))
	}
	return errors.Join(errList...)
}

func duration(days, hours int) time.Duration {
	return time.Duration(days*24+hours) * time.Hour
}

func (t Timer) StartedAt() time.Time {
	return t.startedAt
}

func (t Timer) Deadline() time.Time {
	return t.deadline
}

func (t Timer) Days() int {
	return t.days
}

func (t Timer) Hours() int {
	return t.hours
}

func (t Timer) Duration() time.Duration {
	return duration(t.days, t.hours)
}

// NotifiedAt returns when the overdue notice for this deadline went out, or
// nil when it has not.
func (t Timer) NotifiedAt() *time.Time {
	return t.notifiedAt
}

// IsOverdue reports whether now is past the deadline.
func (t Timer) IsOverdue(now time.Time) bool {
	return now.After(t.deadline)
}
