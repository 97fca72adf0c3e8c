package vat

import (
	"fmt"
	"time"

	"empi/internal/pkg/errs"
)

// CutoffDay is the last day of month included in a period.
const CutoffDay = 21

// Key identifies a period.
type Key struct {
	Year  int
	Month time.Month
}

func NewKey(year int, month time.Month) (Key, error) {
	k := Key{Year: year, Month: month}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

func (k Key) Validate() error {
	if k.Month < time.January || k.Month > time.December {
		return errs.NewValueIsOutOfRangeError("month", int(k.Month), 1, 12)
	}
	if k.Year < 2000 || k.Year > 9999 {
		return errs.NewValueIsOutOfRangeError("year", k.Year, 2000, 9999)
	}
	return nil
}

// KeyAt returns the key of the period whose window contains t.
func KeyAt(t time.Time, loc *time.Location) Key {
	local := t.In(loc)
	k := Key{Year: local.Year(), Month: local.Month()}
	if local.Day() > CutoffDay {
		return k.Next()
	}
	return k
}

func (k Key) Previous() Key {
	if k.Month == time.January {
		return Key{Year: k.Year - 1, Month: time.December}
	}
	return Key{Year: k.Year, Month: k.Month - 1}
}

func (k Key) Next() Key {
	if k.Month == time.December {
		return Key{Year: k.Year + 1, Month: time.January}
	}
	return Key{Year: k.Year, Month: k.Month + 1}
}

// Before orders keys chronologically.
func (k Key) Before(other Key) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor computes the window of k in loc.
func WindowFor(k Key, loc *time.Location) Window {
	prev := k.Previous()
	return Window{
		Start: time.Date(prev.Year, prev.Month, CutoffDay+1, 0, 0, 0, 0, loc),
		End:   time.Date(k.Year, k.Month, CutoffDay+1, 0, 0, 0, 0, loc),
	}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
