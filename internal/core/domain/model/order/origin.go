package order

import (
	"fmt"

	"empi/internal/pkg/errs"
)

// Origin records how an order entered the system. It never changes.
type Origin string

const (
	Regular Origin = "regular"
	Custom  Origin = "custom"
)

func ParseOrigin(s string) (Origin, error) {
	o := Origin(s)
	if err := o.Validate(); err != nil {
		return "", err
	}
	return o, nil
}

func (o Origin) Validate() error {
	if o != Regular && o != Custom {
		return errs.NewValueIsInvalidErrorWithCause("origin", fmt.Errorf("%q is not a valid origin", string(o)))
	}
	return nil
}

func (o Origin) String() string {
	return string(o)
}

// Handler is the operational team currently responsible for an order.
type Handler string

const (
	Production Handler = "production"
	Logistics  Handler = "logistics"
)

func ParseHandler(s string) (Handler, error) {
	h := Handler(s)
	if err := h.Validate(); err != nil {
		return "", err
	}
	return h, nil
}

func (h Handler) Validate() error {
	if h != Production && h != Logistics {
		return errs.NewValueIsInvalidErrorWithCause("handler", fmt.Errorf("%q is not a valid handler", string(h)))
	}
	return nil
}

func (h Handler) String() string {
	return string(h)
}
