package order

import (
	"strings"

	"empi/internal/pkg/errs"
)

// NumberPrefix starts every order number issued by this service. Imported
// legacy orders keep whatever number they had.
const NumberPrefix = "EMPI-"

const maxNumberLength = 64

// Number is the human-readable order identity. It is immutable.
type Number string

func ParseNumber(s string) (Number, error) {
	n := Number(strings.TrimSpace(s))
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

func (n Number) Validate() error {
	if n == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	if len(n) > maxNumberLength {
		return errs.NewValueIsOutOfRangeError("orderNumber length", len(n), 1, maxNumberLength)
	}
	return nil
}

func (n Number) String() string {
	return string(n)
}
