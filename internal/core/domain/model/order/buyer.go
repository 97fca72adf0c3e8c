package order

import (
	"errors"
	"net/mail"
	"strings"

	"empi/internal/pkg/errs"
)

// Buyer is the contact the order belongs to. At least one of email and phone
// is needed so the customer can be reached about payment and delivery.
type Buyer struct {
	Name  string
	Email string
	Phone string
}

func NewBuyer(name, email, phone string) (Buyer, error) {
	b := Buyer{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
	if err := b.Validate(); err != nil {
		return Buyer{}, err
	}
	return b, nil
}

func (b Buyer) Validate() error {
	var errList []error
	if b.Name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("buyer.name"))
	}
	if b.Email == "" && b.Phone == "" {
		errList = append(errList, errs.NewValueIsRequiredError("buyer.email or buyer.phone"))
	}
	if b.Email != "" {
		if _, err := mail.ParseAddress(b.Email); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("buyer.email", err))
		}
	}
	return errors.Join(errList...)
}
