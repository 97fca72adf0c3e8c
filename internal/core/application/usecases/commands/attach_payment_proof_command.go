package commands

import (
	"errors"
	"fmt"
	"strings"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/errs"
)

var ErrAttachPaymentProofCommandIsNotConstructed = errors.New(
	"AttachPaymentProofCommand must be created via NewAttachPaymentProofCommand constructor",
)

// MaxPaymentProofSize is the largest accepted proof upload in bytes.
const MaxPaymentProofSize = 10 << 20

var allowedProofTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// AttachPaymentProofCommand carries an uploaded proof of payment. The blob
// goes to the evidence store; only its reference is kept on the order.
type AttachPaymentProofCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	contentType string
	blob        []byte
}

func NewAttachPaymentProofCommand(
	number string,
	actor kernel.Actor,
	contentType string,
	blob []byte,
) (AttachPaymentProofCommand, error) {
	target, err := newOrderTarget(number, actor)
	cmd := AttachPaymentProofCommand{orderTarget: target}
	if err = errors.Join(err, cmd.setContentType(contentType), cmd.setBlob(blob)); err != nil {
		return AttachPaymentProofCommand{}, err
	}

	return cmd, nil
}

func (c AttachPaymentProofCommand) Validate() error {
	return c.guard.Validate(ErrAttachPaymentProofCommandIsNotConstructed)
}

func (c AttachPaymentProofCommand) ContentType() string {
	return c.contentType
}

func (c AttachPaymentProofCommand) Blob() []byte {
	return c.blob
}

func (c *AttachPaymentProofCommand) setContentType(contentType string) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" {
		return errs.NewValueIsRequiredError("contentType")
	}
	if _, ok := allowedProofTypes[ct]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("contentType", fmt.Errorf("%q is not an accepted proof format", ct))
	}
	c.contentType = ct
	return nil
}

func (c *AttachPaymentProofCommand) setBlob(blob []byte) error {
	if len(blob) == 0 {
		return errs.NewValueIsRequiredError("proof")
	}
	if len(blob) > MaxPaymentProofSize {
		return errs.NewValueIsOutOfRangeError("proof", len(blob), 1, MaxPaymentProofSize)
	}
	c.blob = blob
	return nil
}
