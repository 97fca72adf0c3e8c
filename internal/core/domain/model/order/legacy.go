package order

import (
	"fmt"
	"strings"
	"time"

	"empi/internal/pkg/errs"
)

// LegacyRecord is the status portion of an order exported by the previous
// system. Its status and paymentStatus columns used overlapping vocabularies.
type LegacyRecord struct {
	Status             string
	PaymentStatus      string
	PaymentConfirmedAt *time.Time
	UpdatedAt          time.Time
}

// NormalizedLegacy is a legacy record mapped onto the canonical vocabulary.
type NormalizedLegacy struct {
	Status          Status
	PaymentVerified bool
	// CompletedAt is set for completed orders so VAT can recognize them.
	CompletedAt *time.Time
}

var legacyStatusSynonyms = map[string]Status{
	"pending":            Pending,
	"new":                Pending,
	"awaiting_payment":   Pending,
	"awaiting-payment":   Pending,
	"approved":           Approved,
	"accepted":           Approved,
	"confirmed":          Approved,
	"in-progress":        InProgress,
	"in_progress":        InProgress,
	"processing":         InProgress,
	"in_production":      InProgress,
	"ready":              Ready,
	"ready_for_delivery": Ready,
	"ready-for-delivery": Ready,
	"out_for_delivery":   Ready,
	"shipped":            Ready,
	"completed":          Completed,
	"delivered":          Completed,
	"fulfilled":          Completed,
	"cancelled":          Cancelled,
	"canceled":           Cancelled,
	"refunded":           Cancelled,
	"rejected":           Rejected,
	"declined":           Rejected,
}

var legacyPaidSynonyms = map[string]bool{
	"paid":              true,
	"confirmed":         true,
	"verified":          true,
	"payment_confirmed": true,
	"completed":         true,
	"success":           true,
}

// NormalizeLegacyStatus maps a legacy record onto Status. A record with no
// usable status but a confirmed payment is an offline sale and is treated as
// completed at its confirmation time. It is used only by the import path.
func NormalizeLegacyStatus(r LegacyRecord) (NormalizedLegacy, error) {
	status := strings.ToLower(strings.TrimSpace(r.Status))
	paid := legacyPaidSynonyms[strings.ToLower(strings.TrimSpace(r.PaymentStatus))]

	recognizedAt := r.UpdatedAt
	if r.PaymentConfirmedAt != nil {
		recognizedAt = *r.PaymentConfirmedAt
	}

	canonical, known := legacyStatusSynonyms[status]
	switch {
	case !known && status != "" && status != "offline":
		return NormalizedLegacy{}, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("legacy status %q has no canonical mapping", r.Status),
		)
	case !known && paid:
		canonical = Completed
	case !known:
		canonical = Pending
	}

	n := NormalizedLegacy{Status: canonical, PaymentVerified: paid}
	if canonical == Completed {
		n.PaymentVerified = true
		n.CompletedAt = &recognizedAt
	}
	return n, nil
}
