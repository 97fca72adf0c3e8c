// Package order holds the Order aggregate: one record for both cart
// checkouts (regular) and negotiated bespoke requests (custom).
//
// The package includes:
//   - Order: identity, status machine, handler, payment state, deadline timer
//   - Status: the shared lifecycle, with origin-specific edges
//   - Payload: the origin-specific terms (*RegularPayload or *CustomPayload)
//   - Timer: a non-additive production deadline for custom orders
//   - NormalizeLegacyStatus: the import-only mapping of legacy vocabularies
//
// Every mutating method either applies completely or returns an error and
// leaves the order unchanged. Status guard failures are reported as
// errs.InvalidTransitionError. Changes are recorded as Events and drained
// by the application layer after commit.
package order
