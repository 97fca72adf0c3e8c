// Package services holds domain services that coordinate more than one
// aggregate or need data no single aggregate owns.
//
// The package includes:
//   - Negotiator: quote proposals and acceptance on custom orders
//   - HandoffCoordinator: the production to logistics handoff
//   - VATAccountant: period rollover and full reconciliation from a ledger
package services
