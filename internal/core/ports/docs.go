// Package ports defines the contracts between the core and its adapters:
// repositories, the unit of work, and the outbound collaborators the core
// calls (evidence store, notifier, order number generator, clock).
package ports
