// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empi_order_transitions_total",
		Help: "Committed order status transitions.",
	},
		[]string{"from", "to"},
	)

	NotificationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empi_notifications_failed_total",
		Help: "Notifications that could not be delivered.",
	},
		[]string{"event"},
	)

	VATRecomputationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empi_vat_recomputations_total",
		Help: "VAT period recomputations by trigger.",
	},
		[]string{"trigger"},
	)

	QuoteAcceptRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "empi_quote_accept_retries_total",
		Help: "Quote acceptances retried after a concurrent modification.",
	})

	ConflictRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empi_conflict_retries_total",
		Help: "Commands retried after a concurrent modification, by command.",
	},
		[]string{"command"},
	)
)
