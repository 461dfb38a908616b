// Package metrics defines the custom Prometheus metrics for the booking API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register themselves with the default registry via promauto; expose
// them by mounting promhttp.Handler() (done in cmd/api).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// BookingsCreatedTotal counts successfully created bookings.
// Label:
//   - status: the initial status of the booking ("PENDING" or "CONFIRMED")
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings successfully created.",
	},
	[]string{"status"},
)

// ConflictsTotal counts creation attempts rejected because the requested
// range overlapped an existing booking.
// Label:
//   - stage: "recheck" (caught by the in-transaction overlap read) or
//     "constraint" (caught by the exclusion constraint after a racing commit)
var ConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conflicts_total",
		Help:      "Total number of booking creations rejected due to date conflicts.",
	},
	[]string{"stage"},
)

// TransitionsTotal counts status transitions, accepted and rejected.
// Labels:
//   - to: the requested target status
//   - result: "applied" or "rejected"
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of booking status transition attempts.",
	},
	[]string{"to", "result"},
)

// AvailabilityChecksTotal counts per-unit availability query results.
// Label:
//   - result: "available" or "conflict"
var AvailabilityChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_checks_total",
		Help:      "Total number of per-unit availability check results.",
	},
	[]string{"result"},
)

// TxRetriesTotal counts creation transactions retried after a store-level
// abort (serialization failure, deadlock, lock timeout).
var TxRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tx_retries_total",
		Help:      "Total number of booking transactions retried after a transient abort.",
	},
)
