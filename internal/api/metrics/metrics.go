// Package metrics defines and registers all custom Prometheus metrics for the
// livestock marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
//
// All metrics are registered with the default Prometheus registry at package
// init via promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "livestock"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts successfully registered accounts.
// Label:
//   - role: "farmer" or "buyer"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// RegistrationFailuresTotal counts rejected registration attempts.
// Label:
//   - reason: "validation", "conflict", or "internal"
var RegistrationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_failures_total",
		Help:      "Total number of registration attempts that were rejected.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingsCreatedTotal counts newly created livestock listings.
// Label:
//   - species: the listed species (e.g. "cow", "goat")
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of livestock listings created, by species.",
	},
	[]string{"species"},
)

// ListingTransitionsTotal counts applied listing status transitions.
// Label:
//   - status: the new listing status ("reserved", "sold", "available")
var ListingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_status_transitions_total",
		Help:      "Total number of listing status transitions applied, by new status.",
	},
	[]string{"status"},
)

// ListingEventQueueDepth tracks the number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ListingEventQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "listing_event_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ListingEventWriteDuration measures how long a single audit event takes from
// dequeue to persistence.
// Label:
//   - result: "ok" or "error"
var ListingEventWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "listing_event_write_duration_seconds",
		Help:      "Duration of listing audit event persistence from dequeue to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
