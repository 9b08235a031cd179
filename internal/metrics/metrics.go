// Package metrics defines and registers all custom Prometheus metrics for the
// EMR API. It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "emr"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid", "locked", "inactive"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// AccountLocksTotal counts accounts locked after repeated failed logins.
var AccountLocksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_locks_total",
		Help:      "Total number of accounts locked by the failed-login policy.",
	},
)

// TokenRejectionsTotal counts token verifications that failed.
// Label:
//   - reason: "expired", "invalid", "kind_mismatch", "revoked"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected token verifications, by reason.",
	},
	[]string{"reason"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AccessDeniedTotal counts authorization denials.
// Label:
//   - policy: "role", "permission", "ownership"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authorization denials, by policy.",
	},
	[]string{"policy"},
)

// ── Scheduling metrics ────────────────────────────────────────────────────────

// AppointmentsCreatedTotal counts successfully booked appointments.
var AppointmentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments booked.",
	},
)

// AppointmentConflictsTotal counts bookings rejected by the slot-conflict rule.
var AppointmentConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointment_conflicts_total",
		Help:      "Total number of bookings rejected because the provider slot was taken.",
	},
)

// SequenceIncrementsTotal counts identifier-sequence draws.
// Label:
//   - sequence: logical sequence family (e.g. "patient")
var SequenceIncrementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sequence_increments_total",
		Help:      "Total number of values drawn from identifier sequences.",
	},
	[]string{"sequence"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// MailNotificationsTotal counts asynchronous mail deliveries.
// Label:
//   - result: "sent" or "failed"
var MailNotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_notifications_total",
		Help:      "Total number of asynchronous mail deliveries, by result.",
	},
	[]string{"result"},
)
