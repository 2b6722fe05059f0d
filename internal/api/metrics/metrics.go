// Package metrics defines all custom Prometheus metrics for the member
// portal. It is the single source of truth for metric names, labels, and
// help strings; everything registers with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure" (unknown username and bad password are
//     deliberately indistinguishable)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful member registrations.
// Label:
//   - role: the role assigned at registration (ADMIN, MANAGER, USER)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of members registered, by assigned role.",
	},
	[]string{"role"},
)

// LogoutsTotal counts explicit session invalidations.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of explicit logouts.",
	},
)

// PasswordHashDuration measures bcrypt work, which dominates login and
// registration latency.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of bcrypt hashing and verification.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"op"},
)

// ── Member store metrics ──────────────────────────────────────────────────────

// MemberCacheTotal counts Redis member-lookup cache decisions.
// Label:
//   - result: "hit" or "miss"
var MemberCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "member_cache_total",
		Help:      "Total number of member lookup cache checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
