// Package metrics defines all custom Prometheus metrics for the userbase
// API. It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userbase"

// RegistrationsTotal counts successfully created self-registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created through self-registration.",
	},
)

// LoginsTotal counts login attempts across both login flows.
// Label:
//   - outcome: "success", "failure" (bad credentials) or "forbidden"
//     (admin login against a non-admin account)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"outcome"},
)

// TokenRejectionsTotal counts bearer tokens rejected by the authentication
// gate.
// Label:
//   - reason: "missing", "expired", "invalid" or "unknown_user"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of bearer tokens rejected, labelled by reason.",
	},
	[]string{"reason"},
)

// ProfileUploadsTotal counts profile images accepted and stored.
var ProfileUploadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_uploads_total",
		Help:      "Total number of profile images uploaded.",
	},
)

// IdentityCacheTotal counts authentication-gate identity lookups.
// Label:
//   - result: "hit" (served from cache) or "miss" (resolved from the store)
var IdentityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_total",
		Help:      "Total number of identity cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
