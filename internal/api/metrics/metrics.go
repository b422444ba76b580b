// Package metrics defines all custom Prometheus metrics for the accounts
// API. It is the single source of truth for metric names, labels, and help
// strings. Collectors are created with promauto and register themselves with
// the default registry at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of authentication attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created through registration.",
	},
)

// MutationsDeniedTotal counts update/delete attempts rejected by the
// mutation policy.
// Label:
//   - operation: "update" or "delete"
var MutationsDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_denied_total",
		Help:      "Total number of account mutations denied by policy, by operation.",
	},
	[]string{"operation"},
)

// LoginThrottleTotal counts authenticate requests short-circuited by the
// Redis failed-attempt throttle.
var LoginThrottleTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_throttle_total",
		Help:      "Total number of authentication attempts rejected by the login throttle.",
	},
)
