// Package metrics defines and registers all custom Prometheus metrics for
// the cropdeal backend. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; each binary exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cropdeal"

// SignInsTotal counts sign-in attempts by outcome.
// Label:
//   - result: "issued", "invalid_credentials", "inactive", "rate_limited"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// SignUpsTotal counts completed registrations by role.
var SignUpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of successful registrations, by role.",
	},
	[]string{"role"},
)

// TokenValidationsTotal counts validate-endpoint outcomes.
// Label:
//   - outcome: "ok", "invalid", "expired", "profile_missing"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of token validation requests, by outcome.",
	},
	[]string{"outcome"},
)

// GatewayAuthTotal counts edge-filter decisions.
// Label:
//   - outcome: "authenticated", "anonymous", "rejected"
var GatewayAuthTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_auth_total",
		Help:      "Total number of gateway authentication decisions, by outcome.",
	},
	[]string{"outcome"},
)

// GatewayValidationDuration measures the remote token validation call as
// observed by the edge filter, including queueing in the worker pool.
var GatewayValidationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_validation_duration_seconds",
		Help:      "Duration of remote token validation from submission to result.",
		Buckets:   prometheus.DefBuckets,
	},
)
