// Package metrics defines and registers all custom Prometheus metrics for the
// profile service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors are registered with the default Prometheus registry on import
// via promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "profile"

// ── Access control ────────────────────────────────────────────────────────────

// RateLimitDecisionsTotal counts rate limiter outcomes.
// Label:
//   - decision: "allow", "deny", "invalid_session" or "error"
var RateLimitDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Total number of rate limiter decisions, by outcome.",
	},
	[]string{"decision"},
)

// AuthGateDenialsTotal counts requests rejected because the session was not authenticated.
var AuthGateDenialsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_denials_total",
		Help:      "Total number of requests denied by the auth gate.",
	},
)

// SessionsResolvedTotal counts session resolutions.
// Label:
//   - state: "anonymous_new", "anonymous" or "authenticated"
var SessionsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_resolved_total",
		Help:      "Total number of sessions resolved from the session transport, by state.",
	},
	[]string{"state"},
)

// ── Auth use cases ────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - outcome: "ok", "user_not_found", "invalid_password", "invalid_login" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - outcome: "ok", "invalid_input", "user_exists" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Audit trail ───────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by fate.
// Label:
//   - result: "recorded", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of auth audit events, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
