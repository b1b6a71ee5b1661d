// Package metrics defines and registers the custom Prometheus metrics of the
// ClientOps API. It is the single source of truth for metric names, labels,
// and help strings. HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric of the service.
const Namespace = "clientops"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UserCacheLookupsTotal counts identity cache lookups made while resolving tokens.
// Label:
//   - result: "hit", "miss", or "error"
var UserCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "user_cache_lookups_total",
		Help:      "Total number of user cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntityMutationsTotal counts committed mutations.
// Labels:
//   - entity: "client", "lead", or "invoice"
//   - action: the audit action (e.g. "create", "status_change", "archive")
var EntityMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "entity_mutations_total",
		Help:      "Total number of committed entity mutations.",
	},
	[]string{"entity", "action"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditWritesTotal counts audit trail writes.
// Label:
//   - result: "ok" or "error"
var AuditWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "audit_writes_total",
		Help:      "Total number of audit log writes, by result.",
	},
	[]string{"result"},
)

// AuditWriteDuration measures how long a single audit insert takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit log inserts.",
		Buckets:   prometheus.DefBuckets,
	},
)
