// Package metrics defines and registers all custom Prometheus metrics
// for the pagefeed social API. It is the single source of truth for
// metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "social"

// ── Engagement metrics ────────────────────────────────────────────────────────

// FollowsTotal counts follow-state transitions.
// Label:
//   - action: "follow", "unfollow", or "request"
var FollowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follows_total",
		Help:      "Total number of follow-state transitions, by action.",
	},
	[]string{"action"},
)

// PostsCreatedTotal counts newly published posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// LikesTotal counts like-set transitions (redundant calls excluded).
// Label:
//   - action: "like" or "unlike"
var LikesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "likes_total",
		Help:      "Total number of like-set transitions, by action.",
	},
	[]string{"action"},
)

// ── Dispatch metrics ──────────────────────────────────────────────────────────

// EventsDispatchedTotal counts events that completed processing.
// Labels:
//   - entity: "page" or "post"
//   - action: the event action (e.g. "follow", "created")
var EventsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dispatched_total",
		Help:      "Total number of events successfully processed by the dispatcher.",
	},
	[]string{"entity", "action"},
)

// EventsErrorsTotal counts events that failed processing.
// Label:
//   - action: the event action that failed
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of events that failed processing.",
	},
	[]string{"action"},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
