// Package metrics defines the custom Prometheus metrics of the portfolio API.
// HTTP request metrics come from the echoprometheus middleware; the counters
// here track content and engagement events.
//
// All metrics are registered with the default registry through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// ── Content metrics ───────────────────────────────────────────────────────────

// ArticlesCreatedTotal counts created articles.
// Label:
//   - published: "true" when the article was created already published
var ArticlesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_created_total",
		Help:      "Total number of articles created.",
	},
	[]string{"published"},
)

// ArticlesDeletedTotal counts deleted articles.
var ArticlesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_deleted_total",
		Help:      "Total number of articles deleted.",
	},
)

// CommentsCreatedTotal counts comments added to articles.
var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// ── Engagement metrics ────────────────────────────────────────────────────────

// ContentViewsTotal counts recorded views.
// Label:
//   - type: "article" or "project"
var ContentViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_views_total",
		Help:      "Total number of views recorded, by content type.",
	},
	[]string{"type"},
)

// ContentLikesTotal counts recorded likes.
// Label:
//   - type: "article" or "project"
var ContentLikesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_likes_total",
		Help:      "Total number of likes recorded, by content type.",
	},
	[]string{"type"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts admin login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// VisitorSessionsTotal counts visitor sign-ins, first-time and returning.
var VisitorSessionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visitor_sessions_total",
		Help:      "Total number of visitor sessions issued.",
	},
)
