package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostsCreated counts posts accepted through the ingestion API.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_posts_created_total",
		Help: "Total number of posts created via the ingestion API",
	})

	// PostsRejected counts ingestion rejections by reason code.
	PostsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_posts_rejected_total",
		Help: "Total number of rejected post submissions by reason",
	}, []string{"reason"})

	// CommentsCreated counts comments accepted through the API.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_comments_created_total",
		Help: "Total number of comments created",
	})

	// CommentLikes counts successful like increments.
	CommentLikes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_comment_likes_total",
		Help: "Total number of comment like increments",
	})

	// CounterUpdateFailures counts failed best-effort counter increments
	// (views, likes) that were swallowed and only logged.
	CounterUpdateFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_counter_update_failures_total",
		Help: "Total number of failed best-effort counter increments",
	}, []string{"counter"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
