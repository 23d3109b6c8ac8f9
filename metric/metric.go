// Package metric exposes the service's prometheus instrumentation.
package metric

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RegistrationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fagnett_registrations_created_total",
		Help: "Registrations created through the API",
	})

	RegistrationsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fagnett_registrations_cancelled_total",
		Help: "Registrations cancelled by users or admins",
	})

	FeedbackSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fagnett_feedback_submitted_total",
		Help: "Event feedback submissions accepted",
	})

	SlackInvitesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fagnett_slack_invites_sent_total",
		Help: "Users invited to event Slack channels",
	})

	SlackInvitesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fagnett_slack_invites_failed_total",
		Help: "Slack channel invites that failed per user",
	})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fagnett_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request latency per route. Uses the route template, not
// the raw path, to keep label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
