// Package metrics registers the adapter's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Inbound LD API
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ldadapter_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ldadapter_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Upstream v2 broker
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ldadapter_upstream_request_duration_seconds",
			Help:    "Duration of requests forwarded to the v2 broker in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ldadapter_upstream_errors_total",
			Help: "Total number of failed upstream requests",
		},
		[]string{"reason"},
	)

	// Translation
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ldadapter_translations_total",
			Help: "Total number of v2 bodies translated to NGSI-LD",
		},
		[]string{"resource", "outcome"},
	)

	// Notification relay
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ldadapter_notifications_total",
			Help: "Total number of relayed notifications",
		},
		[]string{"channel", "outcome"},
	)

	// Rate limiting
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ldadapter_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// Label values shared by callers.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	ReasonConnection = "connection"
	ReasonStatus     = "status"
	ReasonDecode     = "decode"

	ChannelHTTP = "http"
	ChannelNATS = "nats"
)
