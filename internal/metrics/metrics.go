package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_notifications_sent_total",
		Help: "Total notifications dispatched, by channel and outcome.",
	}, []string{"channel", "status"})

	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notify_render_duration_seconds",
		Help:    "Template render latency by engine.",
		Buckets: prometheus.DefBuckets,
	}, []string{"engine"})

	PassthroughRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_passthrough_requests_total",
		Help: "Requests forwarded to the upstream gateway, by operation.",
	}, []string{"operation"})
)
