package catalog

import "github.com/prometheus/client_golang/prometheus"

var (
	providerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auraluxe_provider_requests_total",
			Help: "Upstream catalog requests by provider and outcome",
		},
		[]string{"provider", "status"},
	)
	providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auraluxe_provider_request_duration_seconds",
			Help:    "Upstream catalog request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	searchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auraluxe_search_requests_total",
			Help: "Aggregated catalog requests by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(providerRequests, providerDuration, searchRequests)
}
