package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cppbridge_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cppbridge_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"route"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cppbridge_recommendations_total",
			Help: "Total number of calculations by recommendation and health status",
		},
		[]string{"recommendation", "health_status"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cppbridge_validation_failures_total",
			Help: "Total number of rejected requests by failing field",
		},
		[]string{"field"},
	)
)
