package ioweb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pvdash_http_requests_total",
		Help: "Total HTTP requests by route and status code.",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pvdash_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	notModifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvdash_http_not_modified_total",
		Help: "Total responses answered with 304 Not Modified.",
	})

	datasetErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pvdash_dataset_load_errors_total",
		Help: "Total failed dataset loads.",
	})
)
