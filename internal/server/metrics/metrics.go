// Package metrics exposes Prometheus instrumentation for the dev upload
// server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	UploadBytes         prometheus.Histogram
}

// New builds and registers the server metrics. Registration conflicts are
// resolved in favor of the existing collector, so repeated construction in
// tests is harmless.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "media_http_requests_total",
			Help: "Total number of HTTP requests handled by the upload server",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "media_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		UploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "media_upload_bytes",
			Help:    "Size distribution of stored payloads",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}

	m.HTTPRequestTotal = registerOrGet(m.HTTPRequestTotal).(*prometheus.CounterVec)
	m.HTTPRequestDuration = registerOrGet(m.HTTPRequestDuration).(*prometheus.HistogramVec)
	m.UploadBytes = registerOrGet(m.UploadBytes).(prometheus.Histogram)
	return m
}

func registerOrGet(c prometheus.Collector) prometheus.Collector {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
	}
	return c
}
