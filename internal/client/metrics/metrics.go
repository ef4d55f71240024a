// Package metrics exposes client-side Prometheus metrics for backend calls
// and session transitions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements api.Recorder and the session's forced-logout hook.
type Collector struct {
	requests      *prometheus.CounterVec
	networkErrors *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	forcedLogouts prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voicedesk_api_requests_total",
			Help: "Backend calls that received a response, by method and status code.",
		}, []string{"method", "status_code"}),
		networkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voicedesk_api_network_errors_total",
			Help: "Backend calls that got no response.",
		}, []string{"method"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicedesk_api_request_duration_seconds",
			Help:    "Backend call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		forcedLogouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voicedesk_session_forced_logouts_total",
			Help: "Sessions terminated by a 401 from the backend.",
		}),
	}

	reg.MustRegister(c.requests, c.networkErrors, c.latency, c.forcedLogouts)

	return c
}

func (c *Collector) RecordRequest(method string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method).Observe(d.Seconds())
}

func (c *Collector) RecordNetworkError(method string) {
	c.networkErrors.WithLabelValues(method).Inc()
}

func (c *Collector) RecordForcedLogout() {
	c.forcedLogouts.Inc()
}

// Handler returns a scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewServeMux mounts Handler at /metrics.
func NewServeMux(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
