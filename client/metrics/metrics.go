// Package metrics instruments outgoing vhall API calls with Prometheus
// collectors: an exchange counter and latency histogram per endpoint path
// and HTTP status, and a counter of remote result codes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "vhall"
	subsystem = "client"
)

// Metrics holds the collectors registered for one client.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
}

// New registers the client collectors with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of HTTP exchanges with the vhall API.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP exchanges with the vhall API.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "results_total",
				Help:      "Remote result codes returned by the vhall API.",
			},
			[]string{"path", "code"},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.results} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// CountResult records the remote code of a decoded response. It is a no-op
// on a nil receiver.
func (m *Metrics) CountResult(path, code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "none"
	}
	m.results.WithLabelValues(path, code).Inc()
}

// RoundTripper wraps next so every exchange is counted and timed.
func (m *Metrics) RoundTripper(next http.RoundTripper) http.RoundTripper {
	return &roundTripper{m: m, next: next}
}

type roundTripper struct {
	m    *Metrics
	next http.RoundTripper
}

func (rt *roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.next.RoundTrip(r)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	path := r.URL.Path
	rt.m.requests.WithLabelValues(r.Method, path, status).Inc()
	rt.m.duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())

	return resp, err
}
