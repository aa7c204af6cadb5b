package apiclient

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "remote_api",
			Name:      "requests_total",
			Help:      "Requests sent to the remote brokerage API.",
		}, []string{"method", "resource", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "backoffice",
			Subsystem: "remote_api",
			Name:      "request_duration_seconds",
			Help:      "Latency of remote brokerage API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *Metrics) observe(method, path string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	resource := resourceLabel(path)
	codeLabel := "error"
	if code > 0 {
		codeLabel = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(method, resource, codeLabel).Inc()
	m.duration.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

// resourceLabel keeps only the first path segment so record ids do not
// explode label cardinality.
func resourceLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
