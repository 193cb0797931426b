package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "yielddesk",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yielddesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yielddesk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	tvlReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yielddesk",
			Subsystem: "tvl",
			Name:      "reads_total",
			Help:      "Strategy TVL reads by chain and outcome.",
		},
		[]string{"chain_id", "outcome"},
	)

	tvlDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yielddesk",
			Subsystem: "tvl",
			Name:      "read_duration_seconds",
			Help:      "Duration of strategy TVL reads including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"chain_id"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		tvlReads,
		tvlDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted tracks an in-flight request. Call the returned func when done.
func RequestStarted() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordHTTPRequest records one completed request. path should be a route template.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTVLRead records one pool TVL read.
func RecordTVLRead(chainID uint64, ok bool, duration time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	id := strconv.FormatUint(chainID, 10)
	tvlReads.WithLabelValues(id, outcome).Inc()
	tvlDuration.WithLabelValues(id).Observe(duration.Seconds())
}
