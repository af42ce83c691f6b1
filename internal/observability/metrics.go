package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the application metrics. HTTP metrics are registered per server
// and gathered next to it.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ResolverCalls counts resolver invocations by schema field.
	ResolverCalls = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "blogql_resolver_calls_total",
		Help: "Total number of resolver invocations by field",
	}, []string{"field"})

	// ResolverErrors counts failed resolver invocations by field and error code.
	ResolverErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "blogql_resolver_errors_total",
		Help: "Total number of resolver errors by field and code",
	}, []string{"field", "code"})

	// StoreQueryLatency records store latency by operation and table.
	StoreQueryLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogql_store_query_latency_seconds",
		Help:    "Store query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SnapshotRows is the number of rows held in the startup snapshot per table.
	SnapshotRows = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "blogql_snapshot_rows",
		Help: "Rows loaded into the in-memory snapshot",
	}, []string{"table"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		StoreQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ObserveResolver counts one resolver call and, when code is non-empty, its failure.
func ObserveResolver(field, code string) {
	ResolverCalls.WithLabelValues(field).Inc()
	if code != "" {
		ResolverErrors.WithLabelValues(field, code).Inc()
	}
}
