package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveResolver(t *testing.T) {
	before := testutil.ToFloat64(ResolverCalls.WithLabelValues("getUser"))
	beforeErr := testutil.ToFloat64(ResolverErrors.WithLabelValues("getUser", "NOT_FOUND"))

	ObserveResolver("getUser", "")
	ObserveResolver("getUser", "NOT_FOUND")

	assert.Equal(t, before+2, testutil.ToFloat64(ResolverCalls.WithLabelValues("getUser")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(ResolverErrors.WithLabelValues("getUser", "NOT_FOUND")))
}

func TestTrackQuery(t *testing.T) {
	done := TrackQuery("select", "Users")
	done()

	count := testutil.CollectAndCount(StoreQueryLatency, "blogql_store_query_latency_seconds")
	assert.GreaterOrEqual(t, count, 1)
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "noop")
	span.End(nil)
	assert.Equal(t, "", TraceID(ctx))
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{Enabled: true, Exporter: "zipkin"})
	assert.Error(t, err)
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", newSampler(1).Description())
	assert.Contains(t, newSampler(0.25).Description(), "ParentBased")
}
