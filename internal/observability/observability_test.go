package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewMetricsForTesting_Usable(t *testing.T) {
	m := NewMetricsForTesting()

	m.Runs.WithLabelValues("success").Inc()
	m.RecordsParsed.Add(3)
	m.RecordsByClass.WithLabelValues("LEO").Set(2)
	m.PositionCache.WithLabelValues("hit").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.Runs.WithLabelValues("success")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.RecordsParsed), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.RecordsByClass.WithLabelValues("LEO")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PositionCache.WithLabelValues("hit")), 0)
}

func TestNewMetricsForTesting_Registrable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsForTesting()
	require.NoError(t, reg.Register(m.Runs))
	require.NoError(t, reg.Register(m.LoadErrors))

	// A second instance does not collide with the first on a separate registry.
	require.NoError(t, prometheus.NewRegistry().Register(NewMetricsForTesting().Runs))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestInitTracing_Stdout(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{
		Enabled:     true,
		ServiceName: "orbit-catalog-etl-test",
		Exporter:    "stdout",
		SampleRatio: 1,
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = InitTracing(context.Background(), TracingConfig{}, discardLogger())
	})

	_, span := Tracer().Start(context.Background(), "sampled")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ShutdownTracing(context.Background(), shutdown, discardLogger())
}

func TestInitTracing_UnsupportedExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin")
}

func TestShutdownTracing_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		ShutdownTracing(context.Background(), nil, discardLogger())
	})
}
