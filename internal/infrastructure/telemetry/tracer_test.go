package telemetry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newDisabledTracerProvider(t *testing.T) *telemetry.TracerProvider {
	t.Helper()
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "wms-backend",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)
	return tp
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp := newDisabledTracerProvider(t)

	assert.False(t, tp.IsEnabled())

	gotCfg := tp.GetConfig()
	assert.Equal(t, "wms-backend", gotCfg.ServiceName)
	assert.False(t, gotCfg.Enabled)

	// Tracer still works through the global no-op provider.
	tracer := tp.Tracer("putaway")
	require.NotNil(t, tracer)
	_, span := tracer.Start(ctx, "reserve-capacity")
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// Needs a reachable collector, run locally with `make otel-up`.
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "wms-backend",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("test").Start(ctx, "test-span")
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	for _, ratio := range []float64{0.0, 0.5, 1.0} {
		cfg := telemetry.Config{
			Enabled:           false,
			CollectorEndpoint: "localhost:14317",
			SamplingRatio:     ratio,
			ServiceName:       "wms-backend",
		}

		tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
		require.NoError(t, err)
		assert.False(t, tp.IsEnabled())
		assert.NoError(t, tp.Shutdown(ctx))
	}
}

func TestTracerProvider_ShutdownWithCancelledContext(t *testing.T) {
	tp := newDisabledTracerProvider(t)

	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, tp.Shutdown(cancelledCtx))
}

func TestNewTracerProvider_InvalidEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	logger := zaptest.NewLogger(t, zaptest.Level(zap.ErrorLevel))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// The exporter connects lazily, so creation may succeed and the spans
	// simply never leave the process.
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "invalid-host:99999",
		SamplingRatio:     1.0,
		ServiceName:       "wms-backend",
	}, logger)
	if err != nil {
		t.Logf("Expected connection error: %v", err)
		return
	}
	_ = tp.Shutdown(context.Background())
}

func TestTracerProvider_SpanProfiles_Disabled(t *testing.T) {
	ctx := context.Background()
	tp := newDisabledTracerProvider(t)

	// Off by default, and enabling is a silent no-op while tracing is off.
	assert.False(t, tp.IsSpanProfilesEnabled())
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.IsSpanProfilesEnabled())

	assert.NoError(t, tp.Shutdown(ctx))
}

func TestTracerProvider_SpanProfiles_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "wms-backend-span-profiles",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	assert.False(t, tp.IsSpanProfilesEnabled())

	assert.NoError(t, tp.EnableSpanProfiles())
	assert.True(t, tp.IsSpanProfilesEnabled())

	assert.NoError(t, tp.EnableSpanProfiles())
	assert.True(t, tp.IsSpanProfilesEnabled())

	// With span profiles on the wrapped tracer attaches span_id as a pprof
	// label; the span must outlive a CPU sample to show up.
	_, span := tp.Tracer("test-span-profiles").Start(ctx, "putaway-with-profile")
	time.Sleep(15 * time.Millisecond)
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
}

func TestTracerProvider_SpanProfilesConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	tp := newDisabledTracerProvider(t)
	defer func() { _ = tp.Shutdown(ctx) }()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tp.EnableSpanProfiles()
			_ = tp.IsSpanProfilesEnabled()
		}()
	}
	wg.Wait()

	// Tracing stayed off, so span profiles must too.
	assert.False(t, tp.IsSpanProfilesEnabled())
}
