// Package telemetrytest provides a telemetry.Registry wired to in-memory
// exporters for tests.
package telemetrytest

import (
	"context"
	"sync"
	"testing"
	"time"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/otelfunc/telemetry"
)

// LogExporter keeps exported log records in memory.
type LogExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

var _ sdklog.Exporter = (*LogExporter)(nil)

func (e *LogExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *LogExporter) Shutdown(context.Context) error   { return nil }
func (e *LogExporter) ForceFlush(context.Context) error { return nil }

// Records returns a copy of everything exported so far.
func (e *LogExporter) Records() []sdklog.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]sdklog.Record, len(e.records))
	copy(out, e.records)
	return out
}

// Harness is a Registry plus the in-memory sinks behind it.
type Harness struct {
	Registry *telemetry.Registry
	Spans    *tracetest.InMemoryExporter
	Logs     *LogExporter
	Metrics  *sdkmetric.ManualReader
}

// New builds a Harness. The registry is shut down when the test ends.
func New(t testing.TB, cfg telemetry.Config, opts ...telemetry.Option) *Harness {
	t.Helper()

	h := &Harness{
		Spans:   tracetest.NewInMemoryExporter(),
		Logs:    &LogExporter{},
		Metrics: sdkmetric.NewManualReader(),
	}
	if cfg.Exporter == "" {
		cfg.Exporter = telemetry.ExporterNone
	}
	opts = append([]telemetry.Option{
		telemetry.WithSpanExporter(h.Spans),
		telemetry.WithLogExporter(h.Logs),
		telemetry.WithMetricReader(h.Metrics),
	}, opts...)

	reg, err := telemetry.New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("telemetry.New failed: %v", err)
	}
	h.Registry = reg

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = reg.Shutdown(ctx)
	})
	return h
}

// Flush pushes buffered spans and log records through the batch processors.
func (h *Harness) Flush(t testing.TB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Registry.ForceFlush(ctx); err != nil {
		t.Fatalf("ForceFlush failed: %v", err)
	}
}

// Collect reads the current metric state from the manual reader.
func (h *Harness) Collect(t testing.TB) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := h.Metrics.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	return rm
}

// CounterValue sums every data point of the named int64 sum. It returns
// false when no instrument with that name has recorded anything.
func (h *Harness) CounterValue(t testing.TB, name string) (int64, bool) {
	t.Helper()
	rm := h.Collect(t)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is %T, expected Sum[int64]", name, m.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}
