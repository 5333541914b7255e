package telemetry_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/log"
	collogs "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetrics "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/grpc"

	"github.com/kbukum/otelfunc/telemetry"
)

// exportCounter counts export requests per signal path.
type exportCounter struct {
	mu    sync.Mutex
	paths map[string]int
}

func (c *exportCounter) add(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paths == nil {
		c.paths = make(map[string]int)
	}
	c.paths[path]++
}

func (c *exportCounter) snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.paths))
	for k, v := range c.paths {
		out[k] = v
	}
	return out
}

// newHTTPCollector serves the OTLP/HTTP export paths and accepts every request.
func newHTTPCollector(t *testing.T) (*httptest.Server, *exportCounter) {
	t.Helper()
	counter := &exportCounter{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			counter.add(r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, counter
}

type traceCollector struct {
	coltrace.UnimplementedTraceServiceServer
	counter *exportCounter
}

func (c *traceCollector) Export(context.Context, *coltrace.ExportTraceServiceRequest) (*coltrace.ExportTraceServiceResponse, error) {
	c.counter.add(telemetry.SignalTraces)
	return &coltrace.ExportTraceServiceResponse{}, nil
}

type logsCollector struct {
	collogs.UnimplementedLogsServiceServer
	counter *exportCounter
}

func (c *logsCollector) Export(context.Context, *collogs.ExportLogsServiceRequest) (*collogs.ExportLogsServiceResponse, error) {
	c.counter.add(telemetry.SignalLogs)
	return &collogs.ExportLogsServiceResponse{}, nil
}

type metricsCollector struct {
	colmetrics.UnimplementedMetricsServiceServer
	counter *exportCounter
}

func (c *metricsCollector) Export(context.Context, *colmetrics.ExportMetricsServiceRequest) (*colmetrics.ExportMetricsServiceResponse, error) {
	c.counter.add(telemetry.SignalMetrics)
	return &colmetrics.ExportMetricsServiceResponse{}, nil
}

// newGRPCCollector serves the three OTLP gRPC collector services on a
// loopback port and returns its address.
func newGRPCCollector(t *testing.T) (string, *exportCounter) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	counter := &exportCounter{}
	srv := grpc.NewServer()
	coltrace.RegisterTraceServiceServer(srv, &traceCollector{counter: counter})
	collogs.RegisterLogsServiceServer(srv, &logsCollector{counter: counter})
	colmetrics.RegisterMetricsServiceServer(srv, &metricsCollector{counter: counter})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return lis.Addr().String(), counter
}

// emitOneOfEach records one span, one log record and one counter increment.
func emitOneOfEach(t *testing.T, reg *telemetry.Registry) {
	t.Helper()
	ctx := context.Background()

	ctx, span := reg.Tracer("collector-test").Start(ctx, "handle-request")
	var rec log.Record
	rec.SetSeverity(log.SeverityInfo)
	rec.SetBody(log.StringValue("request processed"))
	reg.Logger("collector-test").Emit(ctx, rec)

	counter, err := reg.Meter("collector-test").Int64Counter("http.server.requests")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	counter.Add(ctx, 1)
	span.End()
}

func shutdown(t *testing.T, reg *telemetry.Registry) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := reg.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
}

func assertOneExportEach(t *testing.T, got map[string]int, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if got[k] != 1 {
			t.Errorf("expected exactly 1 export to %s, got %d (all: %v)", k, got[k], got)
		}
	}
	if len(got) != len(keys) {
		t.Errorf("expected exports to %v only, got %v", keys, got)
	}
}

func TestRegistryExportsAllSignalsToEndpoint(t *testing.T) {
	srv, counter := newHTTPCollector(t)

	reg, err := telemetry.New(context.Background(), telemetry.Config{
		Endpoint:       srv.URL,
		Protocol:       telemetry.ProtocolHTTP,
		MetricInterval: time.Hour,
		ExportTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	emitOneOfEach(t, reg)
	shutdown(t, reg)

	assertOneExportEach(t, counter.snapshot(), "/v1/traces", "/v1/logs", "/v1/metrics")
}

func TestRegistryExportsAllSignalsToGRPCEndpoint(t *testing.T) {
	addr, counter := newGRPCCollector(t)

	reg, err := telemetry.New(context.Background(), telemetry.Config{
		Endpoint:       "http://" + addr,
		Protocol:       telemetry.ProtocolGRPC,
		MetricInterval: time.Hour,
		ExportTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	emitOneOfEach(t, reg)
	shutdown(t, reg)

	assertOneExportEach(t, counter.snapshot(), telemetry.SignalTraces, telemetry.SignalLogs, telemetry.SignalMetrics)
}

func TestRegistryEndpointChangeMovesAllSignals(t *testing.T) {
	first, firstCount := newHTTPCollector(t)
	second, secondCount := newHTTPCollector(t)

	for _, url := range []string{first.URL, second.URL} {
		reg, err := telemetry.New(context.Background(), telemetry.Config{
			Endpoint:       url,
			Protocol:       telemetry.ProtocolHTTP,
			MetricInterval: time.Hour,
		})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		emitOneOfEach(t, reg)
		shutdown(t, reg)
	}

	assertOneExportEach(t, firstCount.snapshot(), "/v1/traces", "/v1/logs", "/v1/metrics")
	assertOneExportEach(t, secondCount.snapshot(), "/v1/traces", "/v1/logs", "/v1/metrics")
}
