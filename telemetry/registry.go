package telemetry

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/otelfunc/component"
	"github.com/kbukum/otelfunc/logger"
)

// Registry owns the tracer, logger and meter providers of the process and
// the Resource they share. Build it once at startup with New and pass it to
// whatever needs to emit telemetry.
type Registry struct {
	cfg      Config
	resource *resource.Resource

	tracerProvider *sdktrace.TracerProvider
	loggerProvider *sdklog.LoggerProvider
	meterProvider  *sdkmetric.MeterProvider

	promRegistry *prometheus.Registry
	propagator   propagation.TextMapPropagator
	description  string

	shutdownOnce sync.Once
	shutdownErr  error
	closed       atomic.Bool
}

// Option customizes how New wires the pipeline.
type Option func(*options)

type options struct {
	spanExporter sdktrace.SpanExporter
	logExporter  sdklog.Exporter
	metricReader sdkmetric.Reader
	writer       io.Writer
}

// WithSpanExporter replaces the configured span exporter. Spans are still
// delivered through a batch processor.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) { o.spanExporter = exp }
}

// WithLogExporter replaces the configured log exporter. Records are still
// delivered through a batch processor.
func WithLogExporter(exp sdklog.Exporter) Option {
	return func(o *options) { o.logExporter = exp }
}

// WithMetricReader replaces the periodic reader.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(o *options) { o.metricReader = r }
}

// WithWriter sets where the stdout exporters write. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// New builds the Resource, one exporter and one batching stage per signal,
// and the three providers. cfg is copied; defaults are applied to the copy.
func New(ctx context.Context, cfg Config, opts ...Option) (*Registry, error) {
	o := options{writer: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("telemetry config: %w", err)
	}
	endpoint, err := ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, &cfg)
	if err != nil {
		return nil, err
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("telemetry config: %w", err)
	}

	factory := &exporterFactory{cfg: &cfg, endpoint: endpoint, tls: tlsCfg, writer: o.writer}
	r := &Registry{
		cfg:         cfg,
		resource:    res,
		description: factory.String(),
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}

	spanExp := o.spanExporter
	if spanExp == nil {
		if spanExp, err = factory.spanExporter(ctx); err != nil {
			return nil, err
		}
	}
	r.tracerProvider = newTracerProvider(res, spanExp, cfg.SampleRate)

	logExp := o.logExporter
	if logExp == nil {
		if logExp, err = factory.logExporter(ctx); err != nil {
			_ = r.tracerProvider.Shutdown(ctx)
			return nil, err
		}
	}
	r.loggerProvider = newLoggerProvider(res, logExp)

	readers, err := r.metricReaders(ctx, factory, o.metricReader)
	if err != nil {
		_ = r.tracerProvider.Shutdown(ctx)
		_ = r.loggerProvider.Shutdown(ctx)
		return nil, err
	}
	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		mpOpts = append(mpOpts, sdkmetric.WithReader(reader))
	}
	r.meterProvider = sdkmetric.NewMeterProvider(mpOpts...)

	logger.Info("telemetry initialized", logger.Fields(
		"service", cfg.ServiceName,
		"exporter", r.description,
		"metric_interval", cfg.MetricInterval.String(),
		"sample_rate", cfg.SampleRate,
		"prometheus", cfg.Prometheus,
	))
	return r, nil
}

func newTracerProvider(res *resource.Resource, exp sdktrace.SpanExporter, rate float64) *sdktrace.TracerProvider {
	var sampler sdktrace.Sampler
	switch {
	case rate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case rate <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(rate)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	}
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(opts...)
}

func newLoggerProvider(res *resource.Resource, exp sdklog.Exporter) *sdklog.LoggerProvider {
	opts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	if exp != nil {
		opts = append(opts, sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)))
	}
	return sdklog.NewLoggerProvider(opts...)
}

func (r *Registry) metricReaders(ctx context.Context, factory *exporterFactory, override sdkmetric.Reader) ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	if override != nil {
		readers = append(readers, override)
	} else {
		exp, err := factory.metricExporter(ctx)
		if err != nil {
			return nil, err
		}
		if exp != nil {
			readers = append(readers, sdkmetric.NewPeriodicReader(exp,
				sdkmetric.WithInterval(r.cfg.MetricInterval),
			))
		}
	}

	if r.cfg.Prometheus {
		r.promRegistry = prometheus.NewRegistry()
		exp, err := otelprom.New(otelprom.WithRegisterer(r.promRegistry))
		if err != nil {
			return nil, fmt.Errorf("creating prometheus reader: %w", err)
		}
		readers = append(readers, exp)
	}
	return readers, nil
}

// Tracer returns a named tracer from the registry's provider.
func (r *Registry) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return r.tracerProvider.Tracer(name, opts...)
}

// Logger returns a named OpenTelemetry logger (instrumentation scope).
func (r *Registry) Logger(name string, opts ...log.LoggerOption) log.Logger {
	return r.loggerProvider.Logger(name, opts...)
}

// Meter returns a named meter from the registry's provider.
func (r *Registry) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return r.meterProvider.Meter(name, opts...)
}

// Resource returns the Resource shared by all three providers.
func (r *Registry) Resource() *resource.Resource { return r.resource }

func (r *Registry) TracerProvider() *sdktrace.TracerProvider { return r.tracerProvider }

func (r *Registry) LoggerProvider() *sdklog.LoggerProvider { return r.loggerProvider }

func (r *Registry) MeterProvider() *sdkmetric.MeterProvider { return r.meterProvider }

// Config returns the effective configuration, defaults applied.
func (r *Registry) Config() Config { return r.cfg }

var registerGlobalOnce sync.Once

// RegisterGlobal installs the providers and the W3C trace-context and
// baggage propagator as the otel globals. Only the first call in a process
// has any effect; it reports whether this call installed them.
func (r *Registry) RegisterGlobal() bool {
	installed := false
	registerGlobalOnce.Do(func() {
		otel.SetTracerProvider(r.tracerProvider)
		otel.SetMeterProvider(r.meterProvider)
		global.SetLoggerProvider(r.loggerProvider)
		otel.SetTextMapPropagator(r.propagator)
		installed = true
	})
	return installed
}

// Propagator returns the W3C trace-context and baggage propagator used to
// join traces forwarded by the Functions host.
func (r *Registry) Propagator() propagation.TextMapPropagator { return r.propagator }

// MetricsHandler serves the Prometheus pull endpoint. It returns nil when
// the Prometheus reader is disabled.
func (r *Registry) MetricsHandler() http.Handler {
	if r.promRegistry == nil {
		return nil
	}
	return promhttp.HandlerFor(r.promRegistry, promhttp.HandlerOpts{})
}

// ForceFlush exports everything buffered in the three pipelines.
func (r *Registry) ForceFlush(ctx context.Context) error {
	return stderrors.Join(
		wrapSignal(SignalTraces, r.tracerProvider.ForceFlush(ctx)),
		wrapSignal(SignalLogs, r.loggerProvider.ForceFlush(ctx)),
		wrapSignal(SignalMetrics, r.meterProvider.ForceFlush(ctx)),
	)
}

// Shutdown flushes and stops the three providers. It is safe to call more
// than once; later calls return the first call's result.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() {
		r.closed.Store(true)
		r.shutdownErr = stderrors.Join(
			wrapSignal(SignalTraces, r.tracerProvider.Shutdown(ctx)),
			wrapSignal(SignalLogs, r.loggerProvider.Shutdown(ctx)),
			wrapSignal(SignalMetrics, r.meterProvider.Shutdown(ctx)),
		)
		if r.shutdownErr != nil {
			logger.Warn("telemetry shutdown incomplete", logger.ErrorFields("shutdown", r.shutdownErr))
		} else {
			logger.Info("telemetry flushed and shut down")
		}
	})
	return r.shutdownErr
}

// Health reports healthy until Shutdown has been called.
func (r *Registry) Health(_ context.Context) component.Health {
	if r.closed.Load() {
		return component.Health{
			Name:    ComponentName,
			Status:  component.StatusUnhealthy,
			Message: "shut down",
		}
	}
	return component.Health{
		Name:    ComponentName,
		Status:  component.StatusHealthy,
		Message: r.description,
	}
}

func wrapSignal(signal string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", signal, err)
}
