package telemetry

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"

	"github.com/kbukum/otelfunc/errors"
)

// Signal names used in errors and logs.
const (
	SignalTraces  = "traces"
	SignalMetrics = "metrics"
	SignalLogs    = "logs"
)

// exporterFactory builds one exporter per signal for a given config.
// Every exporter receives the same Endpoint and, for https, the same TLS
// client config. A nil tls keeps the exporter defaults.
type exporterFactory struct {
	cfg      *Config
	endpoint Endpoint
	tls      *tls.Config
	writer   io.Writer
}

// secure reports whether a custom TLS config applies.
func (f *exporterFactory) secure() bool {
	return !f.endpoint.Insecure && f.tls != nil
}

// spanExporter returns nil when the exporter kind is "none".
func (f *exporterFactory) spanExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var (
		exp sdktrace.SpanExporter
		err error
	)
	switch f.cfg.Exporter {
	case ExporterNone:
		return nil, nil
	case ExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithWriter(f.writer))
	default:
		if f.cfg.Protocol == ProtocolHTTP {
			opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(f.endpoint.Host)}
			if f.endpoint.Insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			} else if f.secure() {
				opts = append(opts, otlptracehttp.WithTLSClientConfig(f.tls))
			}
			if f.cfg.ExportTimeout > 0 {
				opts = append(opts, otlptracehttp.WithTimeout(f.cfg.ExportTimeout))
			}
			exp, err = otlptracehttp.New(ctx, opts...)
		} else {
			opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(f.endpoint.Host)}
			if f.endpoint.Insecure {
				opts = append(opts, otlptracegrpc.WithInsecure())
			} else if f.secure() {
				opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(f.tls)))
			}
			if f.cfg.ExportTimeout > 0 {
				opts = append(opts, otlptracegrpc.WithTimeout(f.cfg.ExportTimeout))
			}
			exp, err = otlptracegrpc.New(ctx, opts...)
		}
	}
	if err != nil {
		return nil, errors.ExporterUnavailable(SignalTraces, err)
	}
	return exp, nil
}

// metricExporter returns nil when the exporter kind is "none".
func (f *exporterFactory) metricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	var (
		exp sdkmetric.Exporter
		err error
	)
	switch f.cfg.Exporter {
	case ExporterNone:
		return nil, nil
	case ExporterStdout:
		exp, err = stdoutmetric.New(stdoutmetric.WithWriter(f.writer))
	default:
		if f.cfg.Protocol == ProtocolHTTP {
			opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(f.endpoint.Host)}
			if f.endpoint.Insecure {
				opts = append(opts, otlpmetrichttp.WithInsecure())
			} else if f.secure() {
				opts = append(opts, otlpmetrichttp.WithTLSClientConfig(f.tls))
			}
			if f.cfg.ExportTimeout > 0 {
				opts = append(opts, otlpmetrichttp.WithTimeout(f.cfg.ExportTimeout))
			}
			exp, err = otlpmetrichttp.New(ctx, opts...)
		} else {
			opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(f.endpoint.Host)}
			if f.endpoint.Insecure {
				opts = append(opts, otlpmetricgrpc.WithInsecure())
			} else if f.secure() {
				opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewTLS(f.tls)))
			}
			if f.cfg.ExportTimeout > 0 {
				opts = append(opts, otlpmetricgrpc.WithTimeout(f.cfg.ExportTimeout))
			}
			exp, err = otlpmetricgrpc.New(ctx, opts...)
		}
	}
	if err != nil {
		return nil, errors.ExporterUnavailable(SignalMetrics, err)
	}
	return exp, nil
}

// logExporter returns nil when the exporter kind is "none".
func (f *exporterFactory) logExporter(ctx context.Context) (sdklog.Exporter, error) {
	var (
		exp sdklog.Exporter
		err error
	)
	switch f.cfg.Exporter {
	case ExporterNone:
		return nil, nil
	case ExporterStdout:
		exp, err = stdoutlog.New(stdoutlog.WithWriter(f.writer))
	default:
		if f.cfg.Protocol == ProtocolHTTP {
			opts := []otlploghttp.Option{otlploghttp.WithEndpoint(f.endpoint.Host)}
			if f.endpoint.Insecure {
				opts = append(opts, otlploghttp.WithInsecure())
			} else if f.secure() {
				opts = append(opts, otlploghttp.WithTLSClientConfig(f.tls))
			}
			if f.cfg.ExportTimeout > 0 {
				opts = append(opts, otlploghttp.WithTimeout(f.cfg.ExportTimeout))
			}
			exp, err = otlploghttp.New(ctx, opts...)
		} else {
			opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(f.endpoint.Host)}
			if f.endpoint.Insecure {
				opts = append(opts, otlploggrpc.WithInsecure())
			} else if f.secure() {
				opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(f.tls)))
			}
			if f.cfg.ExportTimeout > 0 {
				opts = append(opts, otlploggrpc.WithTimeout(f.cfg.ExportTimeout))
			}
			exp, err = otlploggrpc.New(ctx, opts...)
		}
	}
	if err != nil {
		return nil, errors.ExporterUnavailable(SignalLogs, err)
	}
	return exp, nil
}

func (f *exporterFactory) String() string {
	if f.cfg.Exporter != ExporterOTLP {
		return f.cfg.Exporter
	}
	return fmt.Sprintf("otlp %s %s", f.cfg.Protocol, f.endpoint)
}
