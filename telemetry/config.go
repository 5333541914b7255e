package telemetry

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/kbukum/otelfunc/errors"
	"github.com/kbukum/otelfunc/security"
	"github.com/kbukum/otelfunc/validation"
)

const (
	// DefaultEndpoint is used when neither config nor OTEL_EXPORTER_OTLP_ENDPOINT set one.
	DefaultEndpoint = "http://localhost:4317"
	// DefaultServiceName is the service.name resource attribute.
	DefaultServiceName = "otel-azure-function"
	// DefaultMetricInterval is the periodic reader's export interval.
	DefaultMetricInterval = 10 * time.Second
)

// Protocols.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

// Exporter kinds.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Config configures the telemetry pipeline for all three signals.
type Config struct {
	// Endpoint is the OTLP collector address shared by every exporter.
	// "http://" selects an insecure connection, "https://" TLS.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required"`
	// Protocol is the OTLP transport.
	Protocol string `yaml:"protocol" mapstructure:"protocol" validate:"oneof=grpc http/protobuf"`
	// Exporter selects otlp, stdout (debugging) or none.
	Exporter string `yaml:"exporter" mapstructure:"exporter" validate:"oneof=otlp stdout none"`

	ServiceName    string `yaml:"service_name" mapstructure:"service_name" validate:"required"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`

	// MetricInterval is how often the periodic reader exports.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval" validate:"gt=0"`
	// ExportTimeout bounds a single export call. Zero keeps the SDK default.
	ExportTimeout time.Duration `yaml:"export_timeout" mapstructure:"export_timeout" validate:"gte=0"`
	// SampleRate is the head sampling ratio. Zero is replaced by 1.0.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`

	// Prometheus adds a pull reader served by Registry.MetricsHandler.
	Prometheus bool `yaml:"prometheus" mapstructure:"prometheus"`

	// TLS customizes the connection to an https:// endpoint.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Protocol == "" {
		c.Protocol = ProtocolGRPC
	}
	if c.Exporter == "" {
		c.Exporter = ExporterOTLP
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = DefaultMetricInterval
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate checks struct tags and that the endpoint parses.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	endpoint, err := ParseEndpoint(c.Endpoint)
	if err != nil {
		return err
	}
	if endpoint.Insecure && c.TLS.Enabled() {
		return errors.InvalidConfig("telemetry.tls", "requires an https:// endpoint")
	}
	return nil
}

// Endpoint is a parsed collector address.
type Endpoint struct {
	// Host is host[:port] without scheme or path.
	Host string
	// Insecure disables TLS.
	Insecure bool
}

func (e Endpoint) String() string {
	if e.Insecure {
		return "http://" + e.Host
	}
	return "https://" + e.Host
}

// ParseEndpoint splits a collector URL into the host and TLS mode the
// exporters expect. A bare host:port is treated as insecure.
func ParseEndpoint(raw string) (Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Endpoint{}, fmt.Errorf("telemetry endpoint is empty")
	}

	if !strings.Contains(raw, "://") {
		if _, _, err := net.SplitHostPort(raw); err != nil {
			return Endpoint{}, fmt.Errorf("telemetry endpoint %q: %w", raw, err)
		}
		return Endpoint{Host: raw, Insecure: true}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("telemetry endpoint %q: %w", raw, err)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("telemetry endpoint %q has no host", raw)
	}

	switch u.Scheme {
	case "http":
		return Endpoint{Host: u.Host, Insecure: true}, nil
	case "https":
		return Endpoint{Host: u.Host}, nil
	default:
		return Endpoint{}, fmt.Errorf("telemetry endpoint %q: unsupported scheme %q", raw, u.Scheme)
	}
}
