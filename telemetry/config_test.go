package telemetry

import (
	"strings"
	"testing"
	"time"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Endpoint != "http://localhost:4317" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.Protocol != ProtocolGRPC {
		t.Errorf("expected protocol grpc, got %q", cfg.Protocol)
	}
	if cfg.Exporter != ExporterOTLP {
		t.Errorf("expected exporter otlp, got %q", cfg.Exporter)
	}
	if cfg.ServiceName != "otel-azure-function" {
		t.Errorf("expected service name 'otel-azure-function', got %q", cfg.ServiceName)
	}
	if cfg.MetricInterval != 10*time.Second {
		t.Errorf("expected 10s metric interval, got %v", cfg.MetricInterval)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.SampleRate)
	}
}

func TestConfigApplyDefaultsKeepsValues(t *testing.T) {
	cfg := Config{Endpoint: "https://collector:4317", Protocol: ProtocolHTTP, MetricInterval: time.Second}
	cfg.ApplyDefaults()

	if cfg.Endpoint != "https://collector:4317" {
		t.Errorf("endpoint overwritten: %q", cfg.Endpoint)
	}
	if cfg.Protocol != ProtocolHTTP {
		t.Errorf("protocol overwritten: %q", cfg.Protocol)
	}
	if cfg.MetricInterval != time.Second {
		t.Errorf("interval overwritten: %v", cfg.MetricInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults valid", func(c *Config) {}, ""},
		{"bad protocol", func(c *Config) { c.Protocol = "thrift" }, "protocol"},
		{"bad exporter", func(c *Config) { c.Exporter = "zipkin" }, "exporter"},
		{"sample rate too high", func(c *Config) { c.SampleRate = 1.5 }, "sample_rate"},
		{"negative interval", func(c *Config) { c.MetricInterval = -time.Second }, "metric_interval"},
		{"bad endpoint scheme", func(c *Config) { c.Endpoint = "ftp://collector:4317" }, "unsupported scheme"},
		{"tls with http endpoint", func(c *Config) { c.TLS.ServerName = "collector" }, "https"},
		{"tls with https endpoint", func(c *Config) {
			c.Endpoint = "https://collector:4317"
			c.TLS.ServerName = "collector"
		}, ""},
		{"client cert without key", func(c *Config) {
			c.Endpoint = "https://collector:4317"
			c.TLS.CertFile = "client.pem"
		}, "key_file"},
		{"bad tls version", func(c *Config) {
			c.Endpoint = "https://collector:4317"
			c.TLS.MinVersion = "1.0"
		}, "min_version"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		host     string
		insecure bool
		wantErr  bool
	}{
		{"http://localhost:4317", "localhost:4317", true, false},
		{"https://collector.example.com:4317", "collector.example.com:4317", false, false},
		{"http://otel-collector:4318/v1/traces", "otel-collector:4318", true, false},
		{"localhost:4317", "localhost:4317", true, false},
		{"  http://localhost:4317  ", "localhost:4317", true, false},
		{"", "", false, true},
		{"http://", "", false, true},
		{"grpc://localhost:4317", "", false, true},
		{"localhost", "", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			ep, err := ParseEndpoint(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", ep)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ep.Host != tc.host {
				t.Errorf("expected host %q, got %q", tc.host, ep.Host)
			}
			if ep.Insecure != tc.insecure {
				t.Errorf("expected insecure=%v, got %v", tc.insecure, ep.Insecure)
			}
		})
	}
}

func TestEndpointString(t *testing.T) {
	if got := (Endpoint{Host: "a:1", Insecure: true}).String(); got != "http://a:1" {
		t.Errorf("expected http://a:1, got %q", got)
	}
	if got := (Endpoint{Host: "a:1"}).String(); got != "https://a:1" {
		t.Errorf("expected https://a:1, got %q", got)
	}
}
