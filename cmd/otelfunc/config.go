package main

import (
	"fmt"

	"github.com/kbukum/otelfunc/config"
	"github.com/kbukum/otelfunc/server"
	"github.com/kbukum/otelfunc/telemetry"
	"github.com/kbukum/otelfunc/version"
)

// Config is the configuration of the custom handler process.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
	Server    server.Config    `yaml:"server" mapstructure:"server"`
}

// ApplyDefaults fills the base config, then copies the service identity
// into the telemetry resource settings where those are unset.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = telemetry.DefaultServiceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()
	c.Server.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	return nil
}

// loadConfig reads config.yml and .env, then the variables the Functions
// host and the OpenTelemetry convention define.
func loadConfig(opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	opts = append([]config.LoaderOption{
		config.WithEnvBinding("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT"),
		config.WithEnvBinding("telemetry.protocol", "OTEL_EXPORTER_OTLP_PROTOCOL"),
		config.WithEnvBinding("telemetry.service_name", "OTEL_SERVICE_NAME"),
		config.WithEnvBinding("server.port", server.PortEnv),
	}, opts...)
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
