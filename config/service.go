package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/kbukum/otelfunc/logger"
)

// ServiceConfig contains the fields every service needs. Services embed it
// in their own config structs:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig. The method is promoted
// through embedding, so embedding structs satisfy bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// HostEnvironmentEnv is set by the Functions host to Development, Staging
// or Production.
const HostEnvironmentEnv = "AZURE_FUNCTIONS_ENVIRONMENT"

var validEnvs = []string{"development", "staging", "production"}

// ApplyDefaults applies default values to the base configuration. An unset
// environment is taken from the Functions host, else "development".
// Embedding structs that override it must call c.ServiceConfig.ApplyDefaults().
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = hostEnvironment()
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(validEnvs, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

func hostEnvironment() string {
	env := strings.ToLower(os.Getenv(HostEnvironmentEnv))
	if slices.Contains(validEnvs, env) {
		return env
	}
	return "development"
}
