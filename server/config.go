package server

import (
	"os"
	"strconv"

	"github.com/kbukum/otelfunc/validation"
)

// PortEnv is set by the Azure Functions host to the port the custom handler
// must listen on.
const PortEnv = "FUNCTIONS_CUSTOMHANDLER_PORT"

// DefaultPort is used when neither config nor PortEnv provide one.
const DefaultPort = 8080

// Config holds HTTP server configuration.
type Config struct {
	Host            string `yaml:"host" mapstructure:"host"`
	Port            int    `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     int    `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`         // seconds
	WriteTimeout    int    `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`       // seconds
	IdleTimeout     int    `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`         // seconds
	ShutdownTimeout int    `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gte=0"` // seconds
}

// ApplyDefaults sets default values for unset fields. An unset port is
// taken from FUNCTIONS_CUSTOMHANDLER_PORT, else DefaultPort.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = portFromEnv()
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.Struct(c)
}

func portFromEnv() int {
	if v := os.Getenv(PortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			return port
		}
	}
	return DefaultPort
}
