// Package config loads service configuration with Viper.
//
// Values come, in increasing priority, from a config.yml found next to the
// service, a .env file, environment variables with the APP_ prefix
// (APP_SERVER_PORT → server.port) and explicit bindings of well-known
// variables to config keys:
//
//	var cfg MyConfig
//	err := config.LoadConfig("otelfunc", &cfg,
//	    config.WithEnvBinding("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT"),
//	)
package config
