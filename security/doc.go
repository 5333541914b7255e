// Package security builds the TLS client configuration used by the OTLP
// exporters when the collector endpoint is https://.
//
//	telemetry:
//	  endpoint: https://collector.internal:4317
//	  tls:
//	    ca_file: /etc/otel/ca.pem
//	    cert_file: /etc/otel/client.pem
//	    key_file: /etc/otel/client-key.pem
package security
