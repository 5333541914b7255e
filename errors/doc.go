// Package errors provides the structured error type shared by the HTTP layer
// and the telemetry pipeline. Errors carry a machine-readable code, the HTTP
// status to answer with, and an RFC 7807 style JSON rendering.
package errors
