// Package server provides the HTTP server of the function app: a Gin engine
// behind h2c, wrapped as a lifecycle component.
//
// The listen port comes from server.port, else FUNCTIONS_CUSTOMHANDLER_PORT
// (set by the Azure Functions host), else 8080.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery answering with an INTERNAL_ERROR body
//   - RequestID: X-Request-Id generation and propagation
//   - RequestLogger: request logging with duration and trace correlation
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /version: build version information
//   - /metrics: Prometheus scrape endpoint, when enabled
package server
