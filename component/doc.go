// Package component defines the lifecycle interface shared by the
// telemetry pipeline and the HTTP server, and a Registry that starts
// components in registration order and stops them in reverse.
//
// Register producers of telemetry after the telemetry component so that
// they are stopped first and their last signals are still flushed:
//
//	reg := component.NewRegistry()
//	reg.Register(telemetry.NewComponent(tel))
//	reg.Register(server.NewComponent(srv))
package component
