// Package telemetry builds the OpenTelemetry pipeline for traces, logs and
// metrics and keeps the providers in one explicitly constructed Registry.
//
// Every signal goes through a batching stage (batch span processor, batch
// log processor, periodic metric reader) in front of an exporter chosen by
// Config.Exporter and Config.Protocol. All exporters share one endpoint and
// all providers share one Resource.
//
//	reg, err := telemetry.New(ctx, cfg)
//	if err != nil { ... }
//	defer reg.Shutdown(ctx)
//
//	tracer := reg.Tracer("my-tracer")
//	meter := reg.Meter("my-meter")
//
// Shutdown flushes what is still buffered; call it before the process exits.
package telemetry
