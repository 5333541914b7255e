// Package function implements the HttpExample function served through the
// Azure Functions custom handler protocol.
//
// Each GET /api/HttpExample opens a "handle-request" span, emits an INFO log
// record and increments http.server.requests before answering
// "Instrumentation Success!". Delivery of that telemetry is left to the
// batching pipeline in package telemetry; the request never waits for it.
//
//	h, err := function.New(reg, log)
//	function.Register(engine, h)
package function
