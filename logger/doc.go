// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and trace correlation: a logger derived with WithContext carries
// the trace_id and span_id of the span active in that context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.GetGlobalLogger().WithComponent("function")
//	log.WithContext(ctx).Info("request handled", logger.Fields("status", 200))
package logger
