// Package bootstrap runs a service's lifecycle: typed config, logger
// initialization, component start in registration order, hooks, signal
// handling and a bounded graceful shutdown in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil { ... }
//	app.RegisterComponent(telemetry.NewComponent(reg))
//	app.RegisterComponent(server.NewComponent(srv))
//	if err := app.Run(ctx); err != nil { ... }
package bootstrap
