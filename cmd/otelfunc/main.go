// Command otelfunc is an Azure Functions custom handler that answers the
// HttpExample HTTP trigger and emits one span, one log record and one
// counter increment per invocation over OTLP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/otelfunc/bootstrap"
	"github.com/kbukum/otelfunc/function"
	"github.com/kbukum/otelfunc/logger"
	"github.com/kbukum/otelfunc/server"
	"github.com/kbukum/otelfunc/telemetry"
)

const serviceName = "otelfunc"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "otelfunc: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	reg, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	srv, err := newServer(app, reg)
	if err != nil {
		_ = reg.Shutdown(ctx)
		return err
	}

	if err := registerLifecycle(app, reg, srv); err != nil {
		return err
	}
	return app.Run(ctx)
}

// registerLifecycle registers the components and hooks of the handler.
// Telemetry is registered first so it is stopped last, after the server has
// drained and produced its final signals.
func registerLifecycle(app *bootstrap.App[*Config], reg *telemetry.Registry, srv *server.Server) error {
	if err := app.RegisterComponent(telemetry.NewComponent(reg)); err != nil {
		return err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	app.OnStart(func(context.Context) error {
		reg.RegisterGlobal()
		return nil
	})
	app.OnReady(func(context.Context) error {
		app.Logger.Info("Function handler ready", logger.Fields(
			"route", function.Route,
			"addr", srv.Addr(),
		))
		return nil
	})
	// Export what was recorded so far before the server drains, so a drain
	// that exceeds the graceful timeout does not lose it.
	app.OnStop(reg.ForceFlush)
	return nil
}

func newServer(app *bootstrap.App[*Config], reg *telemetry.Registry) (*server.Server, error) {
	srv := server.New(app.Cfg.Server, app.Logger)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(app.Name, app.Components.HealthAll, reg.MetricsHandler())

	h, err := function.New(reg, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("function handler: %w", err)
	}
	function.Register(srv.GinEngine(), h)
	return srv, nil
}
