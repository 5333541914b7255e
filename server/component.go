package server

import (
	"context"

	"github.com/kbukum/otelfunc/component"
)

// ComponentName is the lifecycle name of the HTTP server component.
const ComponentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component wraps Server to implement component.Component.
type Component struct {
	server *Server
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (sc *Component) Name() string { return ComponentName }

// Start binds and starts serving.
func (sc *Component) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

// Stop drains in-flight requests.
func (sc *Component) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports healthy while the server is serving.
func (sc *Component) Health(_ context.Context) component.Health {
	if sc.server.Running() {
		return component.Health{
			Name:    ComponentName,
			Status:  component.StatusHealthy,
			Message: sc.server.Addr(),
		}
	}
	return component.Health{
		Name:    ComponentName,
		Status:  component.StatusUnhealthy,
		Message: "not serving",
	}
}
