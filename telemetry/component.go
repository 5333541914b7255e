package telemetry

import (
	"context"

	"github.com/kbukum/otelfunc/component"
)

// ComponentName is the lifecycle name of the telemetry component.
const ComponentName = "telemetry"

// Component adapts a Registry to the component lifecycle. Register it before
// the HTTP server so that it stops after the server has drained.
type Component struct {
	registry *Registry
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps reg.
func NewComponent(reg *Registry) *Component {
	return &Component{registry: reg}
}

func (c *Component) Name() string { return ComponentName }

// Start is a no-op; the providers are running once New returns.
func (c *Component) Start(context.Context) error { return nil }

// Stop flushes buffered telemetry and shuts the providers down.
func (c *Component) Stop(ctx context.Context) error {
	return c.registry.Shutdown(ctx)
}

func (c *Component) Health(ctx context.Context) component.Health {
	return c.registry.Health(ctx)
}

// Registry returns the wrapped registry.
func (c *Component) Registry() *Registry { return c.registry }
