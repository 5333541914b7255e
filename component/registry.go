package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/otelfunc/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

type componentEntry struct {
	component Component
	started   bool
}

// Registry manages component lifecycle with deterministic ordering.
// Components are started in registration order and stopped in reverse order.
type Registry struct {
	entries     []*componentEntry
	lookup      map[string]*componentEntry
	stopTimeout time.Duration
	mu          sync.RWMutex
}

// NewRegistry creates a new component registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:     make([]*componentEntry, 0),
		lookup:      make(map[string]*componentEntry),
		stopTimeout: DefaultStopTimeout,
	}
}

// SetStopTimeout changes the per-component Stop deadline.
func (r *Registry) SetStopTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d > 0 {
		r.stopTimeout = d
	}
}

// Register adds a component to the registry. Components are started in
// the order they are registered, so register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}

	entry := &componentEntry{component: c}
	r.entries = append(r.entries, entry)
	r.lookup[name] = entry

	logger.Debug("Component registered", map[string]interface{}{
		logger.FieldComponent: name,
	})
	return nil
}

// StartAll starts all components in registration order. On failure the
// components already started are stopped again in reverse order.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	logger.Info("Starting all components", map[string]interface{}{
		"count": len(r.entries),
	})

	for _, entry := range r.entries {
		name := entry.component.Name()

		logger.Debug("Starting component", map[string]interface{}{logger.FieldComponent: name})
		if err := entry.component.Start(ctx); err != nil {
			logger.Error("Component start failed", map[string]interface{}{
				logger.FieldComponent: name,
				logger.FieldError:     err.Error(),
			})
			started := r.takeStarted()
			r.mu.Unlock()

			startErr := fmt.Errorf("failed to start %s: %w", name, err)
			if stopErr := r.stopEntries(ctx, started); stopErr != nil {
				return errors.Join(startErr, stopErr)
			}
			return startErr
		}

		entry.started = true
		logger.Debug("Component started", map[string]interface{}{logger.FieldComponent: name})
	}
	r.mu.Unlock()

	logger.Info("All components started successfully")
	return nil
}

// StopAll gracefully stops all started components in reverse registration
// order. Every component gets its own deadline; errors are joined. The
// registry lock is not held while components stop, so HealthAll keeps
// answering during shutdown.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	started := r.takeStarted()
	r.mu.Unlock()

	logger.Info("Stopping all components")
	if err := r.stopEntries(ctx, started); err != nil {
		return err
	}
	logger.Info("All components stopped successfully")
	return nil
}

// takeStarted returns the started entries in stop order and marks them
// stopped. It must be called with r.mu held.
func (r *Registry) takeStarted() []*componentEntry {
	var started []*componentEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if entry := r.entries[i]; entry.started {
			entry.started = false
			started = append(started, entry)
		}
	}
	return started
}

func (r *Registry) stopEntries(ctx context.Context, entries []*componentEntry) error {
	r.mu.RLock()
	timeout := r.stopTimeout
	r.mu.RUnlock()

	var errs []error
	for _, entry := range entries {
		name := entry.component.Name()
		logger.Debug("Stopping component", map[string]interface{}{logger.FieldComponent: name})

		stopCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		if err := entry.component.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			logger.Error("Component stop failed", map[string]interface{}{
				logger.FieldComponent: name,
				logger.FieldError:     err.Error(),
			})
		} else {
			logger.Info("Component stopped", map[string]interface{}{
				logger.FieldComponent: name,
				logger.FieldDuration:  time.Since(start).Milliseconds(),
			})
		}
		cancel()
	}
	return errors.Join(errs...)
}

// HealthAll returns health status for all registered components.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.entries))
	for _, entry := range r.entries {
		results = append(results, entry.component.Health(ctx))
	}
	return results
}

// Get returns a registered component by name, or nil if not found.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, exists := r.lookup[name]; exists {
		return entry.component
	}
	return nil
}

// All returns all registered components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Component, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, entry.component)
	}
	return result
}
