package plugin

import (
	"context"
	"log/slog"
)

type entry[H any] struct {
	name string
	hook H
}

// Registry holds registered plugins and dispatches events. It type-caches
// plugins at registration time so emit calls iterate only over plugins
// implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeEvaluate   []entry[BeforeEvaluate]
	afterEvaluate    []entry[AfterEvaluate]
	degraded         []entry[Degraded]
	cacheInvalidated []entry[CacheInvalidated]
	shutdown         []entry[Shutdown]
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a plugin and caches it under every hook it implements.
// Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeEvaluate); ok {
		r.beforeEvaluate = append(r.beforeEvaluate, entry[BeforeEvaluate]{name, h})
	}
	if h, ok := p.(AfterEvaluate); ok {
		r.afterEvaluate = append(r.afterEvaluate, entry[AfterEvaluate]{name, h})
	}
	if h, ok := p.(Degraded); ok {
		r.degraded = append(r.degraded, entry[Degraded]{name, h})
	}
	if h, ok := p.(CacheInvalidated); ok {
		r.cacheInvalidated = append(r.cacheInvalidated, entry[CacheInvalidated]{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, entry[Shutdown]{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// EmitBeforeEvaluate notifies all plugins that implement BeforeEvaluate.
func (r *Registry) EmitBeforeEvaluate(ctx context.Context, ev *Event) {
	for _, e := range r.beforeEvaluate {
		if err := e.hook.OnBeforeEvaluate(ctx, ev); err != nil {
			r.logHookError("OnBeforeEvaluate", e.name, err)
		}
	}
}

// EmitAfterEvaluate notifies all plugins that implement AfterEvaluate.
func (r *Registry) EmitAfterEvaluate(ctx context.Context, ev *Event) {
	for _, e := range r.afterEvaluate {
		if err := e.hook.OnAfterEvaluate(ctx, ev); err != nil {
			r.logHookError("OnAfterEvaluate", e.name, err)
		}
	}
}

// EmitDegraded notifies all plugins that implement Degraded.
func (r *Registry) EmitDegraded(ctx context.Context, d *Degradation) {
	for _, e := range r.degraded {
		if err := e.hook.OnDegraded(ctx, d); err != nil {
			r.logHookError("OnDegraded", e.name, err)
		}
	}
}

// EmitCacheInvalidated notifies all plugins that implement CacheInvalidated.
func (r *Registry) EmitCacheInvalidated(ctx context.Context, tenantID, userID string) {
	for _, e := range r.cacheInvalidated {
		if err := e.hook.OnCacheInvalidated(ctx, tenantID, userID); err != nil {
			r.logHookError("OnCacheInvalidated", e.name, err)
		}
	}
}

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a hook returns an error. Hook errors
// never reach the caller of the engine.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
