// Package metrics exports steward decisions as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin           = (*Plugin)(nil)
	_ plugin.AfterEvaluate    = (*Plugin)(nil)
	_ plugin.Degraded         = (*Plugin)(nil)
	_ plugin.CacheInvalidated = (*Plugin)(nil)
)

// unknownResourceType labels decisions about unregistered resource types.
const unknownResourceType = "unknown"

// Plugin records decision counts, latencies and degradations. Tenant and
// user ids are never used as labels, and resource types outside the known
// set share one label value.
type Plugin struct {
	known         *permdoc.Registry
	decisions     *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	degradations  *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// Option configures the plugin.
type Option func(*Plugin)

// WithResourceTypes sets the resource types labelled by name. Pass the
// engine's ResourceTypes. Defaults to permdoc.DefaultResourceTypes.
func WithResourceTypes(types ...permdoc.ResourceType) Option {
	return func(p *Plugin) { p.known = permdoc.NewRegistry(types...) }
}

// New creates the collectors and registers them on reg (the default
// registerer when nil). Collectors already registered by another
// instance are reused.
func New(reg prometheus.Registerer, opts ...Option) (*Plugin, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Plugin{
		known: permdoc.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "steward",
			Name:      "decisions_total",
			Help:      "Number of access decisions by operation, resource type, scope and outcome.",
		}, []string{"operation", "resource_type", "scope", "allowed"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "steward",
			Name:      "decision_duration_seconds",
			Help:      "Time spent computing access decisions.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		degradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "steward",
			Name:      "degradations_total",
			Help:      "Number of lookups that narrowed a decision, by kind.",
		}, []string{"kind"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "steward",
			Name:      "cache_invalidations_total",
			Help:      "Number of snapshot invalidations by breadth.",
		}, []string{"breadth"}),
	}

	for _, opt := range opts {
		opt(p)
	}

	var err error
	if p.decisions, err = register(reg, p.decisions); err != nil {
		return nil, err
	}
	if p.duration, err = register(reg, p.duration); err != nil {
		return nil, err
	}
	if p.degradations, err = register(reg, p.degradations); err != nil {
		return nil, err
	}
	if p.invalidations, err = register(reg, p.invalidations); err != nil {
		return nil, err
	}
	return p, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "metrics" }

// OnAfterEvaluate implements plugin.AfterEvaluate.
func (p *Plugin) OnAfterEvaluate(_ context.Context, ev *plugin.Event) error {
	scope := ev.Scope
	if scope == "" {
		scope = "-"
	}
	p.decisions.WithLabelValues(ev.Operation, p.resourceLabel(ev.ResourceType), scope, strconv.FormatBool(ev.Allowed)).Inc()
	p.duration.WithLabelValues(ev.Operation).Observe(ev.Duration.Seconds())
	return nil
}

func (p *Plugin) resourceLabel(rt string) string {
	if rt == "" || p.known.Known(permdoc.ResourceType(rt)) {
		return rt
	}
	return unknownResourceType
}

// OnDegraded implements plugin.Degraded.
func (p *Plugin) OnDegraded(_ context.Context, d *plugin.Degradation) error {
	p.degradations.WithLabelValues(d.Kind).Inc()
	return nil
}

// OnCacheInvalidated implements plugin.CacheInvalidated.
func (p *Plugin) OnCacheInvalidated(_ context.Context, _, userID string) error {
	breadth := "subject"
	if userID == "" {
		breadth = "tenant"
	}
	p.invalidations.WithLabelValues(breadth).Inc()
	return nil
}
