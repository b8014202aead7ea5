package steward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/plugin"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
)

// Engine evaluates classification, scopes and filters against a store.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	store      store.Reader
	cache      Cache
	plugins    *plugin.Registry
	logger     *slog.Logger
	config     Config
	registry   *permdoc.Registry
	teamWalker TeamWalker
}

// NewEngine creates a steward engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, ErrStoreRequired
	}
	if e.config.Roles.IsZero() {
		e.config.Roles = role.DefaultVocabulary()
	}
	if err := e.config.validate(); err != nil {
		return nil, err
	}
	e.registry = e.config.registry()
	if e.teamWalker == nil {
		e.teamWalker = DefaultTeamWalker(e.config.TeamPolicy, e.config.MaxTeamDepth)
	}
	return e, nil
}

// Store returns the underlying store.
func (e *Engine) Store() store.Reader { return e.store }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// ResourceTypes returns the resource types documents may grant.
func (e *Engine) ResourceTypes() []permdoc.ResourceType { return e.registry.Types() }

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop notifies plugins of shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// Invalidate drops the cached identity of userID in the pinned tenant,
// both from the shared cache and from the request memo.
func (e *Engine) Invalidate(ctx context.Context, userID string) error {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return err
	}
	if userID == "" {
		return ErrUserRequired
	}
	if e.cache != nil {
		e.cache.InvalidateSubject(ctx, tenantID, userID)
	}
	if m := memoFromContext(ctx); m != nil {
		m.forget(tenantID, userID)
	}
	if e.plugins != nil {
		e.plugins.EmitCacheInvalidated(ctx, tenantID, userID)
	}
	return nil
}

// InvalidateTenant drops every cached identity of the pinned tenant.
func (e *Engine) InvalidateTenant(ctx context.Context) error {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.InvalidateTenant(ctx, tenantID)
	}
	if m := memoFromContext(ctx); m != nil {
		m.forget(tenantID, "")
	}
	if e.plugins != nil {
		e.plugins.EmitCacheInvalidated(ctx, tenantID, "")
	}
	return nil
}

// subject validates the caller contract shared by every evaluation.
func (e *Engine) subject(ctx context.Context, userID string) (string, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", ErrUserRequired
	}
	return tenantID, nil
}

// snapshot returns the principal's identity, going through the request
// memo and the shared cache when present. It never fails: every lookup
// problem yields a narrower snapshot.
func (e *Engine) snapshot(ctx context.Context, tenantID, userID string) *Snapshot {
	return memoize(ctx, memoKey{memoSnapshot, tenantID, userID}, func() *Snapshot {
		if e.cache != nil {
			if snap, ok := e.cache.Get(ctx, tenantID, userID); ok {
				return snap
			}
		}
		snap, transient := e.resolve(ctx, tenantID, userID)
		if e.cache != nil && !transient {
			e.cache.Set(ctx, tenantID, userID, snap)
		}
		return snap
	})
}

// resolve loads the principal, its role and both permission documents.
// transient reports a store failure other than not-found; such snapshots
// are not cached beyond the request.
func (e *Engine) resolve(ctx context.Context, tenantID, userID string) (snap *Snapshot, transient bool) {
	snap = &Snapshot{Permissions: permdoc.Document{}}

	p, err := e.store.GetPrincipal(ctx, tenantID, userID)
	if err != nil {
		transient = !store.IsNotFound(err)
		e.degrade(ctx, tenantID, userID, "identity", "principal: "+err.Error(), transient)
		return snap, transient
	}
	if !p.IsActive {
		e.degrade(ctx, tenantID, userID, "identity", "principal inactive", false)
		return snap, false
	}
	snap.Resolved = true

	baseline := permdoc.Document{}
	r, err := e.store.GetPrincipalRole(ctx, tenantID, userID)
	switch {
	case err != nil:
		if !store.IsNotFound(err) {
			transient = true
		}
		e.degrade(ctx, tenantID, userID, "identity", "role: "+err.Error(), transient)
	case !r.IsActive:
		e.degrade(ctx, tenantID, userID, "identity", "role "+r.Name+" inactive", false)
	case r.TenantID != tenantID:
		e.degrade(ctx, tenantID, userID, "identity", "role belongs to another tenant", false)
	default:
		snap.Classification = e.config.Roles.Classify(r.Name)
		if baseline, err = permdoc.Parse(r.Permissions); err != nil {
			e.degrade(ctx, tenantID, userID, "malformed_permissions", "role document: "+err.Error(), false)
		}
	}

	override, err := permdoc.Parse(p.Overrides)
	if err != nil {
		e.degrade(ctx, tenantID, userID, "malformed_permissions", "override document: "+err.Error(), false)
	}

	snap.Permissions = permdoc.Merge(baseline, override)
	return snap, transient
}

// degrade logs a recovered failure and notifies plugins.
func (e *Engine) degrade(ctx context.Context, tenantID, userID, kind, detail string, storeFailure bool) {
	level := slog.LevelWarn
	if storeFailure {
		level = slog.LevelError
	} else if kind == "identity" {
		level = slog.LevelDebug
	}
	e.logger.Log(ctx, level, "steward: access narrowed",
		slog.String("tenant_id", tenantID),
		slog.String("user_id", userID),
		slog.String("kind", kind),
		slog.String("detail", detail),
	)
	if e.plugins != nil {
		e.plugins.EmitDegraded(ctx, &plugin.Degradation{
			TenantID: tenantID,
			UserID:   userID,
			Kind:     kind,
			Detail:   detail,
		})
	}
}

// observe wraps a public evaluation with plugin notifications.
func (e *Engine) observe(ctx context.Context, ev *plugin.Event, eval func(ev *plugin.Event)) {
	if e.plugins == nil {
		eval(ev)
		return
	}
	start := time.Now()
	e.plugins.EmitBeforeEvaluate(ctx, ev)
	eval(ev)
	ev.Duration = time.Since(start)
	e.plugins.EmitAfterEvaluate(ctx, ev)
}

// classification is a convenience for callers that only need the kind.
func (e *Engine) classification(ctx context.Context, tenantID, userID string) role.Classification {
	return e.snapshot(ctx, tenantID, userID).Classification
}

// Enforce returns an error wrapping ErrAccessDenied unless userID may
// perform action on resourceType.
func (e *Engine) Enforce(ctx context.Context, userID, resourceType, action string) error {
	g, err := e.CanPerform(ctx, userID, resourceType, action)
	if err != nil {
		return fmt.Errorf("steward: enforce: %w", err)
	}
	if !g.Allowed {
		return fmt.Errorf("%w: %s on %s", ErrAccessDenied, action, resourceType)
	}
	return nil
}

// IsContractError reports whether err is a caller contract violation
// rather than a denial.
func IsContractError(err error) bool {
	return errors.Is(err, ErrTenantRequired) ||
		errors.Is(err, ErrUserRequired) ||
		errors.Is(err, ErrResourceTypeRequired)
}
