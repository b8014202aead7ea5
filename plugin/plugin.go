// Package plugin defines the plugin system for steward.
// Plugins are notified of evaluation and lifecycle events and can react
// with auditing, metrics or logging.
//
// Each hook is a separate interface so plugins opt in only to the events
// they care about.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// Event describes one evaluation. Fields that do not apply to the
// operation are left empty.
type Event struct {
	TenantID     string
	UserID       string
	Operation    string // "scope", "can_perform", "filter", "access_resource"
	ResourceType string
	ResourceID   string
	Action       string
	Scope        string
	Filter       string
	Allowed      bool
	Reason       string
	Duration     time.Duration
}

// Degradation describes a lookup failure recovered by narrowing access.
type Degradation struct {
	TenantID string
	UserID   string
	Kind     string // "identity", "malformed_permissions", "unknown_scope", "team"
	Detail   string
}

// ──────────────────────────────────────────────────
// Evaluation hooks
// ──────────────────────────────────────────────────

// BeforeEvaluate is called before a decision is computed. Only the
// request fields of ev are set.
type BeforeEvaluate interface {
	OnBeforeEvaluate(ctx context.Context, ev *Event) error
}

// AfterEvaluate is called once a decision is computed.
type AfterEvaluate interface {
	OnAfterEvaluate(ctx context.Context, ev *Event) error
}

// Degraded is called whenever a lookup failure narrowed a decision.
type Degraded interface {
	OnDegraded(ctx context.Context, d *Degradation) error
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// CacheInvalidated is called after cached identities are dropped. An empty
// userID means the whole tenant.
type CacheInvalidated interface {
	OnCacheInvalidated(ctx context.Context, tenantID, userID string) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
