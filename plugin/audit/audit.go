// Package audit records steward decisions in a checklog store.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/steward/checklog"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin        = (*Plugin)(nil)
	_ plugin.AfterEvaluate = (*Plugin)(nil)
)

// Plugin writes one checklog entry per evaluated decision.
type Plugin struct {
	store      checklog.Store
	logger     *slog.Logger
	deniedOnly bool
	operations map[string]struct{}
	now        func() time.Time
}

// Option configures the audit plugin.
type Option func(*Plugin)

// WithLogger sets the logger for write failures.
func WithLogger(l *slog.Logger) Option { return func(p *Plugin) { p.logger = l } }

// DeniedOnly records only decisions that were not allowed.
func DeniedOnly() Option { return func(p *Plugin) { p.deniedOnly = true } }

// WithOperations limits recording to the named operations ("scope",
// "can_perform", "filter", "access").
func WithOperations(ops ...string) Option {
	return func(p *Plugin) {
		p.operations = make(map[string]struct{}, len(ops))
		for _, op := range ops {
			p.operations[op] = struct{}{}
		}
	}
}

// New creates an audit plugin writing to s.
func New(s checklog.Store, opts ...Option) *Plugin {
	p := &Plugin{store: s, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "audit" }

// OnAfterEvaluate implements plugin.AfterEvaluate. Write failures are
// logged and returned to the registry, which never propagates them.
func (p *Plugin) OnAfterEvaluate(ctx context.Context, ev *plugin.Event) error {
	if p.deniedOnly && ev.Allowed {
		return nil
	}
	if p.operations != nil {
		if _, ok := p.operations[ev.Operation]; !ok {
			return nil
		}
	}
	entry := &checklog.Entry{
		ID:           id.NewCheckLogID(),
		TenantID:     ev.TenantID,
		UserID:       ev.UserID,
		Operation:    ev.Operation,
		Action:       ev.Action,
		ResourceType: ev.ResourceType,
		ResourceID:   ev.ResourceID,
		Scope:        ev.Scope,
		Allowed:      ev.Allowed,
		Reason:       ev.Reason,
		EvalTimeNs:   ev.Duration.Nanoseconds(),
		CreatedAt:    p.now().UTC(),
	}
	if err := p.store.CreateCheckLog(ctx, entry); err != nil {
		p.logger.Debug("steward: audit write failed",
			slog.String("tenant_id", ev.TenantID),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
