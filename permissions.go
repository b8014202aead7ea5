package steward

import (
	"context"
	"fmt"

	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/plugin"
)

// Decision reasons recorded on plugin events and explanations.
const (
	reasonAdministrator   = "administrator"
	reasonUnresolved      = "principal unresolved"
	reasonUnknownResource = "unknown resource type"
	reasonNoSection       = "no section"
	reasonUnset           = "unset"
	reasonUnknownScope    = "unknown scope value"
	reasonGranted         = "granted"
	reasonNotGranted      = "not granted"
)

// Scope returns the view scope userID holds over resourceType.
func (e *Engine) Scope(ctx context.Context, userID, resourceType string) (Scope, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return ScopeNone, err
	}
	if resourceType == "" {
		return ScopeNone, ErrResourceTypeRequired
	}

	var scope Scope
	e.observe(ctx, &plugin.Event{
		TenantID:     tenantID,
		UserID:       userID,
		Operation:    "scope",
		ResourceType: resourceType,
		Action:       permdoc.KeyViewScope,
	}, func(ev *plugin.Event) {
		var reason string
		scope, reason = e.scopeOf(ctx, tenantID, userID, resourceType, permdoc.KeyViewScope)
		ev.Scope = scope.String()
		ev.Allowed = scope != ScopeNone
		ev.Reason = reason
	})
	return scope, nil
}

// scopeOf evaluates a scope-valued action. Every branch that is not an
// explicit grant resolves to ScopeNone.
func (e *Engine) scopeOf(ctx context.Context, tenantID, userID, resourceType, action string) (Scope, string) {
	snap := e.snapshot(ctx, tenantID, userID)
	if snap.Classification.IsAdministrator() {
		return ScopeAll, reasonAdministrator
	}
	if !snap.Resolved {
		return ScopeNone, reasonUnresolved
	}
	rt := permdoc.ResourceType(resourceType)
	if !e.registry.Known(rt) {
		return ScopeNone, reasonUnknownResource
	}
	if _, ok := snap.Permissions.Section(rt); !ok {
		return ScopeNone, reasonNoSection
	}
	raw, ok := snap.Permissions.Lookup(resourceType, action)
	if !ok {
		return ScopeNone, reasonUnset
	}
	text, isText := raw.(string)
	scope, ok := ParseScope(text)
	if !isText || !ok {
		e.degrade(ctx, tenantID, userID, "unknown_scope", fmt.Sprintf("%s.%s=%v", resourceType, action, raw), false)
		return ScopeNone, reasonUnknownScope
	}
	return scope, reasonGranted
}

// CanPerform reports whether userID may perform action on resourceType.
// Actions ending in "_scope" answer with a scope in Grant.Scope; every
// other action is granted only by a boolean true.
func (e *Engine) CanPerform(ctx context.Context, userID, resourceType, action string) (Grant, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return Grant{}, err
	}
	if resourceType == "" {
		return Grant{}, ErrResourceTypeRequired
	}

	var g Grant
	e.observe(ctx, &plugin.Event{
		TenantID:     tenantID,
		UserID:       userID,
		Operation:    "can_perform",
		ResourceType: resourceType,
		Action:       action,
	}, func(ev *plugin.Event) {
		var reason string
		g, reason = e.perform(ctx, tenantID, userID, resourceType, action)
		if g.Scoped {
			ev.Scope = g.Scope.String()
		}
		ev.Allowed = g.Allowed
		ev.Reason = reason
	})
	return g, nil
}

func (e *Engine) perform(ctx context.Context, tenantID, userID, resourceType, action string) (Grant, string) {
	if permdoc.IsScopeAction(action) {
		scope, reason := e.scopeOf(ctx, tenantID, userID, resourceType, action)
		return Grant{Allowed: scope != ScopeNone, Scoped: true, Scope: scope}, reason
	}

	snap := e.snapshot(ctx, tenantID, userID)
	switch {
	case snap.Classification.IsAdministrator():
		return Grant{Allowed: true}, reasonAdministrator
	case !snap.Resolved:
		return Grant{}, reasonUnresolved
	case !e.registry.Known(permdoc.ResourceType(resourceType)):
		return Grant{}, reasonUnknownResource
	}
	section, ok := snap.Permissions.Section(permdoc.ResourceType(resourceType))
	if !ok {
		return Grant{}, reasonNoSection
	}
	if section.Allowed(action) {
		return Grant{Allowed: true}, reasonGranted
	}
	return Grant{}, reasonNotGranted
}

// HasPermission reports whether the dotted path in the effective document
// holds want. A nil want asks whether the value is boolean true.
// Administrators hold every permission.
func (e *Engine) HasPermission(ctx context.Context, userID, path string, want any) (bool, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return false, err
	}
	snap := e.snapshot(ctx, tenantID, userID)
	if snap.Classification.IsAdministrator() {
		return true, nil
	}
	got, ok := snap.Permissions.LookupPath(path)
	if !ok {
		return false, nil
	}
	if want == nil {
		b, isBool := got.(bool)
		return isBool && b, nil
	}
	return permdoc.Equal(got, want), nil
}

// HasCapability reports whether a top-level flag such as "manage_users"
// is granted. A top-level "all": true grants every flag.
func (e *Engine) HasCapability(ctx context.Context, userID, key string) (bool, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return false, err
	}
	snap := e.snapshot(ctx, tenantID, userID)
	if snap.Classification.IsAdministrator() {
		return true, nil
	}
	return snap.Permissions.Flag(key), nil
}

// CanManageUsers reports whether userID may administer other users.
func (e *Engine) CanManageUsers(ctx context.Context, userID string) (bool, error) {
	return e.HasCapability(ctx, userID, "manage_users")
}

// CanAssignResources reports whether userID may hand resources to others:
// administrators always, supervisors when their document grants
// "assign_resources".
func (e *Engine) CanAssignResources(ctx context.Context, userID string) (bool, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return false, err
	}
	snap := e.snapshot(ctx, tenantID, userID)
	switch {
	case snap.Classification.IsAdministrator():
		return true, nil
	case snap.Classification.IsSupervisor():
		return snap.Permissions.Flag("assign_resources"), nil
	default:
		return false, nil
	}
}

// CanViewReports reports whether userID may view reports at scope: all is
// reserved to administrators, team to administrators and supervisors, own
// to any resolved principal.
func (e *Engine) CanViewReports(ctx context.Context, userID string, scope Scope) (bool, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return false, err
	}
	snap := e.snapshot(ctx, tenantID, userID)
	c := snap.Classification
	switch scope {
	case ScopeAll:
		return c.IsAdministrator(), nil
	case ScopeTeam:
		return c.IsAdministrator() || c.IsSupervisor(), nil
	case ScopeOwn:
		return snap.Resolved, nil
	default:
		return false, nil
	}
}
