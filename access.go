package steward

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/plugin"
	"github.com/xraph/steward/store"
)

// BuildFilter returns the visibility filter userID's queries over
// resourceType must apply: all is Unrestricted, none is DenyAll, own
// restricts to the user and team to the user's resolved team.
func (e *Engine) BuildFilter(ctx context.Context, userID, resourceType string) (Filter, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return DenyAll(), err
	}
	if resourceType == "" {
		return DenyAll(), ErrResourceTypeRequired
	}

	var f Filter
	e.observe(ctx, &plugin.Event{
		TenantID:     tenantID,
		UserID:       userID,
		Operation:    "filter",
		ResourceType: resourceType,
	}, func(ev *plugin.Event) {
		scope, reason := e.scopeOf(ctx, tenantID, userID, resourceType, permdoc.KeyViewScope)
		f = e.filterFor(ctx, tenantID, userID, scope)
		ev.Scope = scope.String()
		ev.Filter = f.String()
		ev.Allowed = !f.IsDenyAll()
		ev.Reason = reason
	})
	return f, nil
}

func (e *Engine) filterFor(ctx context.Context, tenantID, userID string, scope Scope) Filter {
	switch scope {
	case ScopeAll:
		return Unrestricted()
	case ScopeTeam:
		return RestrictToUsers(e.team(ctx, tenantID, userID)...)
	case ScopeOwn:
		return RestrictToUsers(userID)
	default:
		return DenyAll()
	}
}

// BuildFilters builds filters for several resource types concurrently.
// The evaluations share one request memo, so the principal is loaded once.
func (e *Engine) BuildFilters(ctx context.Context, userID string, resourceTypes ...string) (map[string]Filter, error) {
	if _, err := e.subject(ctx, userID); err != nil {
		return nil, err
	}
	ctx = WithRequestMemo(ctx)

	var (
		mu  sync.Mutex
		out = make(map[string]Filter, len(resourceTypes))
		g   errgroup.Group
	)
	for _, rt := range resourceTypes {
		g.Go(func() error {
			f, err := e.BuildFilter(ctx, userID, rt)
			if err != nil {
				return err
			}
			mu.Lock()
			out[rt] = f
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AccessibleUsers returns the role-based filter over user-owned rows:
// administrators see everyone, supervisors their team, any other resolved
// principal only themselves.
func (e *Engine) AccessibleUsers(ctx context.Context, userID string) (Filter, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return DenyAll(), err
	}
	snap := e.snapshot(ctx, tenantID, userID)
	switch {
	case snap.Classification.IsAdministrator():
		return Unrestricted(), nil
	case !snap.Resolved:
		return DenyAll(), nil
	case snap.Classification.IsSupervisor():
		return RestrictToUsers(e.team(ctx, tenantID, userID)...), nil
	default:
		return RestrictToUsers(userID), nil
	}
}

// CanAccessResource reports whether userID may access one row at level:
// administrators and the row's owner always may, anyone else needs an
// active assignment of at least level.
func (e *Engine) CanAccessResource(ctx context.Context, userID string, res Resource, level assignment.AccessLevel) (bool, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return false, err
	}
	if res.Type == "" {
		return false, ErrResourceTypeRequired
	}

	var allowed bool
	e.observe(ctx, &plugin.Event{
		TenantID:     tenantID,
		UserID:       userID,
		Operation:    "access",
		ResourceType: res.Type,
		ResourceID:   res.ID,
		Action:       string(level),
	}, func(ev *plugin.Event) {
		allowed, ev.Reason = e.access(ctx, tenantID, userID, res, level)
		ev.Allowed = allowed
	})
	return allowed, nil
}

func (e *Engine) access(ctx context.Context, tenantID, userID string, res Resource, level assignment.AccessLevel) (bool, string) {
	snap := e.snapshot(ctx, tenantID, userID)
	switch {
	case snap.Classification.IsAdministrator():
		return true, reasonAdministrator
	case !snap.Resolved:
		return false, reasonUnresolved
	case res.OwnerID != "" && res.OwnerID == userID:
		return true, "owner"
	case res.ID == "":
		return false, reasonNotGranted
	}

	a, err := e.store.GetActiveAssignment(ctx, tenantID, userID, res.Type, res.ID)
	if err != nil {
		if !store.IsNotFound(err) {
			e.degrade(ctx, tenantID, userID, "identity", "assignment: "+err.Error(), true)
		}
		return false, reasonNotGranted
	}
	if a.AccessLevel.Satisfies(level) {
		return true, "assigned " + string(a.AccessLevel)
	}
	return false, "assigned " + string(a.AccessLevel) + " below " + string(level)
}

// AssignedResources lists the active assignments held by userID, limited
// to resourceType when it is not empty.
func (e *Engine) AssignedResources(ctx context.Context, userID, resourceType string) ([]*assignment.Assignment, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := e.store.ListActiveAssignments(ctx, tenantID, userID, resourceType)
	if err != nil {
		if !store.IsNotFound(err) {
			e.degrade(ctx, tenantID, userID, "identity", "assignments: "+err.Error(), true)
		}
		return nil, nil
	}
	return list, nil
}
