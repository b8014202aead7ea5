package steward

import (
	"context"
	"errors"
	"slices"

	"github.com/xraph/steward/store"
)

// ResolveTeam returns the users visible to supervisorID under team scope:
// the supervisor plus their active reports in the pinned tenant, sorted.
// A failed lookup yields the supervisor alone.
func (e *Engine) ResolveTeam(ctx context.Context, supervisorID string) ([]string, error) {
	tenantID, err := e.subject(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(e.team(ctx, tenantID, supervisorID)), nil
}

// team is the memoized team set. Callers must not modify it.
func (e *Engine) team(ctx context.Context, tenantID, supervisorID string) []string {
	return memoize(ctx, memoKey{memoTeam, tenantID, supervisorID}, func() []string {
		members, err := e.teamWalker.Walk(ctx, e.store, tenantID, supervisorID)
		switch {
		case errors.Is(err, ErrTeamDepthExceeded):
			e.degrade(ctx, tenantID, supervisorID, "team", err.Error(), false)
		case err != nil:
			e.degrade(ctx, tenantID, supervisorID, "team", err.Error(), false)
			members = nil
		}
		set := append([]string{supervisorID}, members...)
		slices.Sort(set)
		return slices.Compact(set)
	})
}

// Supervisor returns the supervisor of userID over an active edge.
func (e *Engine) Supervisor(ctx context.Context, userID string) (string, bool, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return "", false, err
	}
	sup, err := e.store.GetSupervisor(ctx, tenantID, userID)
	if err != nil {
		if !store.IsNotFound(err) {
			e.degrade(ctx, tenantID, userID, "team", "supervisor: "+err.Error(), true)
		}
		return "", false, nil
	}
	return sup, sup != "", nil
}

// InTeam reports whether memberID is inside supervisorID's team.
func (e *Engine) InTeam(ctx context.Context, supervisorID, memberID string) (bool, error) {
	tenantID, err := e.subject(ctx, supervisorID)
	if err != nil {
		return false, err
	}
	if memberID == "" {
		return false, ErrUserRequired
	}
	_, found := slices.BinarySearch(e.team(ctx, tenantID, supervisorID), memberID)
	return found, nil
}
