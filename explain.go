package steward

import (
	"context"
	"encoding/json"

	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
)

// Explanation is a diagnostic report of how a principal's decision over
// one resource type was reached. It reads the store directly and
// bypasses every cache.
type Explanation struct {
	TenantID       string              `json:"tenant_id"`
	UserID         string              `json:"user_id"`
	ResourceType   string              `json:"resource_type"`
	Principal      string              `json:"principal"`
	RoleName       string              `json:"role_name,omitempty"`
	RoleActive     bool                `json:"role_active"`
	Classification role.Classification `json:"classification"`
	NearMisses     []role.NearMiss     `json:"near_misses,omitempty"`
	Baseline       json.RawMessage     `json:"baseline,omitempty"`
	BaselineError  string              `json:"baseline_error,omitempty"`
	Override       json.RawMessage     `json:"override,omitempty"`
	OverrideError  string              `json:"override_error,omitempty"`
	Effective      permdoc.Document    `json:"effective"`
	Scope          Scope               `json:"scope"`
	Reason         string              `json:"reason"`
	Filter         Filter              `json:"filter"`
	Notes          []string            `json:"notes,omitempty"`
}

// Explain reports every step of the scope decision for userID over
// resourceType.
func (e *Engine) Explain(ctx context.Context, userID, resourceType string) (*Explanation, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return nil, err
	}
	if resourceType == "" {
		return nil, ErrResourceTypeRequired
	}

	x := &Explanation{
		TenantID:     tenantID,
		UserID:       userID,
		ResourceType: resourceType,
		Effective:    permdoc.Document{},
	}

	p, err := e.store.GetPrincipal(ctx, tenantID, userID)
	switch {
	case store.IsNotFound(err):
		x.Principal = "not found"
	case err != nil:
		x.Principal = "lookup failed: " + err.Error()
	case !p.IsActive:
		x.Principal = "inactive"
	default:
		x.Principal = "active"
	}

	baseline := permdoc.Document{}
	if err == nil && p.IsActive {
		r, rerr := e.store.GetPrincipalRole(ctx, tenantID, userID)
		switch {
		case rerr != nil:
			x.Notes = append(x.Notes, "role lookup: "+rerr.Error())
		case r.TenantID != tenantID:
			x.Notes = append(x.Notes, "role belongs to another tenant")
		default:
			x.RoleName = r.Name
			x.RoleActive = r.IsActive
			x.Baseline = r.Permissions
			x.NearMisses = e.config.Roles.NearMisses(r.Name)
			if r.IsActive {
				x.Classification = e.config.Roles.Classify(r.Name)
				if baseline, rerr = permdoc.Parse(r.Permissions); rerr != nil {
					x.BaselineError = rerr.Error()
				}
			} else {
				x.Notes = append(x.Notes, "role inactive: baseline ignored")
			}
		}

		x.Override = p.Overrides
		override, oerr := permdoc.Parse(p.Overrides)
		if oerr != nil {
			x.OverrideError = oerr.Error()
			x.Notes = append(x.Notes, "override malformed: treated as empty")
		}
		x.Effective = permdoc.Merge(baseline, override)
	}

	for _, nm := range x.NearMisses {
		x.Notes = append(x.Notes, "role name resembles "+nm.Canonical+" ("+nm.Reason+") but does not match")
	}

	snap := &Snapshot{
		Resolved:       err == nil && p.IsActive,
		Classification: x.Classification,
		Permissions:    x.Effective,
	}
	// Evaluate on a private memo so the report reflects the store.
	ectx := context.WithValue(ctx, ctxKeyMemo, newMemo())
	memoFromContext(ectx).values[memoKey{memoSnapshot, tenantID, userID}] = snap
	x.Scope, x.Reason = e.scopeOf(ectx, tenantID, userID, resourceType, permdoc.KeyViewScope)
	x.Filter = e.filterFor(ectx, tenantID, userID, x.Scope)
	return x, nil
}
