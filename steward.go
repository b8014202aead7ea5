// Package steward is a tenant-scoped permission and visibility engine.
//
// For a principal pinned to one tenant it answers which rows of each
// resource type the principal may see (a Scope of none, own, team or all)
// and turns that answer into a Filter the data layer applies to its
// queries. Decisions combine a role's baseline permission document with
// the principal's own overrides. Administrators bypass scoping entirely.
//
// Lookup failures never widen access: a missing principal, role, team or
// a malformed document degrades to the narrowest decision. Only caller
// contract violations, such as a context without a tenant, are returned
// as errors.
//
//	ctx := steward.WithTenant(ctx, tenantID)
//	f, err := eng.BuildFilter(ctx, userID, "candidates")
package steward

import "github.com/xraph/steward/id"

// ID is the identifier type used by steward entities.
type ID = id.ID

// Scope is the breadth of rows a principal may see for a resource type.
// Scopes are ordered: ScopeNone < ScopeOwn < ScopeTeam < ScopeAll.
type Scope uint8

const (
	ScopeNone Scope = iota
	ScopeOwn
	ScopeTeam
	ScopeAll
)

// ParseScope parses the textual scope. It reports false for anything
// outside none, own, team and all.
func ParseScope(s string) (Scope, bool) {
	switch s {
	case "none":
		return ScopeNone, true
	case "own":
		return ScopeOwn, true
	case "team":
		return ScopeTeam, true
	case "all":
		return ScopeAll, true
	default:
		return ScopeNone, false
	}
}

func (s Scope) String() string {
	switch s {
	case ScopeOwn:
		return "own"
	case ScopeTeam:
		return "team"
	case ScopeAll:
		return "all"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values decode
// to ScopeNone.
func (s *Scope) UnmarshalText(b []byte) error {
	*s, _ = ParseScope(string(b))
	return nil
}

// Grant is the answer to CanPerform. Scoped is set for actions whose name
// ends in "_scope"; for those Scope carries the decision and Allowed is
// true when Scope is wider than none.
type Grant struct {
	Allowed bool  `json:"allowed"`
	Scoped  bool  `json:"scoped"`
	Scope   Scope `json:"scope"`
}

// Resource identifies one row for CanAccessResource. OwnerID is the user
// recorded as its creator, if the caller knows it.
type Resource struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	OwnerID string `json:"owner_id,omitempty"`
}
