package steward

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// FilterKind tags a Filter.
type FilterKind uint8

const (
	// FilterDenyAll matches no rows. It is the zero kind.
	FilterDenyAll FilterKind = iota
	// FilterRestricted matches rows owned by a fixed set of users.
	FilterRestricted
	// FilterUnrestricted matches every row of the tenant.
	FilterUnrestricted
)

func (k FilterKind) String() string {
	switch k {
	case FilterRestricted:
		return "restricted"
	case FilterUnrestricted:
		return "unrestricted"
	default:
		return "deny_all"
	}
}

// Filter is the visibility predicate handed to the data layer. The zero
// value denies everything.
//
// A Filter never replaces tenant isolation: queries must still be
// constrained by tenant id whatever the filter says.
type Filter struct {
	kind  FilterKind
	users []string
}

// Unrestricted returns a filter matching every row.
func Unrestricted() Filter { return Filter{kind: FilterUnrestricted} }

// DenyAll returns a filter matching no rows.
func DenyAll() Filter { return Filter{} }

// RestrictToUsers returns a filter matching rows owned by ids. Empty ids
// are dropped; with none left the result is DenyAll.
func RestrictToUsers(ids ...string) Filter {
	users := make([]string, 0, len(ids))
	for _, u := range ids {
		if u != "" {
			users = append(users, u)
		}
	}
	if len(users) == 0 {
		return DenyAll()
	}
	slices.Sort(users)
	return Filter{kind: FilterRestricted, users: slices.Compact(users)}
}

// Kind returns the filter's tag.
func (f Filter) Kind() FilterKind { return f.kind }

func (f Filter) IsUnrestricted() bool { return f.kind == FilterUnrestricted }
func (f Filter) IsDenyAll() bool      { return f.kind == FilterDenyAll }

// UserIDs returns the permitted owners of a restricted filter in sorted
// order, or nil for the other kinds.
func (f Filter) UserIDs() []string { return slices.Clone(f.users) }

// Allows reports whether a row owned by ownerID passes the filter.
func (f Filter) Allows(ownerID string) bool {
	switch f.kind {
	case FilterUnrestricted:
		return true
	case FilterRestricted:
		_, found := slices.BinarySearch(f.users, ownerID)
		return found
	default:
		return false
	}
}

// Intersect returns the filter matching rows that pass both f and g.
func (f Filter) Intersect(g Filter) Filter {
	switch {
	case f.kind == FilterDenyAll || g.kind == FilterDenyAll:
		return DenyAll()
	case f.kind == FilterUnrestricted:
		return g
	case g.kind == FilterUnrestricted:
		return f
	}
	var both []string
	for _, u := range f.users {
		if g.Allows(u) {
			both = append(both, u)
		}
	}
	return RestrictToUsers(both...)
}

// Union returns the filter matching rows that pass either f or g.
func (f Filter) Union(g Filter) Filter {
	switch {
	case f.kind == FilterUnrestricted || g.kind == FilterUnrestricted:
		return Unrestricted()
	case f.kind == FilterDenyAll:
		return g
	case g.kind == FilterDenyAll:
		return f
	}
	return RestrictToUsers(append(slices.Clone(f.users), g.users...)...)
}

// Equal reports whether f and g match the same rows.
func (f Filter) Equal(g Filter) bool {
	return f.kind == g.kind && slices.Equal(f.users, g.users)
}

func (f Filter) String() string {
	if f.kind != FilterRestricted {
		return f.kind.String()
	}
	return "restricted(" + strings.Join(f.users, ",") + ")"
}

type filterJSON struct {
	Kind    string   `json:"kind"`
	UserIDs []string `json:"user_ids,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal(filterJSON{Kind: f.kind.String(), UserIDs: f.users})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown kinds decode to
// DenyAll.
func (f *Filter) UnmarshalJSON(b []byte) error {
	var v filterJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("steward: decode filter: %w", err)
	}
	switch v.Kind {
	case "unrestricted":
		*f = Unrestricted()
	case "restricted":
		*f = RestrictToUsers(v.UserIDs...)
	default:
		*f = DenyAll()
	}
	return nil
}

// Placeholder selects the bind-parameter syntax produced by Filter.SQL.
type Placeholder uint8

const (
	// Question renders "?" placeholders (MySQL, SQLite).
	Question Placeholder = iota
	// Dollar renders "$n" placeholders (PostgreSQL).
	Dollar
)

// SQL renders the filter as a predicate over column. firstArg is the
// ordinal of the first placeholder for Dollar style (1 when the
// predicate's arguments come first).
//
// Unrestricted renders an empty clause, DenyAll renders "1 = 0", one user
// renders "column = ?" and several render "column IN (?, ?)".
func (f Filter) SQL(column string, ph Placeholder, firstArg int) (string, []any) {
	switch f.kind {
	case FilterUnrestricted:
		return "", nil
	case FilterRestricted:
	default:
		return "1 = 0", nil
	}
	if firstArg < 1 {
		firstArg = 1
	}
	args := make([]any, len(f.users))
	marks := make([]string, len(f.users))
	for i, u := range f.users {
		args[i] = u
		if ph == Dollar {
			marks[i] = "$" + strconv.Itoa(firstArg+i)
		} else {
			marks[i] = "?"
		}
	}
	if len(marks) == 1 {
		return column + " = " + marks[0], args
	}
	return column + " IN (" + strings.Join(marks, ", ") + ")", args
}
