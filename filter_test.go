package steward

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestRestrictToUsersNormalizes(t *testing.T) {
	f := RestrictToUsers("9", "", "3", "9")
	if !slices.Equal(f.UserIDs(), []string{"3", "9"}) {
		t.Fatalf("expected sorted unique ids, got %v", f.UserIDs())
	}
	if !RestrictToUsers().IsDenyAll() || !RestrictToUsers("").IsDenyAll() {
		t.Fatal("empty restriction must deny all")
	}
	var zero Filter
	if !zero.IsDenyAll() || zero.Allows("7") {
		t.Fatal("zero filter must deny all")
	}
}

func TestFilterAlgebra(t *testing.T) {
	a := RestrictToUsers("1", "2", "3")
	b := RestrictToUsers("2", "3", "4")

	if got := a.Intersect(b); !got.Equal(RestrictToUsers("2", "3")) {
		t.Fatalf("intersect: %s", got)
	}
	if got := a.Union(b); !got.Equal(RestrictToUsers("1", "2", "3", "4")) {
		t.Fatalf("union: %s", got)
	}
	if got := a.Intersect(Unrestricted()); !got.Equal(a) {
		t.Fatalf("intersect unrestricted: %s", got)
	}
	if got := a.Intersect(DenyAll()); !got.IsDenyAll() {
		t.Fatalf("intersect deny: %s", got)
	}
	if got := a.Union(DenyAll()); !got.Equal(a) {
		t.Fatalf("union deny: %s", got)
	}
	if got := RestrictToUsers("1").Intersect(RestrictToUsers("2")); !got.IsDenyAll() {
		t.Fatalf("disjoint intersect: %s", got)
	}
}

func TestFilterSQL(t *testing.T) {
	tests := []struct {
		name   string
		f      Filter
		ph     Placeholder
		clause string
		args   int
	}{
		{"unrestricted", Unrestricted(), Question, "", 0},
		{"deny", DenyAll(), Question, "1 = 0", 0},
		{"single", RestrictToUsers("7"), Question, "created_by = ?", 1},
		{"many", RestrictToUsers("3", "7", "9"), Question, "created_by IN (?, ?, ?)", 3},
		{"dollar", RestrictToUsers("3", "7"), Dollar, "created_by IN ($2, $3)", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.f.SQL("created_by", tt.ph, 2)
			if clause != tt.clause {
				t.Fatalf("clause = %q, want %q", clause, tt.clause)
			}
			if len(args) != tt.args {
				t.Fatalf("args = %v", args)
			}
		})
	}
}

func TestFilterJSON(t *testing.T) {
	for _, f := range []Filter{Unrestricted(), DenyAll(), RestrictToUsers("3", "7")} {
		b, err := json.Marshal(f)
		if err != nil {
			t.Fatal(err)
		}
		var got Filter
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatal(err)
		}
		if !got.Equal(f) {
			t.Fatalf("round trip of %s gave %s (%s)", f, got, b)
		}
	}
	var f Filter
	_ = json.Unmarshal([]byte(`{"kind":"everything"}`), &f)
	if !f.IsDenyAll() {
		t.Fatal("unknown kind must decode to deny all")
	}
}

func TestScopeText(t *testing.T) {
	for _, s := range []Scope{ScopeNone, ScopeOwn, ScopeTeam, ScopeAll} {
		got, ok := ParseScope(s.String())
		if !ok || got != s {
			t.Fatalf("ParseScope(%q) = %v, %v", s, got, ok)
		}
	}
	if _, ok := ParseScope("All"); ok {
		t.Fatal("scope parsing must be exact")
	}
	var s Scope = ScopeAll
	_ = s.UnmarshalText([]byte("bogus"))
	if s != ScopeNone {
		t.Fatalf("unknown scope text must decode to none, got %s", s)
	}
}
