package steward

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestTeamFilter(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("3", f.role("Supervisor", `{"candidates":{"view_scope":"team"}}`), "")
	f.edge("t1", "3", "7", true)
	f.edge("t1", "3", "9", true)
	f.edge("t1", "3", "8", false)
	f.edge("t2", "3", "5", true)
	eng := f.engine()
	ctx := f.tctx()

	got := mustFilter(t, eng, ctx, "3", "candidates")
	if !got.Equal(RestrictToUsers("3", "7", "9")) {
		t.Fatalf("expected {3,7,9}, got %s", got)
	}
	for _, outsider := range []string{"5", "8"} {
		if got.Allows(outsider) {
			t.Fatalf("filter must not admit %s", outsider)
		}
	}
}

func TestOwnFilter(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"own"}}`), "")
	f.edge("t1", "7", "9", true)
	eng := f.engine()

	got := mustFilter(t, eng, f.tctx(), "7", "candidates")
	if !got.Equal(RestrictToUsers("7")) {
		t.Fatalf("expected {7}, got %s", got)
	}
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t, "t1")
	admin := f.roleIn("t2", "Administrador", `{}`, true)
	f.userIn("t2", "1", admin, "", true)
	f.user("3", f.role("Supervisor", `{"candidates":{"view_scope":"team"}}`), "")
	f.edge("t2", "3", "5", true)
	eng := f.engine()

	// User 1 is an administrator in t2 only.
	if got := mustScope(t, eng, f.tctx(), "1", "candidates"); got != ScopeNone {
		t.Fatalf("t2 administrator resolved in t1 with %s", got)
	}
	if got := mustScope(t, eng, WithTenant(f.ctx, "t2"), "1", "candidates"); got != ScopeAll {
		t.Fatalf("expected all in t2, got %s", got)
	}

	team, err := eng.ResolveTeam(f.tctx(), "3")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(team, []string{"3"}) {
		t.Fatalf("edges of another tenant leaked: %v", team)
	}
}

func TestResolveTeamPolicies(t *testing.T) {
	f := newFixture(t, "t1")
	f.edge("t1", "1", "2", true)
	f.edge("t1", "2", "3", true)
	f.edge("t1", "3", "4", true)
	f.edge("t1", "4", "1", true) // cycle back to the root
	ctx := f.tctx()

	direct := f.engine()
	got, err := direct.ResolveTeam(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"1", "2"}) {
		t.Fatalf("direct: expected [1 2], got %v", got)
	}

	cfg := DefaultConfig()
	cfg.TeamPolicy = TeamTransitive
	transitive := f.engine(WithConfig(cfg))
	got, _ = transitive.ResolveTeam(ctx, "1")
	if !slices.Equal(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("transitive: expected [1 2 3 4], got %v", got)
	}

	cfg.MaxTeamDepth = 2
	rec := &recorder{}
	bounded := f.engine(WithConfig(cfg), WithPlugin(rec))
	got, _ = bounded.ResolveTeam(ctx, "1")
	if !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Fatalf("bounded: expected [1 2 3], got %v", got)
	}
	if kinds := rec.degradedKinds(); len(kinds) != 1 || kinds[0] != "team" {
		t.Fatalf("expected a team degradation, got %v", kinds)
	}

	in, _ := transitive.InTeam(ctx, "1", "4")
	out, _ := direct.InTeam(ctx, "1", "4")
	if !in || out {
		t.Fatalf("InTeam: transitive=%v direct=%v", in, out)
	}
}

func TestTeamLookupFailure(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("3", f.role("Supervisor", `{"candidates":{"view_scope":"team"}}`), "")
	f.edge("t1", "3", "7", true)
	r := &countingReader{Reader: f.s, failTeam: true}
	eng, err := NewEngine(WithStore(r))
	if err != nil {
		t.Fatal(err)
	}

	got := mustFilter(t, eng, f.tctx(), "3", "candidates")
	if !got.Equal(RestrictToUsers("3")) {
		t.Fatalf("expected supervisor-only filter, got %s", got)
	}
}

func TestSupervisor(t *testing.T) {
	f := newFixture(t, "t1")
	f.edge("t1", "3", "7", true)
	f.edge("t1", "4", "8", false)
	eng := f.engine()
	ctx := f.tctx()

	sup, ok, err := eng.Supervisor(ctx, "7")
	if err != nil || !ok || sup != "3" {
		t.Fatalf("Supervisor(7) = %q, %v, %v", sup, ok, err)
	}
	if _, ok, _ := eng.Supervisor(ctx, "8"); ok {
		t.Fatal("inactive edge must not yield a supervisor")
	}
}

type staticWalker []string

func (w staticWalker) Walk(context.Context, MemberLister, string, string) ([]string, error) {
	return w, nil
}

type brokenWalker struct{}

func (brokenWalker) Walk(context.Context, MemberLister, string, string) ([]string, error) {
	return []string{"99"}, errors.New("boom")
}

func TestCustomTeamWalker(t *testing.T) {
	f := newFixture(t, "t1")
	ctx := f.tctx()

	got, _ := f.engine(WithTeamWalker(staticWalker{"9", "3", "9"})).ResolveTeam(ctx, "3")
	if !slices.Equal(got, []string{"3", "9"}) {
		t.Fatalf("expected deduplicated [3 9], got %v", got)
	}
	got, _ = f.engine(WithTeamWalker(brokenWalker{})).ResolveTeam(ctx, "3")
	if !slices.Equal(got, []string{"3"}) {
		t.Fatalf("failed walk must collapse to the supervisor, got %v", got)
	}
}
