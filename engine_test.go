package steward

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/plugin"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/store/memory"
	"github.com/xraph/steward/team"
)

// fixture seeds a memory store for one tenant.
type fixture struct {
	t      *testing.T
	ctx    context.Context
	tenant string
	s      *memory.Store
}

func newFixture(t *testing.T, tenantID string) *fixture {
	t.Helper()
	return &fixture{t: t, ctx: context.Background(), tenant: tenantID, s: memory.New()}
}

func (f *fixture) engine(opts ...Option) *Engine {
	f.t.Helper()
	eng, err := NewEngine(append([]Option{WithStore(f.s)}, opts...)...)
	if err != nil {
		f.t.Fatal(err)
	}
	return eng
}

func (f *fixture) role(name, perms string) id.RoleID {
	return f.roleIn(f.tenant, name, perms, true)
}

func (f *fixture) roleIn(tenantID, name, perms string, active bool) id.RoleID {
	f.t.Helper()
	r := &role.Role{ID: id.NewRoleID(), TenantID: tenantID, Name: name, IsActive: active}
	if perms != "" {
		r.Permissions = json.RawMessage(perms)
	}
	if err := f.s.CreateRole(f.ctx, r); err != nil {
		f.t.Fatal(err)
	}
	return r.ID
}

func (f *fixture) user(userID string, roleID id.RoleID, overrides string) {
	f.userIn(f.tenant, userID, roleID, overrides, true)
}

func (f *fixture) userIn(tenantID, userID string, roleID id.RoleID, overrides string, active bool) {
	f.t.Helper()
	p := &principal.Principal{ID: userID, TenantID: tenantID, RoleID: roleID, IsActive: active}
	if overrides != "" {
		p.Overrides = json.RawMessage(overrides)
	}
	if err := f.s.CreatePrincipal(f.ctx, p); err != nil {
		f.t.Fatal(err)
	}
}

func (f *fixture) edge(tenantID, supervisorID, memberID string, active bool) {
	f.t.Helper()
	e := &team.Edge{ID: id.NewEdgeID(), TenantID: tenantID, SupervisorID: supervisorID, MemberID: memberID, IsActive: active}
	if err := f.s.CreateEdge(f.ctx, e); err != nil {
		f.t.Fatal(err)
	}
}

func (f *fixture) tctx() context.Context { return WithTenant(f.ctx, f.tenant) }

// countingReader counts principal loads and can fail team lookups.
type countingReader struct {
	store.Reader
	principalLoads atomic.Int64
	failTeam       bool
	failPrincipal  bool
}

func (c *countingReader) GetPrincipal(ctx context.Context, tenantID, userID string) (*principal.Principal, error) {
	c.principalLoads.Add(1)
	if c.failPrincipal {
		return nil, errors.New("connection reset")
	}
	return c.Reader.GetPrincipal(ctx, tenantID, userID)
}

func (c *countingReader) ListActiveMembers(ctx context.Context, tenantID, supervisorID string) ([]string, error) {
	if c.failTeam {
		return nil, errors.New("connection reset")
	}
	return c.Reader.ListActiveMembers(ctx, tenantID, supervisorID)
}

// recorder is a plugin capturing evaluation and degradation events.
type recorder struct {
	mu       sync.Mutex
	events   []plugin.Event
	degraded []plugin.Degradation
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) OnAfterEvaluate(_ context.Context, ev *plugin.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *recorder) OnDegraded(_ context.Context, d *plugin.Degradation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = append(r.degraded, *d)
	return nil
}

func (r *recorder) degradedKinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.degraded))
	for i, d := range r.degraded {
		out[i] = d.Kind
	}
	return out
}

func mustScope(t *testing.T, eng *Engine, ctx context.Context, userID, rt string) Scope {
	t.Helper()
	s, err := eng.Scope(ctx, userID, rt)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustFilter(t *testing.T, eng *Engine, ctx context.Context, userID, rt string) Filter {
	t.Helper()
	f, err := eng.BuildFilter(ctx, userID, rt)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestNewEngine_RequiresStore(t *testing.T) {
	if _, err := NewEngine(); !errors.Is(err, ErrStoreRequired) {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
}

func TestNewEngine_RejectsUnknownTeamPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TeamPolicy = "everyone"
	if _, err := NewEngine(WithStore(memory.New()), WithConfig(cfg)); !errors.Is(err, ErrUnknownTeamPolicy) {
		t.Fatalf("expected ErrUnknownTeamPolicy, got %v", err)
	}
}

func TestAdministratorBypass(t *testing.T) {
	cases := []struct {
		name      string
		baseline  string
		overrides string
	}{
		{"empty baseline", `{}`, ""},
		{"no baseline", "", ""},
		{"malformed baseline and override", `[1,2`, `{not json`},
		{"restrictive documents", `{"candidates":{"view_scope":"none"}}`, `{"clients":{"view_scope":"own"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, "t1")
			f.user("1", f.role("Administrador", tc.baseline), tc.overrides)
			eng := f.engine()
			ctx := f.tctx()

			for _, rt := range append(eng.ResourceTypes(), "widgets") {
				if got := mustScope(t, eng, ctx, "1", string(rt)); got != ScopeAll {
					t.Fatalf("%s: expected all, got %s", rt, got)
				}
				if !mustFilter(t, eng, ctx, "1", string(rt)).IsUnrestricted() {
					t.Fatalf("%s: expected unrestricted filter", rt)
				}
			}
			if !eng.IsAdministrator(ctx, "1") {
				t.Fatal("expected administrator")
			}
		})
	}
}

func TestNewEngine_ZeroConfigUsesDefaultVocabulary(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("1", f.role("Administrador", `{}`), "")
	f.user("2", f.role("Supervisor", `{}`), "")
	eng := f.engine(WithConfig(Config{}))
	ctx := f.tctx()

	if !eng.IsAdministrator(ctx, "1") {
		t.Fatal("expected administrator under a zero config")
	}
	if !eng.IsSupervisor(ctx, "2") {
		t.Fatal("expected supervisor under a zero config")
	}
	if len(eng.Config().Roles.Administrator) == 0 {
		t.Fatal("expected the default vocabulary to be recorded in the config")
	}
}

func TestDenyByDefault(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Coordinador", `{}`), "")
	eng := f.engine()
	ctx := f.tctx()

	for _, rt := range eng.ResourceTypes() {
		if got := mustScope(t, eng, ctx, "7", string(rt)); got != ScopeNone {
			t.Fatalf("%s: expected none, got %s", rt, got)
		}
		if !mustFilter(t, eng, ctx, "7", string(rt)).IsDenyAll() {
			t.Fatalf("%s: expected deny-all filter", rt)
		}
	}
	c, _ := eng.Classify(ctx, "7")
	if c.Kind != role.KindCustom || c.Name != "Coordinador" {
		t.Fatalf("expected custom role, got %+v", c)
	}
}

func TestClassificationIsExact(t *testing.T) {
	for _, name := range []string{"Administradores", "administrador", " Administrador", "Administrador ", "ADMINISTRADOR"} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, "t1")
			f.user("7", f.role(name, `{}`), "")
			eng := f.engine()
			ctx := f.tctx()

			if eng.IsAdministrator(ctx, "7") {
				t.Fatal("near-miss name must not classify as administrator")
			}
			if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeNone {
				t.Fatalf("expected none, got %s", got)
			}
		})
	}
}

func TestOverridePrecedence(t *testing.T) {
	f := newFixture(t, "t1")
	rid := f.role("Reclutador", `{"candidates":{"view_scope":"own","create":true},"clients":{"view_scope":"own"}}`)
	f.user("7", rid, `{"candidates":{"view_scope":"all","create":false}}`)
	eng := f.engine()
	ctx := f.tctx()

	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeAll {
		t.Fatalf("override must win: got %s", got)
	}
	if got := mustScope(t, eng, ctx, "7", "clients"); got != ScopeOwn {
		t.Fatalf("absent override key falls back to baseline: got %s", got)
	}
	g, err := eng.CanPerform(ctx, "7", "candidates", "create")
	if err != nil {
		t.Fatal(err)
	}
	if g.Allowed {
		t.Fatal("explicit false override must deny")
	}
}

func TestEffectivePermissionsIsPrivateCopy(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"own"}}`), "")
	eng := f.engine()
	ctx := WithRequestMemo(f.tctx())

	doc, err := eng.EffectivePermissions(ctx, "7")
	if err != nil {
		t.Fatal(err)
	}
	doc["candidates"].(map[string]any)["view_scope"] = "all"
	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeOwn {
		t.Fatalf("caller mutation leaked into the memo: got %s", got)
	}
}

func TestMalformedDocuments(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"own"}}`), `{not json`)
	f.user("8", f.role("Roto", `[1,2`), `{"clients":{"view_scope":"team"}}`)
	rec := &recorder{}
	eng := f.engine(WithPlugin(rec))
	ctx := f.tctx()

	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeOwn {
		t.Fatalf("malformed override must be ignored: got %s", got)
	}
	if got := mustScope(t, eng, ctx, "8", "clients"); got != ScopeTeam {
		t.Fatalf("override applies over an unreadable baseline: got %s", got)
	}
	kinds := rec.degradedKinds()
	if len(kinds) != 2 || kinds[0] != "malformed_permissions" || kinds[1] != "malformed_permissions" {
		t.Fatalf("expected two malformed_permissions degradations, got %v", kinds)
	}
}

func TestUnknownScopeValue(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"everything"},"clients":{"view_scope":3}}`), "")
	rec := &recorder{}
	eng := f.engine(WithPlugin(rec))
	ctx := f.tctx()

	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeNone {
		t.Fatalf("expected none, got %s", got)
	}
	if got := mustScope(t, eng, ctx, "7", "clients"); got != ScopeNone {
		t.Fatalf("expected none for non-string scope, got %s", got)
	}
	if kinds := rec.degradedKinds(); len(kinds) != 2 || kinds[0] != "unknown_scope" {
		t.Fatalf("expected unknown_scope degradations, got %v", kinds)
	}
}

func TestUnknownResourceType(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"widgets":{"view_scope":"all"},"candidates":"all"}`), "")
	eng := f.engine()
	ctx := f.tctx()

	if got := mustScope(t, eng, ctx, "7", "widgets"); got != ScopeNone {
		t.Fatalf("unregistered resource type must be none, got %s", got)
	}
	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeNone {
		t.Fatalf("non-mapping section must be none, got %s", got)
	}

	cfg := DefaultConfig()
	cfg.ResourceTypes = []string{"widgets"}
	eng = f.engine(WithConfig(cfg))
	if got := mustScope(t, eng, ctx, "7", "widgets"); got != ScopeAll {
		t.Fatalf("configured resource type must be evaluated, got %s", got)
	}
}

func TestUnresolvedPrincipals(t *testing.T) {
	f := newFixture(t, "t1")
	rid := f.role("Reclutador", `{"candidates":{"view_scope":"all"}}`)
	f.userIn("t1", "8", rid, "", false)
	inactive := f.roleIn("t1", "Administrador", `{}`, false)
	f.user("9", inactive, `{"candidates":{"view_scope":"own"}}`)
	eng := f.engine()
	ctx := f.tctx()

	for _, uid := range []string{"404", "8"} {
		c, err := eng.Classify(ctx, uid)
		if err != nil {
			t.Fatal(err)
		}
		if c.HasRole() {
			t.Fatalf("%s: expected no role, got %+v", uid, c)
		}
		if !mustFilter(t, eng, ctx, uid, "candidates").IsDenyAll() {
			t.Fatalf("%s: expected deny-all", uid)
		}
		doc, _ := eng.EffectivePermissions(ctx, uid)
		if len(doc) != 0 {
			t.Fatalf("%s: expected empty document, got %v", uid, doc)
		}
	}

	// An inactive role contributes nothing, not even administrator status,
	// but the principal's own overrides still apply.
	if eng.IsAdministrator(ctx, "9") {
		t.Fatal("inactive administrator role must not classify")
	}
	if got := mustScope(t, eng, ctx, "9", "candidates"); got != ScopeOwn {
		t.Fatalf("expected override scope own, got %s", got)
	}
}

func TestRoleFromAnotherTenantIsIgnored(t *testing.T) {
	f := newFixture(t, "t1")
	foreign := f.roleIn("t2", "Administrador", `{}`, true)
	f.user("7", foreign, "")
	eng := f.engine()

	if eng.IsAdministrator(f.tctx(), "7") {
		t.Fatal("a role owned by another tenant must not apply")
	}
}

func TestMissingTenantIsAnError(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("1", f.role("Administrador", `{}`), "")
	eng := f.engine()
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["Classify"] = eng.Classify(ctx, "1")
	_, checks["Scope"] = eng.Scope(ctx, "1", "candidates")
	_, checks["CanPerform"] = eng.CanPerform(ctx, "1", "candidates", "create")
	_, checks["BuildFilter"] = eng.BuildFilter(ctx, "1", "candidates")
	_, checks["BuildFilters"] = eng.BuildFilters(ctx, "1", "candidates")
	_, checks["ResolveTeam"] = eng.ResolveTeam(ctx, "1")
	_, checks["EffectivePermissions"] = eng.EffectivePermissions(ctx, "1")
	_, checks["Explain"] = eng.Explain(ctx, "1", "candidates")
	checks["Invalidate"] = eng.Invalidate(ctx, "1")
	for name, err := range checks {
		if !errors.Is(err, ErrTenantRequired) {
			t.Errorf("%s: expected ErrTenantRequired, got %v", name, err)
		}
		if !IsContractError(err) {
			t.Errorf("%s: expected a contract error", name)
		}
	}
}

func TestContractErrors(t *testing.T) {
	f := newFixture(t, "t1")
	eng := f.engine()
	ctx := f.tctx()

	if _, err := eng.Scope(ctx, "", "candidates"); !errors.Is(err, ErrUserRequired) {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}
	if _, err := eng.BuildFilter(ctx, "7", ""); !errors.Is(err, ErrResourceTypeRequired) {
		t.Fatalf("expected ErrResourceTypeRequired, got %v", err)
	}
	f2, err := eng.BuildFilter(ctx, "7", "")
	if err == nil || !f2.IsDenyAll() {
		t.Fatal("contract violations must come with a deny-all filter")
	}
}

func TestStoreFailureDegrades(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("1", f.role("Administrador", `{}`), "")
	r := &countingReader{Reader: f.s, failPrincipal: true}
	rec := &recorder{}
	eng, err := NewEngine(WithStore(r), WithPlugin(rec), WithCache(newMapCache()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := f.tctx()

	if !mustFilter(t, eng, ctx, "1", "candidates").IsDenyAll() {
		t.Fatal("store failure must deny")
	}
	// The failed snapshot is not cached: recovery is immediate.
	r.failPrincipal = false
	if !mustFilter(t, eng, ctx, "1", "candidates").IsUnrestricted() {
		t.Fatal("expected recovery once the store answers")
	}
	if kinds := rec.degradedKinds(); len(kinds) != 1 || kinds[0] != "identity" {
		t.Fatalf("expected one identity degradation, got %v", kinds)
	}
}

func TestRequestMemoLoadsOnce(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"own"},"clients":{"view_scope":"team"}}`), "")
	r := &countingReader{Reader: f.s}
	eng, err := NewEngine(WithStore(r))
	if err != nil {
		t.Fatal(err)
	}

	types := []string{"candidates", "clients", "vacancies", "interviews", "reports"}
	filters, err := eng.BuildFilters(f.tctx(), "7", types...)
	if err != nil {
		t.Fatal(err)
	}
	if len(filters) != len(types) {
		t.Fatalf("expected %d filters, got %d", len(types), len(filters))
	}
	if !filters["candidates"].Equal(RestrictToUsers("7")) || !filters["vacancies"].IsDenyAll() {
		t.Fatalf("unexpected filters %v", filters)
	}
	if n := r.principalLoads.Load(); n != 1 {
		t.Fatalf("expected one principal load, got %d", n)
	}

	// Without a memo every call loads again.
	r.principalLoads.Store(0)
	ctx := f.tctx()
	_ = mustFilter(t, eng, ctx, "7", "candidates")
	_ = mustFilter(t, eng, ctx, "7", "clients")
	if n := r.principalLoads.Load(); n != 2 {
		t.Fatalf("expected two principal loads without memo, got %d", n)
	}
}

func TestIdempotentFilters(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("3", f.role("Supervisor", `{"candidates":{"view_scope":"team"}}`), "")
	f.edge("t1", "3", "7", true)
	eng := f.engine()
	ctx := f.tctx()

	a := mustFilter(t, eng, ctx, "3", "candidates")
	b := mustFilter(t, eng, ctx, "3", "candidates")
	if !a.Equal(b) {
		t.Fatalf("filters differ: %s vs %s", a, b)
	}
}

func TestCanPerform(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("1", f.role("Administrador", `{}`), "")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"own","edit_scope":"team","create":true,"export":"yes"}}`), "")
	eng := f.engine()
	ctx := f.tctx()

	tests := []struct {
		user, rt, action string
		want             Grant
	}{
		{"1", "candidates", "delete", Grant{Allowed: true}},
		{"1", "candidates", "delete_scope", Grant{Allowed: true, Scoped: true, Scope: ScopeAll}},
		{"7", "candidates", "create", Grant{Allowed: true}},
		{"7", "candidates", "delete", Grant{}},
		{"7", "candidates", "export", Grant{}},
		{"7", "candidates", "edit_scope", Grant{Allowed: true, Scoped: true, Scope: ScopeTeam}},
		{"7", "candidates", "delete_scope", Grant{Scoped: true}},
		{"7", "clients", "create", Grant{}},
		{"7", "widgets", "create", Grant{}},
	}
	for _, tt := range tests {
		got, err := eng.CanPerform(ctx, tt.user, tt.rt, tt.action)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("CanPerform(%s, %s, %s) = %+v, want %+v", tt.user, tt.rt, tt.action, got, tt.want)
		}
	}

	if err := eng.Enforce(ctx, "7", "candidates", "create"); err != nil {
		t.Fatalf("expected create to be enforced as allowed, got %v", err)
	}
	if err := eng.Enforce(ctx, "7", "candidates", "delete"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestHasPermissionAndCapabilities(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("1", f.role("Administrador", `{}`), "")
	f.user("3", f.role("Supervisor", `{"assign_resources":true,"dashboard":{"view_financial":true,"widgets":2}}`), "")
	f.user("4", f.role("Supervisor", `{}`), "")
	f.user("5", f.role("Gerente", `{"all":true}`), "")
	f.user("7", f.role("Reclutador", `{"assign_resources":true}`), "")
	eng := f.engine()
	ctx := f.tctx()

	check := func(name string, got bool, err error, want bool) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	got, err := eng.HasPermission(ctx, "3", "dashboard.view_financial", nil)
	check("supervisor view_financial", got, err, true)
	got, err = eng.HasPermission(ctx, "3", "dashboard.widgets", 2)
	check("supervisor widgets == 2", got, err, true)
	got, err = eng.HasPermission(ctx, "3", "dashboard.widgets", nil)
	check("non-bool value without want", got, err, false)
	got, err = eng.HasPermission(ctx, "7", "dashboard.view_financial", nil)
	check("recruiter view_financial", got, err, false)
	got, err = eng.HasPermission(ctx, "1", "anything.at.all", nil)
	check("admin any path", got, err, true)

	got, err = eng.HasCapability(ctx, "5", "manage_users")
	check("all flag grants manage_users", got, err, true)
	got, err = eng.CanManageUsers(ctx, "3")
	check("supervisor manage_users", got, err, false)

	got, err = eng.CanAssignResources(ctx, "1")
	check("admin assign", got, err, true)
	got, err = eng.CanAssignResources(ctx, "3")
	check("supervisor with flag assign", got, err, true)
	got, err = eng.CanAssignResources(ctx, "4")
	check("supervisor without flag assign", got, err, false)
	got, err = eng.CanAssignResources(ctx, "7")
	check("recruiter with flag assign", got, err, false)
}

func TestCanViewReports(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("1", f.role("Administrador", `{}`), "")
	f.user("3", f.role("Supervisor", `{}`), "")
	f.user("7", f.role("Reclutador", `{}`), "")
	eng := f.engine()
	ctx := f.tctx()

	tests := []struct {
		user  string
		scope Scope
		want  bool
	}{
		{"1", ScopeAll, true},
		{"3", ScopeAll, false},
		{"3", ScopeTeam, true},
		{"7", ScopeTeam, false},
		{"7", ScopeOwn, true},
		{"404", ScopeOwn, false},
		{"1", ScopeNone, false},
	}
	for _, tt := range tests {
		got, err := eng.CanViewReports(ctx, tt.user, tt.scope)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("CanViewReports(%s, %s) = %v, want %v", tt.user, tt.scope, got, tt.want)
		}
	}
}

func TestPluginEventsAndShutdown(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"own"}}`), "")
	rec := &recorder{}
	eng := f.engine(WithPlugin(rec))
	ctx := f.tctx()

	_ = mustFilter(t, eng, ctx, "7", "candidates")
	_, _ = eng.CanPerform(ctx, "7", "candidates", "create")

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Operation != "filter" || ev.Scope != "own" || ev.Filter != "restricted(7)" || !ev.Allowed {
		t.Fatalf("unexpected filter event %+v", ev)
	}
	if rec.events[1].Operation != "can_perform" || rec.events[1].Allowed {
		t.Fatalf("unexpected can_perform event %+v", rec.events[1])
	}
	if err := eng.Stop(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestExplain(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Administradores", `{"candidates":{"view_scope":"own"}}`), `{oops`)
	eng := f.engine()

	x, err := eng.Explain(f.tctx(), "7", "candidates")
	if err != nil {
		t.Fatal(err)
	}
	if x.Classification.Kind != role.KindCustom {
		t.Fatalf("expected custom kind, got %s", x.Classification.Kind)
	}
	if len(x.NearMisses) != 1 || x.NearMisses[0].Canonical != "Administrador" {
		t.Fatalf("expected a near miss on Administrador, got %+v", x.NearMisses)
	}
	if x.OverrideError == "" {
		t.Fatal("expected override parse error to be reported")
	}
	if x.Scope != ScopeOwn || !x.Filter.Equal(RestrictToUsers("7")) {
		t.Fatalf("unexpected decision %s / %s", x.Scope, x.Filter)
	}
	if x.Principal != "active" || x.RoleName != "Administradores" {
		t.Fatalf("unexpected principal report %+v", x)
	}
}
