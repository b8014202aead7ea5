package steward

import (
	"context"
	"sync"
	"testing"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/id"
)

// mapCache is an unbounded Cache for tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[[2]string]*Snapshot
}

func newMapCache() *mapCache { return &mapCache{entries: map[[2]string]*Snapshot{}} }

func (c *mapCache) Get(_ context.Context, tenantID, userID string) (*Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[[2]string{tenantID, userID}]
	return s, ok
}

func (c *mapCache) Set(_ context.Context, tenantID, userID string, snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[[2]string{tenantID, userID}] = snap
}

func (c *mapCache) InvalidateTenant(_ context.Context, tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k[0] == tenantID {
			delete(c.entries, k)
		}
	}
}

func (c *mapCache) InvalidateSubject(_ context.Context, tenantID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, [2]string{tenantID, userID})
}

func TestAccessibleUsers(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("1", f.role("Administrador", `{}`), "")
	f.user("3", f.role("Supervisor", `{}`), "")
	f.user("7", f.role("Reclutador", `{}`), "")
	f.edge("t1", "3", "7", true)
	eng := f.engine()
	ctx := f.tctx()

	tests := map[string]Filter{
		"1":   Unrestricted(),
		"3":   RestrictToUsers("3", "7"),
		"7":   RestrictToUsers("7"),
		"404": DenyAll(),
	}
	for uid, want := range tests {
		got, err := eng.AccessibleUsers(ctx, uid)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Errorf("AccessibleUsers(%s) = %s, want %s", uid, got, want)
		}
	}
}

func TestCanAccessResource(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("1", f.role("Administrador", `{}`), "")
	f.user("7", f.role("Reclutador", `{}`), "")
	_ = f.s.CreateAssignment(f.ctx, &assignment.Assignment{
		ID: id.NewAssignmentID(), TenantID: "t1", ResourceType: "candidates", ResourceID: "123",
		AssignedTo: "7", AccessLevel: assignment.AccessWrite, IsActive: true,
	})
	_ = f.s.CreateAssignment(f.ctx, &assignment.Assignment{
		ID: id.NewAssignmentID(), TenantID: "t2", ResourceType: "candidates", ResourceID: "555",
		AssignedTo: "7", AccessLevel: assignment.AccessFull, IsActive: true,
	})
	eng := f.engine()
	ctx := f.tctx()

	tests := []struct {
		name  string
		user  string
		res   Resource
		level assignment.AccessLevel
		want  bool
	}{
		{"admin", "1", Resource{Type: "candidates", ID: "999"}, assignment.AccessFull, true},
		{"owner", "7", Resource{Type: "candidates", ID: "999", OwnerID: "7"}, assignment.AccessFull, true},
		{"assigned read", "7", Resource{Type: "candidates", ID: "123"}, assignment.AccessRead, true},
		{"assigned write", "7", Resource{Type: "candidates", ID: "123"}, assignment.AccessWrite, true},
		{"assigned below full", "7", Resource{Type: "candidates", ID: "123"}, assignment.AccessFull, false},
		{"other tenant", "7", Resource{Type: "candidates", ID: "555"}, assignment.AccessRead, false},
		{"not assigned", "7", Resource{Type: "candidates", ID: "999", OwnerID: "8"}, assignment.AccessRead, false},
		{"unknown principal", "404", Resource{Type: "candidates", ID: "123", OwnerID: "404"}, assignment.AccessRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eng.CanAccessResource(ctx, tt.user, tt.res, tt.level)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}

	list, err := eng.AssignedResources(ctx, "7", "candidates")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ResourceID != "123" {
		t.Fatalf("expected the t1 assignment only, got %d", len(list))
	}
}

func TestSharedCacheInvalidation(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"own"}}`), "")
	cache := newMapCache()
	eng := f.engine(WithCache(cache))
	ctx := f.tctx()

	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeOwn {
		t.Fatalf("expected own, got %s", got)
	}
	if err := f.s.SetOverrides(f.ctx, "t1", "7", []byte(`{"candidates":{"view_scope":"all"}}`)); err != nil {
		t.Fatal(err)
	}
	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeOwn {
		t.Fatalf("expected cached own before invalidation, got %s", got)
	}
	if err := eng.Invalidate(ctx, "7"); err != nil {
		t.Fatal(err)
	}
	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeAll {
		t.Fatalf("expected all after invalidation, got %s", got)
	}

	_ = f.s.SetOverrides(f.ctx, "t1", "7", nil)
	if err := eng.InvalidateTenant(ctx); err != nil {
		t.Fatal(err)
	}
	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeOwn {
		t.Fatalf("expected own after tenant invalidation, got %s", got)
	}
}

func TestRequestMemoInvalidation(t *testing.T) {
	f := newFixture(t, "t1")
	f.user("7", f.role("Reclutador", `{"candidates":{"view_scope":"own"}}`), "")
	eng := f.engine()
	ctx := WithRequestMemo(f.tctx())

	_ = mustScope(t, eng, ctx, "7", "candidates")
	_ = f.s.SetOverrides(f.ctx, "t1", "7", []byte(`{"candidates":{"view_scope":"none"}}`))
	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeOwn {
		t.Fatalf("memo must hold for the request, got %s", got)
	}
	_ = eng.Invalidate(ctx, "7")
	if got := mustScope(t, eng, ctx, "7", "candidates"); got != ScopeNone {
		t.Fatalf("expected none after invalidation, got %s", got)
	}
}
