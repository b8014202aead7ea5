package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/checklog"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/team"
)

func TestRoleCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := &role.Role{
		ID:          id.NewRoleID(),
		TenantID:    "t1",
		Name:        "Supervisor",
		IsActive:    true,
		Permissions: json.RawMessage(`{"candidates":{"view_scope":"team"}}`),
	}

	// Create
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRole(ctx, r); err == nil {
		t.Fatal("expected duplicate create to fail")
	}

	// Get
	got, err := s.GetRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Supervisor" || string(got.Permissions) != string(r.Permissions) {
		t.Fatalf("unexpected role %+v", got)
	}

	// Stored copies are isolated from caller mutation.
	got.Permissions[0] = 'X'
	again, _ := s.GetRole(ctx, r.ID)
	if again.Permissions[0] != '{' {
		t.Fatal("store shares permission bytes with callers")
	}

	// GetByName is exact.
	if _, err := s.GetRoleByName(ctx, "t1", "supervisor"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for case-different name, got %v", err)
	}
	if _, err := s.GetRoleByName(ctx, "t1", "Supervisor"); err != nil {
		t.Fatal(err)
	}

	// Update
	r.IsActive = false
	if err := s.UpdateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	active := true
	list, _ := s.ListRoles(ctx, &role.ListFilter{TenantID: "t1", IsActive: &active})
	if len(list) != 0 {
		t.Fatalf("expected no active roles, got %d", len(list))
	}
	count, _ := s.CountRoles(ctx, &role.ListFilter{TenantID: "t1", Limit: 1, Offset: 5})
	if count != 1 {
		t.Fatalf("count ignores pagination; got %d", count)
	}

	// Delete
	if err := s.DeleteRole(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRole(ctx, r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestPrincipalRoleLookupIsTenantScoped(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := &role.Role{ID: id.NewRoleID(), TenantID: "t1", Name: "Reclutador", IsActive: true}
	_ = s.CreateRole(ctx, r)
	_ = s.CreatePrincipal(ctx, &principal.Principal{ID: "7", TenantID: "t1", RoleID: r.ID, IsActive: true})
	// Same user id in another tenant, pointing at a foreign role.
	_ = s.CreatePrincipal(ctx, &principal.Principal{ID: "7", TenantID: "t2", RoleID: r.ID, IsActive: true})

	got, err := s.GetPrincipalRole(ctx, "t1", "7")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID.String() != r.ID.String() {
		t.Fatalf("wrong role %s", got.ID)
	}
	if _, err := s.GetPrincipalRole(ctx, "t2", "7"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-tenant role must not resolve, got %v", err)
	}
	if _, err := s.GetPrincipalRole(ctx, "t1", "8"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetOverrides(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreatePrincipal(ctx, &principal.Principal{ID: "7", TenantID: "t1", IsActive: true})

	if err := s.SetOverrides(ctx, "t1", "7", json.RawMessage(`{"clients":{"view_scope":"all"}}`)); err != nil {
		t.Fatal(err)
	}
	p, _ := s.GetPrincipal(ctx, "t1", "7")
	if string(p.Overrides) != `{"clients":{"view_scope":"all"}}` {
		t.Fatalf("overrides not stored: %s", p.Overrides)
	}
	if err := s.SetOverrides(ctx, "t1", "7", nil); err != nil {
		t.Fatal(err)
	}
	p, _ = s.GetPrincipal(ctx, "t1", "7")
	if len(p.Overrides) != 0 {
		t.Fatalf("overrides not cleared: %s", p.Overrides)
	}
	if err := s.SetOverrides(ctx, "t9", "7", nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTeamEdges(t *testing.T) {
	ctx := context.Background()
	s := New()

	add := func(tenant, sup, member string, active bool) *team.Edge {
		e := &team.Edge{ID: id.NewEdgeID(), TenantID: tenant, SupervisorID: sup, MemberID: member, IsActive: active}
		if err := s.CreateEdge(ctx, e); err != nil {
			t.Fatal(err)
		}
		return e
	}
	add("t1", "3", "9", true)
	e7 := add("t1", "3", "7", true)
	add("t1", "3", "8", false)
	add("t2", "3", "5", true)

	members, err := s.ListActiveMembers(ctx, "t1", "3")
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[0] != "7" || members[1] != "9" {
		t.Fatalf("expected [7 9], got %v", members)
	}

	sup, err := s.GetSupervisor(ctx, "t1", "7")
	if err != nil || sup != "3" {
		t.Fatalf("GetSupervisor = %q, %v", sup, err)
	}
	if _, err := s.GetSupervisor(ctx, "t1", "8"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("inactive edge must not resolve, got %v", err)
	}

	if err := s.SetEdgeActive(ctx, e7.ID, false); err != nil {
		t.Fatal(err)
	}
	members, _ = s.ListActiveMembers(ctx, "t1", "3")
	if len(members) != 1 || members[0] != "9" {
		t.Fatalf("expected [9], got %v", members)
	}

	active := false
	inactive, _ := s.ListEdges(ctx, &team.ListFilter{TenantID: "t1", IsActive: &active})
	if len(inactive) != 2 {
		t.Fatalf("expected 2 inactive edges, got %d", len(inactive))
	}

	_ = s.DeleteEdgesByTenant(ctx, "t1")
	all, _ := s.ListEdges(ctx, nil)
	if len(all) != 1 || all[0].TenantID != "t2" {
		t.Fatalf("expected only t2 edge to remain, got %d", len(all))
	}
}

func TestAssignments(t *testing.T) {
	ctx := context.Background()
	s := New()

	read := &assignment.Assignment{
		ID: id.NewAssignmentID(), TenantID: "t1", ResourceType: "candidate", ResourceID: "123",
		AssignedTo: "7", AccessLevel: assignment.AccessRead, IsActive: true,
	}
	write := &assignment.Assignment{
		ID: id.NewAssignmentID(), TenantID: "t1", ResourceType: "candidate", ResourceID: "123",
		AssignedTo: "7", AccessLevel: assignment.AccessWrite, IsActive: true,
	}
	other := &assignment.Assignment{
		ID: id.NewAssignmentID(), TenantID: "t1", ResourceType: "vacancy", ResourceID: "5",
		AssignedTo: "7", AccessLevel: assignment.AccessFull, IsActive: false,
	}
	for _, a := range []*assignment.Assignment{read, write, other} {
		if err := s.CreateAssignment(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetActiveAssignment(ctx, "t1", "7", "candidate", "123")
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessLevel != assignment.AccessWrite {
		t.Fatalf("expected strongest level, got %s", got.AccessLevel)
	}
	if _, err := s.GetActiveAssignment(ctx, "t1", "7", "vacancy", "5"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("inactive assignment must not resolve, got %v", err)
	}

	list, _ := s.ListActiveAssignments(ctx, "t1", "7", "")
	if len(list) != 2 {
		t.Fatalf("expected 2 active assignments, got %d", len(list))
	}
	_ = s.SetAssignmentActive(ctx, other.ID, true)
	list, _ = s.ListActiveAssignments(ctx, "t1", "7", "vacancy")
	if len(list) != 1 {
		t.Fatalf("expected reactivated assignment, got %d", len(list))
	}
}

func TestCheckLogs(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now().UTC()

	for i, allowed := range []bool{true, false, true} {
		e := &checklog.Entry{
			ID:           id.NewCheckLogID(),
			TenantID:     "t1",
			UserID:       "7",
			Operation:    "filter",
			ResourceType: "candidates",
			Allowed:      allowed,
			CreatedAt:    now.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreateCheckLog(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	list, _ := s.ListCheckLogs(ctx, &checklog.QueryFilter{TenantID: "t1"})
	if len(list) != 3 || !list[0].CreatedAt.After(list[2].CreatedAt) {
		t.Fatal("expected newest first")
	}

	denied := false
	n, _ := s.CountCheckLogs(ctx, &checklog.QueryFilter{TenantID: "t1", Allowed: &denied})
	if n != 1 {
		t.Fatalf("expected 1 denied entry, got %d", n)
	}

	purged, _ := s.PurgeCheckLogs(ctx, now.Add(90*time.Second))
	if purged != 2 {
		t.Fatalf("expected 2 purged, got %d", purged)
	}
}

func TestPaginate(t *testing.T) {
	items := []*int{new(int), new(int), new(int)}
	if got := paginate(items, 2, 0); len(got) != 2 {
		t.Fatalf("limit: got %d", len(got))
	}
	if got := paginate(items, 0, 2); len(got) != 1 {
		t.Fatalf("offset: got %d", len(got))
	}
	if got := paginate(items, 1, 3); got != nil {
		t.Fatalf("offset past end: got %d", len(got))
	}
}
