// Package memory provides an in-memory implementation of the steward
// composite store. It is intended for testing and development.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/checklog"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/team"
)

var _ store.Store = (*Store)(nil)

// Store is a thread-safe in-memory store for all steward entities.
type Store struct {
	mu sync.RWMutex

	roles       map[string]*role.Role
	principals  map[principalKey]*principal.Principal
	edges       map[string]*team.Edge
	assignments map[string]*assignment.Assignment
	checkLogs   map[string]*checklog.Entry
}

type principalKey struct{ tenantID, userID string }

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		roles:       make(map[string]*role.Role),
		principals:  make(map[principalKey]*principal.Principal),
		edges:       make(map[string]*team.Edge),
		assignments: make(map[string]*assignment.Assignment),
		checkLogs:   make(map[string]*checklog.Entry),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Role Store
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[r.ID.String()]; ok {
		return fmt.Errorf("role %s already exists", r.ID)
	}
	s.roles[r.ID.String()] = copyRole(r)
	return nil
}

func (s *Store) GetRole(_ context.Context, roleID id.RoleID) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[roleID.String()]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleID, store.ErrNotFound)
	}
	return copyRole(r), nil
}

func (s *Store) GetRoleByName(_ context.Context, tenantID, name string) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.TenantID == tenantID && r.Name == name {
			return copyRole(r), nil
		}
	}
	return nil, fmt.Errorf("role name %q: %w", name, store.ErrNotFound)
}

func (s *Store) UpdateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[r.ID.String()]; !ok {
		return fmt.Errorf("role %s: %w", r.ID, store.ErrNotFound)
	}
	s.roles[r.ID.String()] = copyRole(r)
	return nil
}

func (s *Store) DeleteRole(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, roleID.String())
	return nil
}

func (s *Store) ListRoles(_ context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*role.Role, 0, len(s.roles))
	for _, r := range s.roles {
		if filter != nil {
			if filter.TenantID != "" && r.TenantID != filter.TenantID {
				continue
			}
			if filter.IsActive != nil && r.IsActive != *filter.IsActive {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filter.Search)) {
				continue
			}
		}
		result = append(result, copyRole(r))
	}
	slices.SortFunc(result, func(a, b *role.Role) int { return strings.Compare(a.Name, b.Name) })
	if filter == nil {
		return result, nil
	}
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (s *Store) CountRoles(ctx context.Context, filter *role.ListFilter) (int64, error) {
	var f role.ListFilter
	if filter != nil {
		f = *filter
	}
	f.Limit, f.Offset = 0, 0
	list, err := s.ListRoles(ctx, &f)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) DeleteRolesByTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range s.roles {
		if r.TenantID == tenantID {
			delete(s.roles, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Principal Store
// ──────────────────────────────────────────────────

func (s *Store) CreatePrincipal(_ context.Context, p *principal.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := principalKey{p.TenantID, p.ID}
	if _, ok := s.principals[key]; ok {
		return fmt.Errorf("principal %s/%s already exists", p.TenantID, p.ID)
	}
	s.principals[key] = copyPrincipal(p)
	return nil
}

func (s *Store) GetPrincipal(_ context.Context, tenantID, userID string) (*principal.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.principals[principalKey{tenantID, userID}]
	if !ok {
		return nil, fmt.Errorf("principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
	}
	return copyPrincipal(p), nil
}

func (s *Store) GetPrincipalRole(_ context.Context, tenantID, userID string) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.principals[principalKey{tenantID, userID}]
	if !ok {
		return nil, fmt.Errorf("principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
	}
	r, ok := s.roles[p.RoleID.String()]
	if !ok || r.TenantID != tenantID {
		return nil, fmt.Errorf("role of principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
	}
	return copyRole(r), nil
}

func (s *Store) UpdatePrincipal(_ context.Context, p *principal.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := principalKey{p.TenantID, p.ID}
	if _, ok := s.principals[key]; !ok {
		return fmt.Errorf("principal %s/%s: %w", p.TenantID, p.ID, store.ErrNotFound)
	}
	s.principals[key] = copyPrincipal(p)
	return nil
}

func (s *Store) SetOverrides(_ context.Context, tenantID, userID string, overrides json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.principals[principalKey{tenantID, userID}]
	if !ok {
		return fmt.Errorf("principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
	}
	p.Overrides = slices.Clone(overrides)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) DeletePrincipal(_ context.Context, tenantID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.principals, principalKey{tenantID, userID})
	return nil
}

func (s *Store) ListPrincipals(_ context.Context, filter *principal.ListFilter) ([]*principal.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*principal.Principal, 0, len(s.principals))
	for _, p := range s.principals {
		if filter != nil {
			if filter.TenantID != "" && p.TenantID != filter.TenantID {
				continue
			}
			if filter.RoleID != nil && p.RoleID.String() != filter.RoleID.String() {
				continue
			}
			if filter.IsActive != nil && p.IsActive != *filter.IsActive {
				continue
			}
			if filter.Search != "" && !matchesPrincipal(p, filter.Search) {
				continue
			}
		}
		result = append(result, copyPrincipal(p))
	}
	slices.SortFunc(result, func(a, b *principal.Principal) int {
		if c := strings.Compare(a.TenantID, b.TenantID); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if filter == nil {
		return result, nil
	}
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (s *Store) DeletePrincipalsByTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.principals {
		if k.tenantID == tenantID {
			delete(s.principals, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Team Store
// ──────────────────────────────────────────────────

func (s *Store) CreateEdge(_ context.Context, e *team.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[e.ID.String()] = copyEdge(e)
	return nil
}

func (s *Store) GetEdge(_ context.Context, edgeID id.EdgeID) (*team.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.edges[edgeID.String()]
	if !ok {
		return nil, fmt.Errorf("team edge %s: %w", edgeID, store.ErrNotFound)
	}
	return copyEdge(e), nil
}

func (s *Store) SetEdgeActive(_ context.Context, edgeID id.EdgeID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.edges[edgeID.String()]
	if !ok {
		return fmt.Errorf("team edge %s: %w", edgeID, store.ErrNotFound)
	}
	e.IsActive = active
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) DeleteEdge(_ context.Context, edgeID id.EdgeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges, edgeID.String())
	return nil
}

func (s *Store) ListEdges(_ context.Context, filter *team.ListFilter) ([]*team.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*team.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		if filter != nil {
			if filter.TenantID != "" && e.TenantID != filter.TenantID {
				continue
			}
			if filter.SupervisorID != "" && e.SupervisorID != filter.SupervisorID {
				continue
			}
			if filter.MemberID != "" && e.MemberID != filter.MemberID {
				continue
			}
			if filter.IsActive != nil && e.IsActive != *filter.IsActive {
				continue
			}
		}
		result = append(result, copyEdge(e))
	}
	slices.SortFunc(result, func(a, b *team.Edge) int { return strings.Compare(a.ID.String(), b.ID.String()) })
	if filter == nil {
		return result, nil
	}
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (s *Store) ListActiveMembers(_ context.Context, tenantID, supervisorID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var members []string
	for _, e := range s.edges {
		if e.IsActive && e.TenantID == tenantID && e.SupervisorID == supervisorID {
			members = append(members, e.MemberID)
		}
	}
	slices.Sort(members)
	return slices.Compact(members), nil
}

func (s *Store) GetSupervisor(_ context.Context, tenantID, memberID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var first *team.Edge
	for _, e := range s.edges {
		if !e.IsActive || e.TenantID != tenantID || e.MemberID != memberID {
			continue
		}
		if first == nil || e.ID.String() < first.ID.String() {
			first = e
		}
	}
	if first == nil {
		return "", fmt.Errorf("supervisor of %s/%s: %w", tenantID, memberID, store.ErrNotFound)
	}
	return first.SupervisorID, nil
}

func (s *Store) DeleteEdgesByTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.edges {
		if e.TenantID == tenantID {
			delete(s.edges, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Assignment Store
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(_ context.Context, a *assignment.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID.String()] = copyAssignment(a)
	return nil
}

func (s *Store) GetAssignment(_ context.Context, assignmentID id.AssignmentID) (*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[assignmentID.String()]
	if !ok {
		return nil, fmt.Errorf("assignment %s: %w", assignmentID, store.ErrNotFound)
	}
	return copyAssignment(a), nil
}

func (s *Store) SetAssignmentActive(_ context.Context, assignmentID id.AssignmentID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[assignmentID.String()]
	if !ok {
		return fmt.Errorf("assignment %s: %w", assignmentID, store.ErrNotFound)
	}
	a.IsActive = active
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) DeleteAssignment(_ context.Context, assignmentID id.AssignmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, assignmentID.String())
	return nil
}

func (s *Store) ListAssignments(_ context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*assignment.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		if filter != nil {
			if filter.TenantID != "" && a.TenantID != filter.TenantID {
				continue
			}
			if filter.AssignedTo != "" && a.AssignedTo != filter.AssignedTo {
				continue
			}
			if filter.ResourceType != "" && a.ResourceType != filter.ResourceType {
				continue
			}
			if filter.ResourceID != "" && a.ResourceID != filter.ResourceID {
				continue
			}
			if filter.IsActive != nil && a.IsActive != *filter.IsActive {
				continue
			}
		}
		result = append(result, copyAssignment(a))
	}
	slices.SortFunc(result, func(a, b *assignment.Assignment) int { return strings.Compare(a.ID.String(), b.ID.String()) })
	if filter == nil {
		return result, nil
	}
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (s *Store) GetActiveAssignment(_ context.Context, tenantID, userID, resourceType, resourceID string) (*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *assignment.Assignment
	for _, a := range s.assignments {
		if !a.IsActive || a.TenantID != tenantID || a.AssignedTo != userID ||
			a.ResourceType != resourceType || a.ResourceID != resourceID {
			continue
		}
		if best == nil || a.AccessLevel.Rank() > best.AccessLevel.Rank() {
			best = a
		}
	}
	if best == nil {
		return nil, fmt.Errorf("assignment %s:%s for %s: %w", resourceType, resourceID, userID, store.ErrNotFound)
	}
	return copyAssignment(best), nil
}

func (s *Store) ListActiveAssignments(ctx context.Context, tenantID, userID, resourceType string) ([]*assignment.Assignment, error) {
	active := true
	return s.ListAssignments(ctx, &assignment.ListFilter{
		TenantID:     tenantID,
		AssignedTo:   userID,
		ResourceType: resourceType,
		IsActive:     &active,
	})
}

func (s *Store) DeleteAssignmentsByTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, a := range s.assignments {
		if a.TenantID == tenantID {
			delete(s.assignments, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Check Log Store
// ──────────────────────────────────────────────────

func (s *Store) CreateCheckLog(_ context.Context, e *checklog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkLogs[e.ID.String()] = copyCheckLog(e)
	return nil
}

func (s *Store) GetCheckLog(_ context.Context, logID id.CheckLogID) (*checklog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.checkLogs[logID.String()]
	if !ok {
		return nil, fmt.Errorf("check log %s: %w", logID, store.ErrNotFound)
	}
	return copyCheckLog(e), nil
}

func (s *Store) ListCheckLogs(_ context.Context, filter *checklog.QueryFilter) ([]*checklog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*checklog.Entry, 0, len(s.checkLogs))
	for _, e := range s.checkLogs {
		if filter != nil && !matchesCheckLog(e, filter) {
			continue
		}
		result = append(result, copyCheckLog(e))
	}
	slices.SortFunc(result, func(a, b *checklog.Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	if filter == nil {
		return result, nil
	}
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (s *Store) CountCheckLogs(_ context.Context, filter *checklog.QueryFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, e := range s.checkLogs {
		if filter == nil || matchesCheckLog(e, filter) {
			n++
		}
	}
	return n, nil
}

func (s *Store) PurgeCheckLogs(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for k, e := range s.checkLogs {
		if e.CreatedAt.Before(before) {
			delete(s.checkLogs, k)
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteCheckLogsByTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.checkLogs {
		if e.TenantID == tenantID {
			delete(s.checkLogs, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func matchesPrincipal(p *principal.Principal, search string) bool {
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.ID), q) ||
		strings.Contains(strings.ToLower(p.Email), q) ||
		strings.Contains(strings.ToLower(p.DisplayName), q)
}

func matchesCheckLog(e *checklog.Entry, f *checklog.QueryFilter) bool {
	switch {
	case f.TenantID != "" && e.TenantID != f.TenantID,
		f.UserID != "" && e.UserID != f.UserID,
		f.Operation != "" && e.Operation != f.Operation,
		f.ResourceType != "" && e.ResourceType != f.ResourceType,
		f.Allowed != nil && e.Allowed != *f.Allowed,
		f.After != nil && e.CreatedAt.Before(*f.After),
		f.Before != nil && e.CreatedAt.After(*f.Before):
		return false
	}
	return true
}

func copyRole(r *role.Role) *role.Role {
	c := *r
	c.Permissions = slices.Clone(r.Permissions)
	c.Metadata = maps.Clone(r.Metadata)
	return &c
}

func copyPrincipal(p *principal.Principal) *principal.Principal {
	c := *p
	c.Overrides = slices.Clone(p.Overrides)
	c.Metadata = maps.Clone(p.Metadata)
	return &c
}

func copyEdge(e *team.Edge) *team.Edge {
	c := *e
	return &c
}

func copyAssignment(a *assignment.Assignment) *assignment.Assignment {
	c := *a
	return &c
}

func copyCheckLog(e *checklog.Entry) *checklog.Entry {
	c := *e
	return &c
}

func paginate[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return nil
	}
	if offset > 0 {
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
