// Package mongo provides a MongoDB implementation of the steward composite
// store using grove's mongo driver.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/checklog"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/team"
)

// Collection name constants.
const (
	colRoles       = "steward_roles"
	colPrincipals  = "steward_principals"
	colTeamEdges   = "steward_team_edges"
	colAssignments = "steward_assignments"
	colCheckLogs   = "steward_check_logs"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of the composite steward store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for all steward collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		if _, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("steward/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func now() time.Time {
	return time.Now().UTC()
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

func contains(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}

// migrationIndexes returns the index definitions for all steward collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colRoles: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "name", Value: 1}}},
		},
		colPrincipals: {
			{
				Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "role_id", Value: 1}}},
		},
		colTeamEdges: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "supervisor_id", Value: 1}, {Key: "is_active", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "member_id", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		colAssignments: {
			{Keys: bson.D{
				{Key: "tenant_id", Value: 1},
				{Key: "assigned_to", Value: 1},
				{Key: "resource_type", Value: 1},
				{Key: "is_active", Value: 1},
			}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "resource_type", Value: 1}, {Key: "resource_id", Value: 1}}},
		},
		colCheckLogs: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}

// ──────────────────────────────────────────────────
// Role operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(ctx context.Context, r *role.Role) error {
	t := now()
	r.CreatedAt = t
	r.UpdatedAt = t
	if _, err := s.mdb.NewInsert(roleToModel(r)).Exec(ctx); err != nil {
		return fmt.Errorf("steward/mongo: create role: %w", err)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	var m roleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": roleID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("role %s: %w", roleID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/mongo: get role: %w", err)
	}
	return roleFromModel(&m), nil
}

func (s *Store) GetRoleByName(ctx context.Context, tenantID, name string) (*role.Role, error) {
	var m roleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"tenant_id": tenantID, "name": name}).
		Sort(bson.D{{Key: "created_at", Value: 1}}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("role name %q: %w", name, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/mongo: get role by name: %w", err)
	}
	return roleFromModel(&m), nil
}

func (s *Store) UpdateRole(ctx context.Context, r *role.Role) error {
	r.UpdatedAt = now()
	m := roleToModel(r)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: update role: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("role %s: %w", r.ID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	_, err := s.mdb.NewDelete((*roleModel)(nil)).
		Filter(bson.M{"_id": roleID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete role: %w", err)
	}
	return nil
}

func roleFilter(filter *role.ListFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.TenantID != "" {
		f["tenant_id"] = filter.TenantID
	}
	if filter.IsActive != nil {
		f["is_active"] = *filter.IsActive
	}
	if filter.Search != "" {
		f["name"] = contains(filter.Search)
	}
	return f
}

func (s *Store) ListRoles(ctx context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	var models []roleModel
	q := s.mdb.NewFind(&models).
		Filter(roleFilter(filter)).
		Sort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward/mongo: list roles: %w", err)
	}
	result := make([]*role.Role, len(models))
	for i := range models {
		result[i] = roleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountRoles(ctx context.Context, filter *role.ListFilter) (int64, error) {
	count, err := s.mdb.NewFind((*roleModel)(nil)).
		Filter(roleFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward/mongo: count roles: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteRolesByTenant(ctx context.Context, tenantID string) error {
	_, err := s.mdb.NewDelete((*roleModel)(nil)).
		Many().
		Filter(bson.M{"tenant_id": tenantID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete roles by tenant: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Principal operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePrincipal(ctx context.Context, p *principal.Principal) error {
	t := now()
	p.CreatedAt = t
	p.UpdatedAt = t
	if _, err := s.mdb.NewInsert(principalToModel(p)).Exec(ctx); err != nil {
		return fmt.Errorf("steward/mongo: create principal: %w", err)
	}
	return nil
}

func (s *Store) GetPrincipal(ctx context.Context, tenantID, userID string) (*principal.Principal, error) {
	var m principalModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": principalKey(tenantID, userID)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/mongo: get principal: %w", err)
	}
	return principalFromModel(&m), nil
}

// GetPrincipalRole resolves the principal's role in two reads; the role
// must live in the principal's tenant.
func (s *Store) GetPrincipalRole(ctx context.Context, tenantID, userID string) (*role.Role, error) {
	p, err := s.GetPrincipal(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if p.RoleID.IsNil() {
		return nil, fmt.Errorf("role of principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
	}
	var m roleModel
	err = s.mdb.NewFind(&m).
		Filter(bson.M{"_id": p.RoleID.String(), "tenant_id": tenantID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("role of principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/mongo: get principal role: %w", err)
	}
	return roleFromModel(&m), nil
}

func (s *Store) UpdatePrincipal(ctx context.Context, p *principal.Principal) error {
	p.UpdatedAt = now()
	m := principalToModel(p)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.Key}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: update principal: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("principal %s/%s: %w", p.TenantID, p.ID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) SetOverrides(ctx context.Context, tenantID, userID string, overrides json.RawMessage) error {
	res, err := s.mdb.NewUpdate((*principalModel)(nil)).
		Filter(bson.M{"_id": principalKey(tenantID, userID)}).
		Set("overrides", string(overrides)).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: set overrides: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("principal %s/%s: %w", tenantID, userID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeletePrincipal(ctx context.Context, tenantID, userID string) error {
	_, err := s.mdb.NewDelete((*principalModel)(nil)).
		Filter(bson.M{"_id": principalKey(tenantID, userID)}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete principal: %w", err)
	}
	return nil
}

func (s *Store) ListPrincipals(ctx context.Context, filter *principal.ListFilter) ([]*principal.Principal, error) {
	var models []principalModel
	f := bson.M{}
	if filter != nil {
		if filter.TenantID != "" {
			f["tenant_id"] = filter.TenantID
		}
		if filter.RoleID != nil {
			f["role_id"] = filter.RoleID.String()
		}
		if filter.IsActive != nil {
			f["is_active"] = *filter.IsActive
		}
		if filter.Search != "" {
			f["$or"] = bson.A{
				bson.M{"email": contains(filter.Search)},
				bson.M{"display_name": contains(filter.Search)},
			}
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "tenant_id", Value: 1}, {Key: "user_id", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward/mongo: list principals: %w", err)
	}
	result := make([]*principal.Principal, len(models))
	for i := range models {
		result[i] = principalFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeletePrincipalsByTenant(ctx context.Context, tenantID string) error {
	_, err := s.mdb.NewDelete((*principalModel)(nil)).
		Many().
		Filter(bson.M{"tenant_id": tenantID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete principals by tenant: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Team edge operations
// ──────────────────────────────────────────────────

func (s *Store) CreateEdge(ctx context.Context, e *team.Edge) error {
	t := now()
	e.CreatedAt = t
	e.UpdatedAt = t
	if _, err := s.mdb.NewInsert(edgeToModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("steward/mongo: create edge: %w", err)
	}
	return nil
}

func (s *Store) GetEdge(ctx context.Context, edgeID id.EdgeID) (*team.Edge, error) {
	var m edgeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": edgeID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("edge %s: %w", edgeID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/mongo: get edge: %w", err)
	}
	return edgeFromModel(&m), nil
}

func (s *Store) SetEdgeActive(ctx context.Context, edgeID id.EdgeID, active bool) error {
	res, err := s.mdb.NewUpdate((*edgeModel)(nil)).
		Filter(bson.M{"_id": edgeID.String()}).
		Set("is_active", active).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: set edge active: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("edge %s: %w", edgeID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteEdge(ctx context.Context, edgeID id.EdgeID) error {
	_, err := s.mdb.NewDelete((*edgeModel)(nil)).
		Filter(bson.M{"_id": edgeID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete edge: %w", err)
	}
	return nil
}

func (s *Store) ListEdges(ctx context.Context, filter *team.ListFilter) ([]*team.Edge, error) {
	var models []edgeModel
	f := bson.M{}
	if filter != nil {
		if filter.TenantID != "" {
			f["tenant_id"] = filter.TenantID
		}
		if filter.SupervisorID != "" {
			f["supervisor_id"] = filter.SupervisorID
		}
		if filter.MemberID != "" {
			f["member_id"] = filter.MemberID
		}
		if filter.IsActive != nil {
			f["is_active"] = *filter.IsActive
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward/mongo: list edges: %w", err)
	}
	result := make([]*team.Edge, len(models))
	for i := range models {
		result[i] = edgeFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListActiveMembers(ctx context.Context, tenantID, supervisorID string) ([]string, error) {
	var models []edgeModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"tenant_id": tenantID, "supervisor_id": supervisorID, "is_active": true}).
		Sort(bson.D{{Key: "member_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("steward/mongo: list active members: %w", err)
	}
	members := make([]string, 0, len(models))
	for i := range models {
		if n := len(members); n == 0 || members[n-1] != models[i].MemberID {
			members = append(members, models[i].MemberID)
		}
	}
	return members, nil
}

func (s *Store) GetSupervisor(ctx context.Context, tenantID, memberID string) (string, error) {
	var m edgeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"tenant_id": tenantID, "member_id": memberID, "is_active": true}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return "", fmt.Errorf("supervisor of %s/%s: %w", tenantID, memberID, store.ErrNotFound)
		}
		return "", fmt.Errorf("steward/mongo: get supervisor: %w", err)
	}
	return m.SupervisorID, nil
}

func (s *Store) DeleteEdgesByTenant(ctx context.Context, tenantID string) error {
	_, err := s.mdb.NewDelete((*edgeModel)(nil)).
		Many().
		Filter(bson.M{"tenant_id": tenantID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete edges by tenant: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Assignment operations
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(ctx context.Context, a *assignment.Assignment) error {
	t := now()
	a.CreatedAt = t
	a.UpdatedAt = t
	if _, err := s.mdb.NewInsert(assignmentToModel(a)).Exec(ctx); err != nil {
		return fmt.Errorf("steward/mongo: create assignment: %w", err)
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, assignmentID id.AssignmentID) (*assignment.Assignment, error) {
	var m assignmentModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": assignmentID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("assignment %s: %w", assignmentID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/mongo: get assignment: %w", err)
	}
	return assignmentFromModel(&m), nil
}

func (s *Store) SetAssignmentActive(ctx context.Context, assignmentID id.AssignmentID, active bool) error {
	res, err := s.mdb.NewUpdate((*assignmentModel)(nil)).
		Filter(bson.M{"_id": assignmentID.String()}).
		Set("is_active", active).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: set assignment active: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("assignment %s: %w", assignmentID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteAssignment(ctx context.Context, assignmentID id.AssignmentID) error {
	_, err := s.mdb.NewDelete((*assignmentModel)(nil)).
		Filter(bson.M{"_id": assignmentID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete assignment: %w", err)
	}
	return nil
}

func (s *Store) ListAssignments(ctx context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	var models []assignmentModel
	f := bson.M{}
	if filter != nil {
		if filter.TenantID != "" {
			f["tenant_id"] = filter.TenantID
		}
		if filter.AssignedTo != "" {
			f["assigned_to"] = filter.AssignedTo
		}
		if filter.ResourceType != "" {
			f["resource_type"] = filter.ResourceType
		}
		if filter.ResourceID != "" {
			f["resource_id"] = filter.ResourceID
		}
		if filter.IsActive != nil {
			f["is_active"] = *filter.IsActive
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward/mongo: list assignments: %w", err)
	}
	result := make([]*assignment.Assignment, len(models))
	for i := range models {
		result[i] = assignmentFromModel(&models[i])
	}
	return result, nil
}

// GetActiveAssignment returns the strongest active grant on the resource.
func (s *Store) GetActiveAssignment(ctx context.Context, tenantID, userID, resourceType, resourceID string) (*assignment.Assignment, error) {
	active := true
	list, err := s.ListAssignments(ctx, &assignment.ListFilter{
		TenantID:     tenantID,
		AssignedTo:   userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IsActive:     &active,
	})
	if err != nil {
		return nil, fmt.Errorf("steward/mongo: get active assignment: %w", err)
	}
	var best *assignment.Assignment
	for _, a := range list {
		if best == nil || a.AccessLevel.Rank() > best.AccessLevel.Rank() {
			best = a
		}
	}
	if best == nil {
		return nil, fmt.Errorf("assignment of %s %s to %s: %w", resourceType, resourceID, userID, store.ErrNotFound)
	}
	return best, nil
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

func (s *Store) DeleteAssignmentsByTenant(ctx context.Context, tenantID string) error {
	_, err := s.mdb.NewDelete((*assignmentModel)(nil)).
		Many().
		Filter(bson.M{"tenant_id": tenantID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete assignments by tenant: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Check log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateCheckLog(ctx context.Context, e *checklog.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	if _, err := s.mdb.NewInsert(checkLogToModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("steward/mongo: create check log: %w", err)
	}
	return nil
}

func (s *Store) GetCheckLog(ctx context.Context, logID id.CheckLogID) (*checklog.Entry, error) {
	var m checkLogModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": logID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("check log %s: %w", logID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("steward/mongo: get check log: %w", err)
	}
	return checkLogFromModel(&m), nil
}

func checkLogFilter(filter *checklog.QueryFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.TenantID != "" {
		f["tenant_id"] = filter.TenantID
	}
	if filter.UserID != "" {
		f["user_id"] = filter.UserID
	}
	if filter.Operation != "" {
		f["operation"] = filter.Operation
	}
	if filter.ResourceType != "" {
		f["resource_type"] = filter.ResourceType
	}
	if filter.Allowed != nil {
		f["allowed"] = *filter.Allowed
	}
	if filter.After != nil || filter.Before != nil {
		dateFilter := bson.M{}
		if filter.After != nil {
			dateFilter["$gte"] = *filter.After
		}
		if filter.Before != nil {
			dateFilter["$lte"] = *filter.Before
		}
		f["created_at"] = dateFilter
	}
	return f
}

func (s *Store) ListCheckLogs(ctx context.Context, filter *checklog.QueryFilter) ([]*checklog.Entry, error) {
	var models []checkLogModel
	q := s.mdb.NewFind(&models).
		Filter(checkLogFilter(filter)).
		Sort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("steward/mongo: list check logs: %w", err)
	}
	result := make([]*checklog.Entry, len(models))
	for i := range models {
		result[i] = checkLogFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountCheckLogs(ctx context.Context, filter *checklog.QueryFilter) (int64, error) {
	count, err := s.mdb.NewFind((*checkLogModel)(nil)).
		Filter(checkLogFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward/mongo: count check logs: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeCheckLogs(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*checkLogModel)(nil)).
		Many().
		Filter(bson.M{"created_at": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("steward/mongo: purge check logs: %w", err)
	}
	return res.DeletedCount(), nil
}

func (s *Store) DeleteCheckLogsByTenant(ctx context.Context, tenantID string) error {
	_, err := s.mdb.NewDelete((*checkLogModel)(nil)).
		Many().
		Filter(bson.M{"tenant_id": tenantID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("steward/mongo: delete check logs by tenant: %w", err)
	}
	return nil
}
