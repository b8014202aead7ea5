package mongo

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/checklog"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/team"
)

// ──────────────────────────────────────────────────
// Role model
// ──────────────────────────────────────────────────

type roleModel struct {
	grove.BaseModel `grove:"table:steward_roles"`
	ID              string         `grove:"id,pk"        bson:"_id"`
	TenantID        string         `grove:"tenant_id"    bson:"tenant_id"`
	Name            string         `grove:"name"         bson:"name"`
	Description     string         `grove:"description"  bson:"description"`
	IsActive        bool           `grove:"is_active"    bson:"is_active"`
	Permissions     string         `grove:"permissions"  bson:"permissions,omitempty"`
	Metadata        map[string]any `grove:"metadata"     bson:"metadata,omitempty"`
	CreatedAt       time.Time      `grove:"created_at"   bson:"created_at"`
	UpdatedAt       time.Time      `grove:"updated_at"   bson:"updated_at"`
}

func roleToModel(r *role.Role) *roleModel {
	return &roleModel{
		ID:          r.ID.String(),
		TenantID:    r.TenantID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		Permissions: string(r.Permissions),
		Metadata:    r.Metadata,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func roleFromModel(m *roleModel) *role.Role {
	rid, _ := id.ParseRoleID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &role.Role{
		ID:          rid,
		TenantID:    m.TenantID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		Permissions: rawDocument(m.Permissions),
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Principal model
// ──────────────────────────────────────────────────

// principalModel is keyed by tenant and user; user IDs are only unique
// within a tenant.
type principalModel struct {
	grove.BaseModel `grove:"table:steward_principals"`
	Key             string         `grove:"id,pk"         bson:"_id"`
	UserID          string         `grove:"user_id"       bson:"user_id"`
	TenantID        string         `grove:"tenant_id"     bson:"tenant_id"`
	RoleID          string         `grove:"role_id"       bson:"role_id,omitempty"`
	Email           string         `grove:"email"         bson:"email"`
	DisplayName     string         `grove:"display_name"  bson:"display_name"`
	IsActive        bool           `grove:"is_active"     bson:"is_active"`
	Overrides       string         `grove:"overrides"     bson:"overrides,omitempty"`
	Metadata        map[string]any `grove:"metadata"      bson:"metadata,omitempty"`
	CreatedAt       time.Time      `grove:"created_at"    bson:"created_at"`
	UpdatedAt       time.Time      `grove:"updated_at"    bson:"updated_at"`
}

func principalKey(tenantID, userID string) string {
	return tenantID + "/" + userID
}

func principalToModel(p *principal.Principal) *principalModel {
	m := &principalModel{
		Key:         principalKey(p.TenantID, p.ID),
		UserID:      p.ID,
		TenantID:    p.TenantID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		IsActive:    p.IsActive,
		Overrides:   string(p.Overrides),
		Metadata:    p.Metadata,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if !p.RoleID.IsNil() {
		m.RoleID = p.RoleID.String()
	}
	return m
}

func principalFromModel(m *principalModel) *principal.Principal {
	p := &principal.Principal{
		ID:          m.UserID,
		TenantID:    m.TenantID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		IsActive:    m.IsActive,
		Overrides:   rawDocument(m.Overrides),
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.RoleID != "" {
		if rid, err := id.ParseRoleID(m.RoleID); err == nil {
			p.RoleID = rid
		}
	}
	return p
}

// ──────────────────────────────────────────────────
// Team edge model
// ──────────────────────────────────────────────────

type edgeModel struct {
	grove.BaseModel `grove:"table:steward_team_edges"`
	ID              string    `grove:"id,pk"          bson:"_id"`
	TenantID        string    `grove:"tenant_id"      bson:"tenant_id"`
	SupervisorID    string    `grove:"supervisor_id"  bson:"supervisor_id"`
	MemberID        string    `grove:"member_id"      bson:"member_id"`
	IsActive        bool      `grove:"is_active"      bson:"is_active"`
	CreatedAt       time.Time `grove:"created_at"     bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"     bson:"updated_at"`
}

func edgeToModel(e *team.Edge) *edgeModel {
	return &edgeModel{
		ID:           e.ID.String(),
		TenantID:     e.TenantID,
		SupervisorID: e.SupervisorID,
		MemberID:     e.MemberID,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func edgeFromModel(m *edgeModel) *team.Edge {
	eid, _ := id.ParseEdgeID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &team.Edge{
		ID:           eid,
		TenantID:     m.TenantID,
		SupervisorID: m.SupervisorID,
		MemberID:     m.MemberID,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Assignment model
// ──────────────────────────────────────────────────

type assignmentModel struct {
	grove.BaseModel `grove:"table:steward_assignments"`
	ID              string    `grove:"id,pk"          bson:"_id"`
	TenantID        string    `grove:"tenant_id"      bson:"tenant_id"`
	ResourceType    string    `grove:"resource_type"  bson:"resource_type"`
	ResourceID      string    `grove:"resource_id"    bson:"resource_id"`
	AssignedTo      string    `grove:"assigned_to"    bson:"assigned_to"`
	AssignedBy      string    `grove:"assigned_by"    bson:"assigned_by,omitempty"`
	AccessLevel     string    `grove:"access_level"   bson:"access_level"`
	IsActive        bool      `grove:"is_active"      bson:"is_active"`
	CreatedAt       time.Time `grove:"created_at"     bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"     bson:"updated_at"`
}

func assignmentToModel(a *assignment.Assignment) *assignmentModel {
	return &assignmentModel{
		ID:           a.ID.String(),
		TenantID:     a.TenantID,
		ResourceType: a.ResourceType,
		ResourceID:   a.ResourceID,
		AssignedTo:   a.AssignedTo,
		AssignedBy:   a.AssignedBy,
		AccessLevel:  string(a.AccessLevel),
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func assignmentFromModel(m *assignmentModel) *assignment.Assignment {
	aid, _ := id.ParseAssignmentID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &assignment.Assignment{
		ID:           aid,
		TenantID:     m.TenantID,
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		AssignedTo:   m.AssignedTo,
		AssignedBy:   m.AssignedBy,
		AccessLevel:  assignment.AccessLevel(m.AccessLevel),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Check log model
// ──────────────────────────────────────────────────

type checkLogModel struct {
	grove.BaseModel `grove:"table:steward_check_logs"`
	ID              string    `grove:"id,pk"          bson:"_id"`
	TenantID        string    `grove:"tenant_id"      bson:"tenant_id"`
	UserID          string    `grove:"user_id"        bson:"user_id"`
	Operation       string    `grove:"operation"      bson:"operation"`
	Action          string    `grove:"action"         bson:"action,omitempty"`
	ResourceType    string    `grove:"resource_type"  bson:"resource_type,omitempty"`
	ResourceID      string    `grove:"resource_id"    bson:"resource_id,omitempty"`
	Scope           string    `grove:"scope"          bson:"scope,omitempty"`
	Allowed         bool      `grove:"allowed"        bson:"allowed"`
	Reason          string    `grove:"reason"         bson:"reason,omitempty"`
	EvalTimeNs      int64     `grove:"eval_time_ns"   bson:"eval_time_ns"`
	CreatedAt       time.Time `grove:"created_at"     bson:"created_at"`
}

func checkLogToModel(e *checklog.Entry) *checkLogModel {
	return &checkLogModel{
		ID:           e.ID.String(),
		TenantID:     e.TenantID,
		UserID:       e.UserID,
		Operation:    e.Operation,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Scope:        e.Scope,
		Allowed:      e.Allowed,
		Reason:       e.Reason,
		EvalTimeNs:   e.EvalTimeNs,
		CreatedAt:    e.CreatedAt,
	}
}

func checkLogFromModel(m *checkLogModel) *checklog.Entry {
	lid, _ := id.ParseCheckLogID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &checklog.Entry{
		ID:           lid,
		TenantID:     m.TenantID,
		UserID:       m.UserID,
		Operation:    m.Operation,
		Action:       m.Action,
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		Scope:        m.Scope,
		Allowed:      m.Allowed,
		Reason:       m.Reason,
		EvalTimeNs:   m.EvalTimeNs,
		CreatedAt:    m.CreatedAt,
	}
}

// Documents are stored as strings so malformed JSON survives a round trip.
func rawDocument(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
