package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/checklog"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/team"
)

// Metadata is stored as JSON text; permission documents are stored
// verbatim so malformed ones round-trip.

// ──────────────────────────────────────────────────
// Role model
// ──────────────────────────────────────────────────

type roleModel struct {
	grove.BaseModel `grove:"table:steward_roles"`
	ID              string         `grove:"id,pk"`
	TenantID        string         `grove:"tenant_id,notnull"`
	Name            string         `grove:"name,notnull"`
	Description     string         `grove:"description"`
	IsActive        bool           `grove:"is_active,notnull"`
	Permissions     string         `grove:"permissions"`
	Metadata        string         `grove:"metadata"` // JSON text
	CreatedAt       time.Time      `grove:"created_at,notnull"`
	UpdatedAt       time.Time      `grove:"updated_at,notnull"`
}

func roleToModel(r *role.Role) (*roleModel, error) {
	metadata, err := json.Marshal(r.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal role metadata: %w", err)
	}
	return &roleModel{
		ID:          r.ID.String(),
		TenantID:    r.TenantID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		Permissions: string(r.Permissions),
		Metadata:    string(metadata),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func roleFromModel(m *roleModel) (*role.Role, error) {
	rid, _ := id.ParseRoleID(m.ID) //nolint:errcheck // stored IDs are always valid
	metadata, err := unmarshalMetadata(m.Metadata)
	if err != nil {
		return nil, fmt.Errorf("unmarshal role metadata: %w", err)
	}
	return &role.Role{
		ID:          rid,
		TenantID:    m.TenantID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		Permissions: rawDocument(m.Permissions),
		Metadata:    metadata,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// ──────────────────────────────────────────────────
// Principal model
// ──────────────────────────────────────────────────

type principalModel struct {
	grove.BaseModel `grove:"table:steward_principals"`
	ID              string         `grove:"id,pk"`
	TenantID        string         `grove:"tenant_id,pk"`
	RoleID          *string        `grove:"role_id"`
	Email           string         `grove:"email"`
	DisplayName     string         `grove:"display_name"`
	IsActive        bool           `grove:"is_active,notnull"`
	Overrides       string         `grove:"overrides"`
	Metadata        string         `grove:"metadata"` // JSON text
	CreatedAt       time.Time      `grove:"created_at,notnull"`
	UpdatedAt       time.Time      `grove:"updated_at,notnull"`
}

func principalToModel(p *principal.Principal) (*principalModel, error) {
	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal principal metadata: %w", err)
	}
	m := &principalModel{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		IsActive:    p.IsActive,
		Overrides:   string(p.Overrides),
		Metadata:    string(metadata),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if !p.RoleID.IsNil() {
		s := p.RoleID.String()
		m.RoleID = &s
	}
	return m, nil
}

func principalFromModel(m *principalModel) (*principal.Principal, error) {
	metadata, err := unmarshalMetadata(m.Metadata)
	if err != nil {
		return nil, fmt.Errorf("unmarshal principal metadata: %w", err)
	}
	p := &principal.Principal{
		ID:          m.ID,
		TenantID:    m.TenantID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		IsActive:    m.IsActive,
		Overrides:   rawDocument(m.Overrides),
		Metadata:    metadata,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.RoleID != nil {
		if rid, err := id.ParseRoleID(*m.RoleID); err == nil {
			p.RoleID = rid
		}
	}
	return p, nil
}

// ──────────────────────────────────────────────────
// Team edge model
// ──────────────────────────────────────────────────

type edgeModel struct {
	grove.BaseModel `grove:"table:steward_team_edges"`
	ID              string    `grove:"id,pk"`
	TenantID        string    `grove:"tenant_id,notnull"`
	SupervisorID    string    `grove:"supervisor_id,notnull"`
	MemberID        string    `grove:"member_id,notnull"`
	IsActive        bool      `grove:"is_active,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
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
	ID              string    `grove:"id,pk"`
	TenantID        string    `grove:"tenant_id,notnull"`
	ResourceType    string    `grove:"resource_type,notnull"`
	ResourceID      string    `grove:"resource_id,notnull"`
	AssignedTo      string    `grove:"assigned_to,notnull"`
	AssignedBy      string    `grove:"assigned_by"`
	AccessLevel     string    `grove:"access_level,notnull"`
	IsActive        bool      `grove:"is_active,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
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
	ID              string    `grove:"id,pk"`
	TenantID        string    `grove:"tenant_id,notnull"`
	UserID          string    `grove:"user_id,notnull"`
	Operation       string    `grove:"operation,notnull"`
	Action          string    `grove:"action"`
	ResourceType    string    `grove:"resource_type"`
	ResourceID      string    `grove:"resource_id"`
	Scope           string    `grove:"scope"`
	Allowed         bool      `grove:"allowed,notnull"`
	Reason          string    `grove:"reason"`
	EvalTimeNs      int64     `grove:"eval_time_ns,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
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

func rawDocument(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func unmarshalMetadata(s string) (map[string]any, error) {
	if s == "" || s == "null" {
		return nil, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(s), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
