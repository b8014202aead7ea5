package api

import "encoding/json"

// ──────────────────────────────────────────────────
// Decision requests
// ──────────────────────────────────────────────────

// DecisionRequest names the user and resource type a decision is about.
// The tenant always comes from the authenticated scope.
type DecisionRequest struct {
	UserID       string `json:"user_id" description:"User to evaluate"`
	ResourceType string `json:"resource_type" description:"Resource type (candidates, clients, ...)"`
}

// FilterRequest asks for the visibility filter plus an optional SQL
// predicate rendering.
type FilterRequest struct {
	UserID        string   `json:"user_id" description:"User to evaluate"`
	ResourceTypes []string `json:"resource_types" description:"One or more resource types"`
	Column        string   `json:"column,omitempty" description:"Owner column for the SQL predicate"`
	Dollar        bool     `json:"dollar,omitempty" description:"Use $n placeholders instead of ?"`
}

// ActionRequest asks whether a user may perform an action.
type ActionRequest struct {
	UserID       string `json:"user_id" description:"User to evaluate"`
	ResourceType string `json:"resource_type" description:"Resource type"`
	Action       string `json:"action" description:"Action key (create, edit, view_scope, ...)"`
}

// AccessRequest asks whether a user can reach one record.
type AccessRequest struct {
	UserID       string `json:"user_id" description:"User to evaluate"`
	ResourceType string `json:"resource_type" description:"Resource type"`
	ResourceID   string `json:"resource_id" description:"Record identifier"`
	OwnerID      string `json:"owner_id,omitempty" description:"Record owner (created_by_user)"`
	Level        string `json:"level,omitempty" description:"Required access level (read, write, full)"`
}

// UserPathRequest is the path parameter naming a user.
type UserPathRequest struct {
	UserID string `path:"userId" description:"User ID"`
}

// ──────────────────────────────────────────────────
// Role requests
// ──────────────────────────────────────────────────

// CreateRoleRequest is the body for creating a role.
type CreateRoleRequest struct {
	Name        string          `json:"name" description:"Role name, matched exactly by the classifier"`
	Description string          `json:"description,omitempty" description:"Human-readable description"`
	Inactive    bool            `json:"inactive,omitempty" description:"Create the role disabled"`
	Permissions json.RawMessage `json:"permissions,omitempty" description:"Baseline permission document"`
	Metadata    map[string]any  `json:"metadata,omitempty" description:"Custom metadata"`
}

// UpdateRoleRequest is the body for updating a role.
type UpdateRoleRequest struct {
	Name        string          `json:"name,omitempty" description:"Role name"`
	Description string          `json:"description,omitempty" description:"Human-readable description"`
	IsActive    *bool           `json:"is_active,omitempty" description:"Active flag"`
	Permissions json.RawMessage `json:"permissions,omitempty" description:"Baseline permission document"`
	Metadata    map[string]any  `json:"metadata,omitempty" description:"Custom metadata"`
}

// GetRoleRequest is the path parameter for getting a role.
type GetRoleRequest struct {
	RoleID string `path:"roleId" description:"Role ID"`
}

// ListRolesRequest holds query parameters for listing roles.
type ListRolesRequest struct {
	Search string `query:"search" description:"Search by name"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Principal requests
// ──────────────────────────────────────────────────

// CreatePrincipalRequest is the body for registering a user.
type CreatePrincipalRequest struct {
	UserID      string          `json:"user_id" description:"Application user ID"`
	RoleID      string          `json:"role_id,omitempty" description:"Role ID"`
	Email       string          `json:"email,omitempty" description:"Email"`
	DisplayName string          `json:"display_name,omitempty" description:"Display name"`
	Inactive    bool            `json:"inactive,omitempty" description:"Create the user disabled"`
	Overrides   json.RawMessage `json:"overrides,omitempty" description:"Per-user override document"`
	Metadata    map[string]any  `json:"metadata,omitempty" description:"Custom metadata"`
}

// UpdatePrincipalRequest is the body for updating a user.
type UpdatePrincipalRequest struct {
	RoleID      string         `json:"role_id,omitempty" description:"Role ID"`
	Email       string         `json:"email,omitempty" description:"Email"`
	DisplayName string         `json:"display_name,omitempty" description:"Display name"`
	IsActive    *bool          `json:"is_active,omitempty" description:"Active flag"`
	Metadata    map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// SetOverridesRequest replaces a user's override document. An empty body
// clears it.
type SetOverridesRequest struct {
	Overrides json.RawMessage `json:"overrides" description:"Per-user override document"`
}

// ListPrincipalsRequest holds query parameters for listing users.
type ListPrincipalsRequest struct {
	RoleID string `query:"role_id" description:"Filter by role"`
	Search string `query:"search" description:"Search email and display name"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Team requests
// ──────────────────────────────────────────────────

// CreateEdgeRequest links a member to a supervisor.
type CreateEdgeRequest struct {
	SupervisorID string `json:"supervisor_id" description:"Supervisor user ID"`
	MemberID     string `json:"member_id" description:"Member user ID"`
}

// EdgePathRequest is the path parameter naming an edge.
type EdgePathRequest struct {
	EdgeID string `path:"edgeId" description:"Edge ID"`
}

// SetActiveRequest toggles an edge or assignment.
type SetActiveRequest struct {
	IsActive bool `json:"is_active" description:"Active flag"`
}

// ListEdgesRequest holds query parameters for listing edges.
type ListEdgesRequest struct {
	SupervisorID string `query:"supervisor_id" description:"Filter by supervisor"`
	MemberID     string `query:"member_id" description:"Filter by member"`
	Limit        int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset       int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Assignment requests
// ──────────────────────────────────────────────────

// CreateAssignmentRequest grants one record to a user.
type CreateAssignmentRequest struct {
	ResourceType string `json:"resource_type" description:"Resource type"`
	ResourceID   string `json:"resource_id" description:"Record identifier"`
	AssignedTo   string `json:"assigned_to" description:"User receiving access"`
	AccessLevel  string `json:"access_level" description:"read, write or full"`
}

// AssignmentPathRequest is the path parameter naming an assignment.
type AssignmentPathRequest struct {
	AssignmentID string `path:"assignmentId" description:"Assignment ID"`
}

// ListAssignmentsRequest holds query parameters.
type ListAssignmentsRequest struct {
	AssignedTo   string `query:"assigned_to" description:"Filter by user"`
	ResourceType string `query:"resource_type" description:"Filter by resource type"`
	ResourceID   string `query:"resource_id" description:"Filter by record"`
	Limit        int    `query:"limit" description:"Maximum results"`
	Offset       int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Check log requests
// ──────────────────────────────────────────────────

// ListCheckLogsRequest holds query parameters for querying decision logs.
type ListCheckLogsRequest struct {
	UserID       string `query:"user_id" description:"Filter by user"`
	Operation    string `query:"operation" description:"Filter by operation"`
	ResourceType string `query:"resource_type" description:"Filter by resource type"`
	Denied       bool   `query:"denied" description:"Only denied decisions"`
	After        string `query:"after" description:"After timestamp (RFC3339)"`
	Before       string `query:"before" description:"Before timestamp (RFC3339)"`
	Limit        int    `query:"limit" description:"Maximum results"`
	Offset       int    `query:"offset" description:"Results to skip"`
}
