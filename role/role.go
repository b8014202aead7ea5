// Package role defines the Role entity: a named, tenant-scoped permission
// template carrying a baseline permission document.
package role

import (
	"encoding/json"
	"time"

	"github.com/xraph/steward/id"
)

// Role is a permission template assigned to principals of one tenant.
//
// Permissions holds the serialized baseline document exactly as stored.
// It may be malformed; evaluation treats an unparsable baseline as empty.
type Role struct {
	ID          id.RoleID       `json:"id" db:"id"`
	TenantID    string          `json:"tenant_id" db:"tenant_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	Permissions json.RawMessage `json:"permissions,omitempty" db:"permissions"`
	Metadata    map[string]any  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing roles.
type ListFilter struct {
	TenantID string `json:"tenant_id,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
