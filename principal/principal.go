// Package principal defines the Principal entity: a user acting within
// exactly one tenant, bound to one role and optionally carrying
// per-user permission overrides.
package principal

import (
	"encoding/json"
	"time"

	"github.com/xraph/steward/id"
)

// Principal is a user of one tenant. ID is the host application's opaque
// user identifier; the same ID may exist in several tenants as distinct
// principals.
//
// Overrides holds the serialized override document exactly as stored. An
// unparsable value is treated as no overrides.
type Principal struct {
	ID          string          `json:"id" db:"id"`
	TenantID    string          `json:"tenant_id" db:"tenant_id"`
	RoleID      id.RoleID       `json:"role_id" db:"role_id"`
	Email       string          `json:"email,omitempty" db:"email"`
	DisplayName string          `json:"display_name,omitempty" db:"display_name"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	Overrides   json.RawMessage `json:"overrides,omitempty" db:"overrides"`
	Metadata    map[string]any  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing principals.
type ListFilter struct {
	TenantID string     `json:"tenant_id,omitempty"`
	RoleID   *id.RoleID `json:"role_id,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
	Search   string     `json:"search,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}
