// Package team defines reporting-line edges between principals of one
// tenant. An edge states that MemberID reports to SupervisorID.
package team

import (
	"time"

	"github.com/xraph/steward/id"
)

// Edge is a directed supervisor -> member relationship. Only active edges
// contribute to team resolution.
type Edge struct {
	ID           id.EdgeID `json:"id" db:"id"`
	TenantID     string    `json:"tenant_id" db:"tenant_id"`
	SupervisorID string    `json:"supervisor_id" db:"supervisor_id"`
	MemberID     string    `json:"member_id" db:"member_id"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing edges.
type ListFilter struct {
	TenantID     string `json:"tenant_id,omitempty"`
	SupervisorID string `json:"supervisor_id,omitempty"`
	MemberID     string `json:"member_id,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}
