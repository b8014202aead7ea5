// Package assignment defines resource assignments: explicit grants of a
// single resource row to a principal, independent of visibility scope.
package assignment

import (
	"time"

	"github.com/xraph/steward/id"
)

// AccessLevel orders what an assignment allows: read < write < full.
type AccessLevel string

const (
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessFull  AccessLevel = "full"
)

// Rank returns the level's position in the hierarchy. Unknown levels rank 0
// and never satisfy any requirement.
func (l AccessLevel) Rank() int {
	switch l {
	case AccessRead:
		return 1
	case AccessWrite:
		return 2
	case AccessFull:
		return 3
	default:
		return 0
	}
}

// Satisfies reports whether l grants at least required.
func (l AccessLevel) Satisfies(required AccessLevel) bool {
	r := required.Rank()
	return r > 0 && l.Rank() >= r
}

// Assignment grants AssignedTo access to one resource.
type Assignment struct {
	ID           id.AssignmentID `json:"id" db:"id"`
	TenantID     string          `json:"tenant_id" db:"tenant_id"`
	ResourceType string          `json:"resource_type" db:"resource_type"`
	ResourceID   string          `json:"resource_id" db:"resource_id"`
	AssignedTo   string          `json:"assigned_to" db:"assigned_to"`
	AssignedBy   string          `json:"assigned_by,omitempty" db:"assigned_by"`
	AccessLevel  AccessLevel     `json:"access_level" db:"access_level"`
	IsActive     bool            `json:"is_active" db:"is_active"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing assignments.
type ListFilter struct {
	TenantID     string `json:"tenant_id,omitempty"`
	AssignedTo   string `json:"assigned_to,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}
