package assignment

import (
	"context"

	"github.com/xraph/steward/id"
)

// Store defines persistence operations for resource assignments.
type Store interface {
	// CreateAssignment persists a new assignment.
	CreateAssignment(ctx context.Context, a *Assignment) error

	// GetAssignment retrieves an assignment by ID.
	GetAssignment(ctx context.Context, assignmentID id.AssignmentID) (*Assignment, error)

	// SetAssignmentActive activates or deactivates an assignment.
	SetAssignmentActive(ctx context.Context, assignmentID id.AssignmentID, active bool) error

	// DeleteAssignment removes an assignment.
	DeleteAssignment(ctx context.Context, assignmentID id.AssignmentID) error

	// ListAssignments returns assignments matching the filter.
	ListAssignments(ctx context.Context, filter *ListFilter) ([]*Assignment, error)

	// GetActiveAssignment returns the active assignment of one resource to
	// a user, or a not-found error.
	GetActiveAssignment(ctx context.Context, tenantID, userID, resourceType, resourceID string) (*Assignment, error)

	// ListActiveAssignments returns the user's active assignments. An empty
	// resourceType matches every type.
	ListActiveAssignments(ctx context.Context, tenantID, userID, resourceType string) ([]*Assignment, error)

	// DeleteAssignmentsByTenant removes all assignments for a tenant.
	DeleteAssignmentsByTenant(ctx context.Context, tenantID string) error
}
