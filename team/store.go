package team

import (
	"context"

	"github.com/xraph/steward/id"
)

// Store defines persistence operations for team edges.
type Store interface {
	// CreateEdge persists a new edge.
	CreateEdge(ctx context.Context, e *Edge) error

	// GetEdge retrieves an edge by ID.
	GetEdge(ctx context.Context, edgeID id.EdgeID) (*Edge, error)

	// SetEdgeActive activates or deactivates an edge.
	SetEdgeActive(ctx context.Context, edgeID id.EdgeID, active bool) error

	// DeleteEdge removes an edge.
	DeleteEdge(ctx context.Context, edgeID id.EdgeID) error

	// ListEdges returns edges matching the filter.
	ListEdges(ctx context.Context, filter *ListFilter) ([]*Edge, error)

	// ListActiveMembers returns the member IDs of active edges whose
	// supervisor is supervisorID within the tenant.
	ListActiveMembers(ctx context.Context, tenantID, supervisorID string) ([]string, error)

	// GetSupervisor returns the supervisor of the first active edge whose
	// member is memberID, or a not-found error.
	GetSupervisor(ctx context.Context, tenantID, memberID string) (string, error)

	// DeleteEdgesByTenant removes all edges for a tenant.
	DeleteEdgesByTenant(ctx context.Context, tenantID string) error
}
