package steward

import (
	"context"

	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/role"
)

// Snapshot is a principal's resolved identity: classification plus merged
// effective permissions. Snapshots are shared read-only between callers.
type Snapshot struct {
	// Resolved is false when the principal is missing or inactive.
	Resolved       bool                `json:"resolved"`
	Classification role.Classification `json:"classification"`
	Permissions    permdoc.Document    `json:"permissions"`
}

// Cache is an optional time-bounded snapshot cache shared across
// requests. Entries must expire; callers invalidate after administrative
// changes through Engine.Invalidate and Engine.InvalidateTenant.
type Cache interface {
	// Get returns a cached snapshot, if available.
	Get(ctx context.Context, tenantID, userID string) (*Snapshot, bool)

	// Set stores a snapshot.
	Set(ctx context.Context, tenantID, userID string, snap *Snapshot)

	// InvalidateTenant removes all snapshots for a tenant.
	InvalidateTenant(ctx context.Context, tenantID string)

	// InvalidateSubject removes the snapshot of one principal.
	InvalidateSubject(ctx context.Context, tenantID, userID string)
}
