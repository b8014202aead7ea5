package steward

import (
	"context"

	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/role"
)

// Classify returns the role classification of userID in the pinned tenant.
// A principal without an active role in that tenant is role.None.
func (e *Engine) Classify(ctx context.Context, userID string) (role.Classification, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return role.None, err
	}
	return e.classification(ctx, tenantID, userID), nil
}

// IsAdministrator reports whether userID classifies as an administrator.
// Contract errors report false.
func (e *Engine) IsAdministrator(ctx context.Context, userID string) bool {
	c, err := e.Classify(ctx, userID)
	return err == nil && c.IsAdministrator()
}

// IsSupervisor reports whether userID classifies as a supervisor.
func (e *Engine) IsSupervisor(ctx context.Context, userID string) bool {
	c, err := e.Classify(ctx, userID)
	return err == nil && c.IsSupervisor()
}

// IsRecruiter reports whether userID classifies as a recruiter.
func (e *Engine) IsRecruiter(ctx context.Context, userID string) bool {
	c, err := e.Classify(ctx, userID)
	return err == nil && c.IsRecruiter()
}

// EffectivePermissions returns the merged permission document of userID.
// The result is a private copy.
func (e *Engine) EffectivePermissions(ctx context.Context, userID string) (permdoc.Document, error) {
	tenantID, err := e.subject(ctx, userID)
	if err != nil {
		return permdoc.Document{}, err
	}
	return e.snapshot(ctx, tenantID, userID).Permissions.Clone(), nil
}
