package principal

import (
	"context"
	"encoding/json"
)

// Store defines persistence operations for principals. Principals are
// keyed by (tenant, user); every method requires the tenant.
type Store interface {
	// CreatePrincipal persists a new principal.
	CreatePrincipal(ctx context.Context, p *Principal) error

	// GetPrincipal retrieves a principal by tenant and user ID.
	GetPrincipal(ctx context.Context, tenantID, userID string) (*Principal, error)

	// UpdatePrincipal persists changes to a principal.
	UpdatePrincipal(ctx context.Context, p *Principal) error

	// SetOverrides replaces the principal's serialized override document.
	// A nil document clears the overrides.
	SetOverrides(ctx context.Context, tenantID, userID string, overrides json.RawMessage) error

	// DeletePrincipal removes a principal.
	DeletePrincipal(ctx context.Context, tenantID, userID string) error

	// ListPrincipals returns principals matching the filter.
	ListPrincipals(ctx context.Context, filter *ListFilter) ([]*Principal, error)

	// DeletePrincipalsByTenant removes all principals for a tenant.
	DeletePrincipalsByTenant(ctx context.Context, tenantID string) error
}
