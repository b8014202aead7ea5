package steward

import (
	"context"

	"github.com/xraph/forge"
)

type contextKey int

const (
	ctxKeyTenantID contextKey = iota
	ctxKeyMemo
)

// WithTenant pins tenantID to ctx for standalone use. The value must come
// from server-validated authentication state, never from request input.
// Under Forge the tenant is taken from the request scope instead.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, ctxKeyTenantID, tenantID)
}

// TenantFromContext returns the pinned tenant: the Forge scope's
// organization when present, otherwise the value set by WithTenant.
func TenantFromContext(ctx context.Context) (string, bool) {
	if s, ok := forge.ScopeFrom(ctx); ok && s.OrgID() != "" {
		return s.OrgID(), true
	}
	v, ok := ctx.Value(ctxKeyTenantID).(string)
	return v, ok && v != ""
}

// UserFromContext returns the authenticated user id recorded by Forge.
func UserFromContext(ctx context.Context) (string, bool) {
	u := forge.UserIDFromContext(ctx)
	return u, u != ""
}

func requireTenant(ctx context.Context) (string, error) {
	tenantID, ok := TenantFromContext(ctx)
	if !ok {
		return "", ErrTenantRequired
	}
	return tenantID, nil
}
