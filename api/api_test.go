package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/api"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store/memory"
)

// newServer seeds an administrator "1" and a recruiter "2" in tenant t1.
func newServer(t *testing.T) (*memory.Store, http.Handler) {
	t.Helper()
	ctx := context.Background()
	s := memory.New()

	admin := &role.Role{ID: id.NewRoleID(), TenantID: "t1", Name: "Administrador", IsActive: true}
	recruiter := &role.Role{
		ID:          id.NewRoleID(),
		TenantID:    "t1",
		Name:        "Reclutador",
		IsActive:    true,
		Permissions: json.RawMessage(`{"candidates":{"view_scope":"own"}}`),
	}
	require.NoError(t, s.CreateRole(ctx, admin))
	require.NoError(t, s.CreateRole(ctx, recruiter))
	require.NoError(t, s.CreatePrincipal(ctx, &principal.Principal{ID: "1", TenantID: "t1", RoleID: admin.ID, IsActive: true}))
	require.NoError(t, s.CreatePrincipal(ctx, &principal.Principal{ID: "2", TenantID: "t1", RoleID: recruiter.ID, IsActive: true}))

	eng, err := steward.NewEngine(steward.WithStore(s))
	require.NoError(t, err)
	return s, api.New(eng, s, forge.NewRouter()).Handler()
}

// do sends one request in tenant t1, acting as userID when it is set.
func do(h http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := steward.WithTenant(req.Context(), "t1")
	if userID != "" {
		ctx = forge.WithUserID(ctx, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestAdminRoutesRequireAdministrator(t *testing.T) {
	s, h := newServer(t)
	overrides := `{"overrides":{"candidates":{"view_scope":"all"}}}`

	t.Run("anonymous caller", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/v1/roles", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("recruiter cannot widen own overrides", func(t *testing.T) {
		rec := do(h, http.MethodPut, "/v1/principals/2/overrides", "2", overrides)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		p, err := s.GetPrincipal(context.Background(), "t1", "2")
		require.NoError(t, err)
		assert.Empty(t, p.Overrides)
	})

	t.Run("recruiter cannot create roles", func(t *testing.T) {
		rec := do(h, http.MethodPost, "/v1/roles", "2", `{"name":"Administrador"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	for _, path := range []string{"/v1/roles", "/v1/principals", "/v1/team-edges", "/v1/assignments", "/v1/check-logs"} {
		t.Run("recruiter listing "+path, func(t *testing.T) {
			rec := do(h, http.MethodGet, path, "2", "")
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}

	t.Run("recruiter cannot explain", func(t *testing.T) {
		rec := do(h, http.MethodPost, "/v1/decisions/explain", "2", `{"user_id":"1","resource_type":"candidates"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("administrator lists roles", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/v1/roles", "1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("decision routes stay open", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/v1/decisions/team/2", "2", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
