package sqlite_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"

	"github.com/xraph/steward"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	drv := sqlitedriver.New()
	require.NoError(t, drv.Open(ctx, filepath.Join(t.TempDir(), "steward.db")))
	db, err := grove.Open(drv)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := sqlite.New(db)
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestGetPrincipalRole(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	admin := &role.Role{
		ID:          id.NewRoleID(),
		TenantID:    "t1",
		Name:        "Administrador",
		IsActive:    true,
		Permissions: json.RawMessage(`{}`),
	}
	foreign := &role.Role{
		ID:       id.NewRoleID(),
		TenantID: "t2",
		Name:     "Supervisor",
		IsActive: true,
	}
	require.NoError(t, s.CreateRole(ctx, admin))
	require.NoError(t, s.CreateRole(ctx, foreign))

	require.NoError(t, s.CreatePrincipal(ctx, &principal.Principal{ID: "1", TenantID: "t1", RoleID: admin.ID, IsActive: true}))
	require.NoError(t, s.CreatePrincipal(ctx, &principal.Principal{ID: "2", TenantID: "t1", IsActive: true}))
	require.NoError(t, s.CreatePrincipal(ctx, &principal.Principal{ID: "3", TenantID: "t1", RoleID: foreign.ID, IsActive: true}))

	t.Run("resolves the role", func(t *testing.T) {
		got, err := s.GetPrincipalRole(ctx, "t1", "1")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.ID)
		assert.Equal(t, "Administrador", got.Name)
		assert.True(t, got.IsActive)
	})

	t.Run("no role assigned", func(t *testing.T) {
		_, err := s.GetPrincipalRole(ctx, "t1", "2")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("role from another tenant", func(t *testing.T) {
		_, err := s.GetPrincipalRole(ctx, "t1", "3")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown principal", func(t *testing.T) {
		_, err := s.GetPrincipalRole(ctx, "t1", "99")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("principal in another tenant", func(t *testing.T) {
		_, err := s.GetPrincipalRole(ctx, "t2", "1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("engine classifies through the store", func(t *testing.T) {
		eng, err := steward.NewEngine(steward.WithStore(s))
		require.NoError(t, err)

		tctx := steward.WithTenant(ctx, "t1")
		assert.True(t, eng.IsAdministrator(tctx, "1"))
		assert.False(t, eng.IsAdministrator(tctx, "2"))
		assert.False(t, eng.IsAdministrator(tctx, "3"))
	})
}
