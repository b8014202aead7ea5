package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/steward"
	"github.com/xraph/steward/checklog"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/plugin"
	"github.com/xraph/steward/plugin/audit"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store/memory"
)

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	r := &role.Role{
		ID: id.NewRoleID(), TenantID: "t1", Name: "Reclutador", IsActive: true,
		Permissions: json.RawMessage(`{"candidates":{"view_scope":"own"}}`),
	}
	require.NoError(t, s.CreateRole(ctx, r))
	require.NoError(t, s.CreatePrincipal(ctx, &principal.Principal{ID: "7", TenantID: "t1", RoleID: r.ID, IsActive: true}))
}

func TestRecordsEngineDecisions(t *testing.T) {
	s := memory.New()
	seed(t, s)
	eng, err := steward.NewEngine(steward.WithStore(s), steward.WithPlugin(audit.New(s)))
	require.NoError(t, err)

	ctx := steward.WithTenant(context.Background(), "t1")
	_, err = eng.BuildFilter(ctx, "7", "candidates")
	require.NoError(t, err)
	_, err = eng.CanPerform(ctx, "7", "clients", "create")
	require.NoError(t, err)

	entries, err := s.ListCheckLogs(ctx, &checklog.QueryFilter{TenantID: "t1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byOp := map[string]*checklog.Entry{}
	for _, e := range entries {
		byOp[e.Operation] = e
	}
	require.Contains(t, byOp, "filter")
	assert.True(t, byOp["filter"].Allowed)
	assert.Equal(t, "own", byOp["filter"].Scope)
	assert.Equal(t, "7", byOp["filter"].UserID)
	require.Contains(t, byOp, "can_perform")
	assert.False(t, byOp["can_perform"].Allowed)
	assert.Equal(t, "no section", byOp["can_perform"].Reason)
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	p := audit.New(s, audit.DeniedOnly(), audit.WithOperations("filter"))
	require.NoError(t, p.OnAfterEvaluate(ctx, &plugin.Event{TenantID: "t1", Operation: "filter", Allowed: true}))
	require.NoError(t, p.OnAfterEvaluate(ctx, &plugin.Event{TenantID: "t1", Operation: "scope", Allowed: false}))
	require.NoError(t, p.OnAfterEvaluate(ctx, &plugin.Event{TenantID: "t1", Operation: "filter", Allowed: false}))

	n, err := s.CountCheckLogs(ctx, &checklog.QueryFilter{TenantID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

type failingStore struct{ checklog.Store }

func (failingStore) CreateCheckLog(context.Context, *checklog.Entry) error {
	return errors.New("disk full")
}

func TestWriteFailureIsReturnedToRegistry(t *testing.T) {
	p := audit.New(failingStore{})
	err := p.OnAfterEvaluate(context.Background(), &plugin.Event{TenantID: "t1", Operation: "filter"})
	assert.EqualError(t, err, "disk full")
}
