package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/steward"
	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/role"
)

func newTestCache(t *testing.T, opts ...Option) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, opts...), mr
}

func snapshot(kind role.Kind, name string) *steward.Snapshot {
	return &steward.Snapshot{
		Resolved:       true,
		Classification: role.Classification{Kind: kind, Name: name},
		Permissions:    permdoc.Document{"candidates": map[string]any{"view_scope": "team"}},
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, ok := c.Get(ctx, "t1", "7")
	assert.False(t, ok)

	c.Set(ctx, "t1", "7", snapshot(role.KindSupervisor, "Supervisor"))
	got, ok := c.Get(ctx, "t1", "7")
	require.True(t, ok)
	assert.True(t, got.Resolved)
	assert.Equal(t, role.KindSupervisor, got.Classification.Kind)
	assert.Equal(t, "Supervisor", got.Classification.Name)
	v, ok := got.Permissions.Lookup("candidates", "view_scope")
	require.True(t, ok)
	assert.Equal(t, "team", v)
}

func TestTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, WithTTL(time.Minute))

	c.Set(ctx, "t1", "7", snapshot(role.KindRecruiter, "Reclutador"))
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "t1", "7")
	assert.False(t, ok)
}

func TestInvalidateTenant(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	c.Set(ctx, "t1", "7", snapshot(role.KindRecruiter, "Reclutador"))
	c.Set(ctx, "t1", "8", snapshot(role.KindRecruiter, "Reclutador"))
	c.Set(ctx, "t10", "7", snapshot(role.KindRecruiter, "Reclutador"))

	c.InvalidateTenant(ctx, "t1")

	_, ok := c.Get(ctx, "t1", "7")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "t1", "8")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "t10", "7")
	assert.True(t, ok, "tenant sharing a prefix must survive")
}

func TestInvalidateTenantQuotesPatterns(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	for _, tenant := range []string{"a*", "a?", "ab", `a\b`} {
		c.Set(ctx, tenant, "7", snapshot(role.KindRecruiter, "Reclutador"))
	}

	c.InvalidateTenant(ctx, "a*")
	c.InvalidateTenant(ctx, "a?")

	for _, tenant := range []string{"a*", "a?"} {
		_, ok := c.Get(ctx, tenant, "7")
		assert.False(t, ok, "tenant %q must be invalidated", tenant)
	}
	_, ok := c.Get(ctx, "ab", "7")
	assert.True(t, ok, "a tenant matched only by the raw pattern must survive")

	c.InvalidateTenant(ctx, `a\b`)
	_, ok = c.Get(ctx, `a\b`, "7")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "ab", "7")
	assert.True(t, ok)
}

func TestGlobEscape(t *testing.T) {
	assert.Equal(t, "steward:snap:2:t1:", globEscape("steward:snap:2:t1:"))
	assert.Equal(t, `a\*b\?c\[d\]e\\f`, globEscape(`a*b?c[d]e\f`))
}

func TestInvalidateSubject(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, WithPrefix("test"))

	c.Set(ctx, "t1", "7", snapshot(role.KindRecruiter, "Reclutador"))
	c.Set(ctx, "t1", "8", snapshot(role.KindRecruiter, "Reclutador"))
	c.InvalidateSubject(ctx, "t1", "7")

	_, ok := c.Get(ctx, "t1", "7")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "t1", "8")
	assert.True(t, ok)
}
