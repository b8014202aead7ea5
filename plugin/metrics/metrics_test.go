package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/plugin"
)

func TestDecisionsAreCounted(t *testing.T) {
	ctx := context.Background()
	p, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	ev := &plugin.Event{Operation: "filter", ResourceType: "candidates", Scope: "team", Allowed: true, Duration: time.Millisecond}
	require.NoError(t, p.OnAfterEvaluate(ctx, ev))
	require.NoError(t, p.OnAfterEvaluate(ctx, ev))
	require.NoError(t, p.OnAfterEvaluate(ctx, &plugin.Event{Operation: "can_perform", ResourceType: "candidates"}))

	assert.Equal(t, 2.0, testutil.ToFloat64(p.decisions.WithLabelValues("filter", "candidates", "team", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.decisions.WithLabelValues("can_perform", "candidates", "-", "false")))
	assert.Equal(t, 2, testutil.CollectAndCount(p.duration))
}

func TestUnknownResourceTypesShareOneLabel(t *testing.T) {
	ctx := context.Background()
	p, err := New(prometheus.NewRegistry(), WithResourceTypes("candidates", "widgets"))
	require.NoError(t, err)

	for _, rt := range []string{"widgets", "clients", "x1", "x2", "../etc"} {
		require.NoError(t, p.OnAfterEvaluate(ctx, &plugin.Event{Operation: "scope", ResourceType: rt, Scope: "none"}))
	}
	require.NoError(t, p.OnAfterEvaluate(ctx, &plugin.Event{Operation: "classify"}))

	assert.Equal(t, 1.0, testutil.ToFloat64(p.decisions.WithLabelValues("scope", "widgets", "none", "false")))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.decisions.WithLabelValues("scope", "unknown", "none", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.decisions.WithLabelValues("classify", "", "-", "false")))
	assert.Equal(t, 3, testutil.CollectAndCount(p.decisions))
}

func TestDefaultResourceTypesAreLabelled(t *testing.T) {
	ctx := context.Background()
	p, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	for _, rt := range permdoc.DefaultResourceTypes() {
		require.NoError(t, p.OnAfterEvaluate(ctx, &plugin.Event{Operation: "filter", ResourceType: string(rt), Scope: "all", Allowed: true}))
	}
	assert.Equal(t, len(permdoc.DefaultResourceTypes()), testutil.CollectAndCount(p.decisions))
}

func TestDegradationsAndInvalidations(t *testing.T) {
	ctx := context.Background()
	p, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	require.NoError(t, p.OnDegraded(ctx, &plugin.Degradation{Kind: "malformed_permissions"}))
	require.NoError(t, p.OnCacheInvalidated(ctx, "t1", "7"))
	require.NoError(t, p.OnCacheInvalidated(ctx, "t1", ""))

	assert.Equal(t, 1.0, testutil.ToFloat64(p.degradations.WithLabelValues("malformed_permissions")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.invalidations.WithLabelValues("subject")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.invalidations.WithLabelValues("tenant")))
}

func TestRegisteringTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(reg)
	require.NoError(t, err)
	b, err := New(reg)
	require.NoError(t, err)

	require.NoError(t, a.OnDegraded(context.Background(), &plugin.Degradation{Kind: "team"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.degradations.WithLabelValues("team")))
}
