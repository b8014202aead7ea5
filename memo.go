package steward

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// WithRequestMemo attaches a request-scoped memo to ctx. Identity
// snapshots and team resolutions computed through the returned context
// are reused for its lifetime, and concurrent loads of the same key are
// collapsed into one store round trip. Discard the context with the
// request; the memo is never shared between requests.
func WithRequestMemo(ctx context.Context) context.Context {
	if memoFromContext(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyMemo, newMemo())
}

type memoKey struct {
	kind     byte
	tenantID string
	userID   string
}

func (k memoKey) flightKey() string {
	return string(k.kind) + "\x00" + k.tenantID + "\x00" + k.userID
}

const (
	memoSnapshot byte = 's'
	memoTeam     byte = 't'
)

type memo struct {
	mu     sync.Mutex
	values map[memoKey]any
	group  singleflight.Group
}

func newMemo() *memo {
	return &memo{values: make(map[memoKey]any)}
}

func memoFromContext(ctx context.Context) *memo {
	m, _ := ctx.Value(ctxKeyMemo).(*memo)
	return m
}

// do returns the memoized value for key, computing it with load at most
// once. load must not fail; degraded results are memoized like any other.
func (m *memo) do(key memoKey, load func() any) any {
	m.mu.Lock()
	if v, ok := m.values[key]; ok {
		m.mu.Unlock()
		return v
	}
	m.mu.Unlock()

	v, _, _ := m.group.Do(key.flightKey(), func() (any, error) {
		m.mu.Lock()
		if v, ok := m.values[key]; ok {
			m.mu.Unlock()
			return v, nil
		}
		m.mu.Unlock()

		v := load()
		m.mu.Lock()
		m.values[key] = v
		m.mu.Unlock()
		return v, nil
	})
	return v
}

// forget drops every memoized value for a principal.
func (m *memo) forget(tenantID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.values {
		if k.tenantID == tenantID && (userID == "" || k.userID == userID) {
			delete(m.values, k)
		}
	}
}

func memoize[T any](ctx context.Context, key memoKey, load func() T) T {
	m := memoFromContext(ctx)
	if m == nil {
		return load()
	}
	return m.do(key, func() any { return load() }).(T)
}
