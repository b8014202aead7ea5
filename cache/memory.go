// Package cache provides time-bounded snapshot caches for steward.
package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/xraph/steward"
)

// Compile-time interface check.
var _ steward.Cache = (*Memory)(nil)

// Memory is an in-process LRU cache whose entries expire after a TTL.
type Memory struct {
	lru     *expirable.LRU[string, *steward.Snapshot]
	ttl     time.Duration
	maxSize int
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache. Defaults: 30s TTL, 10000
// entries.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		ttl:     30 * time.Second,
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ttl <= 0 {
		m.ttl = 30 * time.Second
	}
	m.lru = expirable.NewLRU[string, *steward.Snapshot](m.maxSize, nil, m.ttl)
	return m
}

// Get returns a cached snapshot.
func (m *Memory) Get(_ context.Context, tenantID, userID string) (*steward.Snapshot, bool) {
	return m.lru.Get(subjectKey(tenantID, userID))
}

// Set stores a snapshot.
func (m *Memory) Set(_ context.Context, tenantID, userID string, snap *steward.Snapshot) {
	m.lru.Add(subjectKey(tenantID, userID), snap)
}

// InvalidateTenant removes all snapshots of a tenant.
func (m *Memory) InvalidateTenant(_ context.Context, tenantID string) {
	prefix := tenantPrefix(tenantID)
	for _, k := range m.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			m.lru.Remove(k)
		}
	}
}

// InvalidateSubject removes the snapshot of one principal.
func (m *Memory) InvalidateSubject(_ context.Context, tenantID, userID string) {
	m.lru.Remove(subjectKey(tenantID, userID))
}

// Len returns the number of live entries.
func (m *Memory) Len() int { return m.lru.Len() }

// tenantPrefix length-prefixes the tenant so ids containing the
// separator cannot collide.
func tenantPrefix(tenantID string) string {
	return strconv.Itoa(len(tenantID)) + ":" + tenantID + ":"
}

func subjectKey(tenantID, userID string) string {
	return tenantPrefix(tenantID) + userID
}
