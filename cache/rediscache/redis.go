// Package rediscache provides a steward.Cache shared between processes
// through Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xraph/steward"
)

// Compile-time interface check.
var _ steward.Cache = (*Cache)(nil)

const defaultPrefix = "steward:snap"

// Cache stores snapshots as JSON under
// "<prefix>:<len(tenant)>:<tenant>:<user>" with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// Option configures the cache.
type Option func(*Cache)

// WithTTL sets the entry time-to-live. Defaults to 30s.
func WithTTL(ttl time.Duration) Option { return func(c *Cache) { c.ttl = ttl } }

// WithPrefix sets the key namespace.
func WithPrefix(prefix string) Option { return func(c *Cache) { c.prefix = prefix } }

// WithLogger sets the logger used for Redis failures.
func WithLogger(l *slog.Logger) Option { return func(c *Cache) { c.logger = l } }

// New wraps client. Redis failures are logged and treated as misses.
func New(client *redis.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		ttl:    30 * time.Second,
		prefix: defaultPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ttl <= 0 {
		c.ttl = 30 * time.Second
	}
	return c
}

// Get returns a cached snapshot.
func (c *Cache) Get(ctx context.Context, tenantID, userID string) (*steward.Snapshot, bool) {
	payload, err := c.client.Get(ctx, c.subjectKey(tenantID, userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn("get", tenantID, err)
		}
		return nil, false
	}
	var snap steward.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		c.warn("decode", tenantID, err)
		return nil, false
	}
	return &snap, true
}

// Set stores a snapshot.
func (c *Cache) Set(ctx context.Context, tenantID, userID string, snap *steward.Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		c.warn("encode", tenantID, err)
		return
	}
	if err := c.client.Set(ctx, c.subjectKey(tenantID, userID), raw, c.ttl).Err(); err != nil {
		c.warn("set", tenantID, err)
	}
}

// InvalidateTenant removes all snapshots of a tenant.
func (c *Cache) InvalidateTenant(ctx context.Context, tenantID string) {
	iter := c.client.Scan(ctx, 0, globEscape(c.tenantPrefix(tenantID))+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.warn("scan", tenantID, err)
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.warn("del", tenantID, err)
	}
}

// InvalidateSubject removes the snapshot of one principal.
func (c *Cache) InvalidateSubject(ctx context.Context, tenantID, userID string) {
	if err := c.client.Del(ctx, c.subjectKey(tenantID, userID)).Err(); err != nil {
		c.warn("del", tenantID, err)
	}
}

func (c *Cache) tenantPrefix(tenantID string) string {
	return c.prefix + ":" + strconv.Itoa(len(tenantID)) + ":" + tenantID + ":"
}

// globEscape quotes the SCAN pattern metacharacters in s.
func globEscape(s string) string {
	if !strings.ContainsAny(s, `*?[]\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (c *Cache) subjectKey(tenantID, userID string) string {
	return c.tenantPrefix(tenantID) + userID
}

func (c *Cache) warn(op, tenantID string, err error) {
	c.logger.Warn("steward: redis cache "+op+" failed",
		slog.String("tenant_id", tenantID),
		slog.String("error", err.Error()),
	)
}
