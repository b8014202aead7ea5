package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/xraph/steward"
	"github.com/xraph/steward/cache/rediscache"
	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/plugin/audit"
	"github.com/xraph/steward/plugin/metrics"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/store/crmsql"
)

// runtime is everything a command needs, built once from Config.
type runtime struct {
	cfg      Config
	logger   *slog.Logger
	engine   *steward.Engine
	reader   store.Reader
	admin    store.Store // nil unless the backend is writable
	registry *prometheus.Registry
	closers  []func() error
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newRuntime(ctx context.Context, cfg Config, logw io.Writer) (*runtime, error) {
	rt := &runtime{
		cfg:      cfg,
		logger:   newLogger(cfg, logw),
		registry: prometheus.NewRegistry(),
	}

	switch cfg.Store {
	case "fixture":
		s, err := loadFixture(ctx, cfg.Fixture)
		if err != nil {
			return nil, err
		}
		rt.reader, rt.admin = s, s
	default:
		db, err := sql.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
		}
		rt.closers = append(rt.closers, db.Close)
		r, err := crmsql.New(db,
			crmsql.WithDialect(crmsql.Dialect(cfg.Dialect)),
			crmsql.WithTables(cfg.Tables),
		)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		rt.reader = r
	}

	ec := engineConfig(cfg)
	m, err := metrics.New(rt.registry, metrics.WithResourceTypes(resourceTypes(ec)...))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}

	opts := []steward.Option{
		steward.WithLogger(rt.logger),
		steward.WithStore(rt.reader),
		steward.WithConfig(ec),
		steward.WithPlugin(m),
	}
	if rt.admin != nil {
		opts = append(opts, steward.WithPlugin(audit.New(rt.admin, audit.WithLogger(rt.logger))))
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rt.closers = append(rt.closers, client.Close)
		opts = append(opts, steward.WithCache(rediscache.New(client,
			rediscache.WithTTL(cfg.CacheTTL),
			rediscache.WithLogger(rt.logger),
		)))
	}

	eng, err := steward.NewEngine(opts...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.engine = eng
	return rt, nil
}

func engineConfig(cfg Config) steward.Config {
	ec := steward.DefaultConfig()
	ec.TeamPolicy = steward.TeamPolicy(cfg.TeamPolicy)
	ec.MaxTeamDepth = cfg.MaxTeamDepth
	if !cfg.Roles.IsZero() {
		ec.Roles = cfg.Roles
	}
	return ec
}

// resourceTypes is the set the engine will grant on, for metric labels.
func resourceTypes(ec steward.Config) []permdoc.ResourceType {
	types := make([]permdoc.ResourceType, len(ec.ResourceTypes))
	for i, t := range ec.ResourceTypes {
		types[i] = permdoc.ResourceType(t)
	}
	return types
}

// Close releases connections in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn("steward: close", slog.String("error", err.Error()))
		}
	}
	rt.closers = nil
}
