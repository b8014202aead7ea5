package extension

import (
	"log/slog"

	"github.com/xraph/grove"

	"github.com/xraph/steward"
	"github.com/xraph/steward/plugin"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/store/mongo"
	"github.com/xraph/steward/store/postgres"
	"github.com/xraph/steward/store/sqlite"
)

// ExtOption configures the steward Forge extension.
type ExtOption func(*Extension)

// WithStore sets the persistence backend.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.store = s
	}
}

// WithPostgres backs the extension with a grove PostgreSQL database.
func WithPostgres(db *grove.DB) ExtOption {
	return WithStore(postgres.New(db))
}

// WithSQLite backs the extension with a grove SQLite database.
func WithSQLite(db *grove.DB) ExtOption {
	return WithStore(sqlite.New(db))
}

// WithMongo backs the extension with a grove MongoDB database.
func WithMongo(db *grove.DB) ExtOption {
	return WithStore(mongo.New(db))
}

// WithConfig sets the extension configuration.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithEngineOptions adds engine-level options, such as a cache.
func WithEngineOptions(opts ...steward.Option) ExtOption {
	return func(e *Extension) {
		e.stewardOpts = append(e.stewardOpts, opts...)
	}
}

// WithPlugin registers a lifecycle hook plugin.
func WithPlugin(x plugin.Plugin) ExtOption {
	return func(e *Extension) {
		e.plugins = append(e.plugins, x)
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithDisableRoutes disables the registration of HTTP routes.
func WithDisableRoutes() ExtOption {
	return func(e *Extension) {
		e.config.DisableRoutes = true
	}
}

// WithDisableMigrate disables auto-migration on start.
func WithDisableMigrate() ExtOption {
	return func(e *Extension) {
		e.config.DisableMigrate = true
	}
}
