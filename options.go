package steward

import (
	"log/slog"

	"github.com/xraph/steward/plugin"
	"github.com/xraph/steward/store"
)

// Option is a functional option for the Engine.
type Option func(*Engine)

// WithStore sets the store the engine reads principals, roles, team
// edges and assignments from. A full store.Store satisfies it.
func WithStore(s store.Reader) Option { return func(e *Engine) { e.store = s } }

// WithTeamWalker replaces the walker selected by Config.TeamPolicy.
func WithTeamWalker(w TeamWalker) Option { return func(e *Engine) { e.teamWalker = w } }

// WithCache sets the shared snapshot cache. Without it only the request
// memo is used.
func WithCache(c Cache) Option { return func(e *Engine) { e.cache = c } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithConfig sets the engine configuration.
func WithConfig(c Config) Option { return func(e *Engine) { e.config = c } }

// WithPlugin registers a plugin with the engine.
func WithPlugin(x plugin.Plugin) Option {
	return func(e *Engine) {
		if e.plugins == nil {
			e.plugins = plugin.NewRegistry(e.logger)
		}
		e.plugins.Register(x)
	}
}
