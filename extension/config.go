package extension

import (
	"github.com/xraph/steward"
	"github.com/xraph/steward/role"
)

// Config holds the steward extension configuration.
// Fields can be set programmatically via ExtOption functions or loaded from
// YAML configuration files (under "extensions.steward" or "steward" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableAdminRoutes registers decision routes only.
	DisableAdminRoutes bool `json:"disable_admin_routes" mapstructure:"disable_admin_routes" yaml:"disable_admin_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// TeamPolicy is "direct" (default) or "transitive".
	TeamPolicy steward.TeamPolicy `json:"team_policy" mapstructure:"team_policy" yaml:"team_policy"`

	// MaxTeamDepth bounds transitive team resolution.
	MaxTeamDepth int `json:"max_team_depth" mapstructure:"max_team_depth" yaml:"max_team_depth"`

	// Roles replaces the canonical role vocabulary when any list is set.
	Roles role.Vocabulary `json:"roles" mapstructure:"roles" yaml:"roles"`

	// ResourceTypes lists the resource types permission documents may grant.
	ResourceTypes []string `json:"resource_types" mapstructure:"resource_types" yaml:"resource_types"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TeamPolicy:   steward.TeamDirect,
		MaxTeamDepth: 10,
		Roles:        role.DefaultVocabulary(),
	}
}

// engineConfig projects the extension config onto the engine config.
func (c Config) engineConfig() steward.Config {
	cfg := steward.DefaultConfig()
	if c.TeamPolicy != "" {
		cfg.TeamPolicy = c.TeamPolicy
	}
	if c.MaxTeamDepth > 0 {
		cfg.MaxTeamDepth = c.MaxTeamDepth
	}
	if !c.Roles.IsZero() {
		cfg.Roles = c.Roles
	}
	cfg.ResourceTypes = c.ResourceTypes
	return cfg
}
