package steward

import (
	"fmt"

	"github.com/xraph/steward/permdoc"
	"github.com/xraph/steward/role"
)

// TeamPolicy selects how far team scope reaches down the reporting line.
type TeamPolicy string

const (
	// TeamDirect resolves a supervisor's direct reports only.
	TeamDirect TeamPolicy = "direct"
	// TeamTransitive resolves the whole reporting subtree, bounded by
	// Config.MaxTeamDepth.
	TeamTransitive TeamPolicy = "transitive"
)

// Config holds configuration for the steward engine.
type Config struct {
	// TeamPolicy defaults to TeamDirect.
	TeamPolicy TeamPolicy `json:"team_policy,omitempty"`

	// MaxTeamDepth bounds transitive team resolution. Defaults to 10.
	MaxTeamDepth int `json:"max_team_depth,omitempty"`

	// Roles is the canonical role vocabulary used for classification. An
	// empty vocabulary means role.DefaultVocabulary.
	Roles role.Vocabulary `json:"roles"`

	// ResourceTypes lists the resource types documents may grant. Empty
	// means permdoc.DefaultResourceTypes.
	ResourceTypes []string `json:"resource_types,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TeamPolicy:   TeamDirect,
		MaxTeamDepth: 10,
		Roles:        role.DefaultVocabulary(),
	}
}

func (c Config) validate() error {
	switch c.TeamPolicy {
	case "", TeamDirect, TeamTransitive:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTeamPolicy, c.TeamPolicy)
	}
	if c.MaxTeamDepth < 0 {
		return fmt.Errorf("steward: max team depth must not be negative, got %d", c.MaxTeamDepth)
	}
	return nil
}

func (c Config) registry() *permdoc.Registry {
	if len(c.ResourceTypes) == 0 {
		return permdoc.NewRegistry()
	}
	types := make([]permdoc.ResourceType, len(c.ResourceTypes))
	for i, t := range c.ResourceTypes {
		types[i] = permdoc.ResourceType(t)
	}
	return permdoc.NewRegistry(types...)
}
