package extension

import (
	"testing"

	"github.com/xraph/steward"
	"github.com/xraph/steward/role"
)

func TestEngineConfigDefaults(t *testing.T) {
	cfg := DefaultConfig().engineConfig()
	if cfg.TeamPolicy != steward.TeamDirect {
		t.Errorf("TeamPolicy = %q, want direct", cfg.TeamPolicy)
	}
	if cfg.MaxTeamDepth != 10 {
		t.Errorf("MaxTeamDepth = %d, want 10", cfg.MaxTeamDepth)
	}
	if got := cfg.Roles.Administrator; len(got) != 1 || got[0] != "Administrador" {
		t.Errorf("Administrator vocabulary = %v", got)
	}
}

func TestEngineConfigOverrides(t *testing.T) {
	cfg := Config{
		TeamPolicy:    steward.TeamTransitive,
		MaxTeamDepth:  3,
		Roles:         role.Vocabulary{Administrator: []string{"Admin"}},
		ResourceTypes: []string{"candidates"},
	}.engineConfig()

	if cfg.TeamPolicy != steward.TeamTransitive || cfg.MaxTeamDepth != 3 {
		t.Errorf("team config = %q/%d", cfg.TeamPolicy, cfg.MaxTeamDepth)
	}
	if len(cfg.Roles.Administrator) != 1 || cfg.Roles.Administrator[0] != "Admin" {
		t.Errorf("Roles = %+v", cfg.Roles)
	}
	if len(cfg.ResourceTypes) != 1 {
		t.Errorf("ResourceTypes = %v", cfg.ResourceTypes)
	}
}

func TestEngineConfigEmptyVocabularyKeepsDefault(t *testing.T) {
	cfg := Config{}.engineConfig()
	if len(cfg.Roles.Supervisor) != 1 || cfg.Roles.Supervisor[0] != "Supervisor" {
		t.Errorf("Roles = %+v", cfg.Roles)
	}
}

func TestNewWithoutStoreHasNoEngine(t *testing.T) {
	ext := New(WithDisableRoutes(), WithDisableMigrate())
	if ext.Engine() != nil {
		t.Fatal("engine must not exist before Register")
	}
	if err := ext.Health(t.Context()); err == nil {
		t.Fatal("Health before Register should fail")
	}
	if !ext.config.DisableRoutes || !ext.config.DisableMigrate {
		t.Error("options did not apply")
	}
}
