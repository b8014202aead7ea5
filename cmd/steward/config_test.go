package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsNeedDSN(t *testing.T) {
	_, err := loadConfig("", "")
	require.Error(t, err, "crmsql store without a DSN must not validate")
}

func TestLoadConfigFromYAML(t *testing.T) {
	cfg, err := loadConfig("testdata/config.yaml", "")
	require.NoError(t, err)

	assert.Equal(t, "fixture", cfg.Store)
	assert.Equal(t, 4, cfg.MaxTeamDepth)
	assert.Equal(t, 45*time.Second, cfg.CacheTTL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"Administrador", "Admin"}, cfg.Roles.Administrator)
	assert.Equal(t, []string{"Supervisor"}, cfg.Roles.Supervisor, "unset lists keep defaults")
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	t.Setenv("STEWARD_TEAM_POLICY", "transitive")
	t.Setenv("STEWARD_CACHE_TTL", "2m")

	cfg, err := loadConfig("testdata/config.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, "transitive", cfg.TeamPolicy)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4, cfg.MaxTeamDepth, "yaml value survives when env is unset")
}

func TestLoadConfigDotenv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "steward.env")
	require.NoError(t, os.WriteFile(envFile, []byte("STEWARD_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("STEWARD_LOG_LEVEL") })

	cfg, err := loadConfig("testdata/config.yaml", envFile)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigMissingDotenvIsIgnored(t *testing.T) {
	_, err := loadConfig("testdata/config.yaml", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"STEWARD_TEAM_POLICY":    "sideways",
		"STEWARD_LOG_FORMAT":     "xml",
		"STEWARD_MAX_TEAM_DEPTH": "-1",
		"STEWARD_REDIS_ADDR":     "not an address",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := loadConfig("testdata/config.yaml", "")
			assert.Error(t, err)
		})
	}
}
