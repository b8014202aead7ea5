package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store/crmsql"
)

const envPrefix = "STEWARD"

// Config is the CLI configuration. Values come from the YAML file first,
// then the .env file, then STEWARD_* environment variables.
type Config struct {
	// Store is "crmsql" (legacy CRM schema) or "fixture" (YAML seed file).
	Store string `yaml:"store" envconfig:"STORE" validate:"required,oneof=crmsql fixture"`

	DSN     string        `yaml:"dsn" envconfig:"DSN" validate:"required_if=Store crmsql"`
	Driver  string        `yaml:"driver" envconfig:"DRIVER" validate:"required_if=Store crmsql"`
	Dialect string        `yaml:"dialect" envconfig:"DIALECT" validate:"oneof=mysql postgres"`
	Tables  crmsql.Tables `yaml:"tables" ignored:"true"`

	Fixture string `yaml:"fixture" envconfig:"FIXTURE" validate:"required_if=Store fixture"`

	TeamPolicy   string          `yaml:"team_policy" envconfig:"TEAM_POLICY" validate:"oneof=direct transitive"`
	MaxTeamDepth int             `yaml:"max_team_depth" envconfig:"MAX_TEAM_DEPTH" validate:"gte=0,lte=100"`
	Roles        role.Vocabulary `yaml:"roles" ignored:"true"`

	// RedisAddr enables the shared snapshot cache when set.
	RedisAddr string        `yaml:"redis_addr" envconfig:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	CacheTTL  time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" validate:"gte=0"`

	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT" validate:"oneof=text json"`
	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	Addr string `yaml:"addr" envconfig:"ADDR" validate:"required,hostname_port"`
}

func defaultConfig() Config {
	return Config{
		Store:        "crmsql",
		Driver:       "pgx",
		Dialect:      "postgres",
		TeamPolicy:   "direct",
		MaxTeamDepth: 10,
		Roles:        role.DefaultVocabulary(),
		CacheTTL:     30 * time.Second,
		LogFormat:    "text",
		LogLevel:     "info",
		Addr:         "127.0.0.1:8080",
	}
}

// loadConfig layers defaults, the YAML file at path (optional when empty),
// the dotenv file at envFile (ignored when missing) and the environment.
func loadConfig(path, envFile string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
