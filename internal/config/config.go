package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the tagrun.yaml project file. Environment variables prefixed
// TAGRUN_ override it after loading, so scripted runs can redirect the
// ledger without editing the file.
type Config struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type LedgerConfig struct {
	DSN string `yaml:"dsn" envconfig:"LEDGER_DSN"`
}

type DefaultsConfig struct {
	List           string `yaml:"list" envconfig:"DEFAULT_LIST"`
	Calendar       string `yaml:"calendar" envconfig:"DEFAULT_CALENDAR"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"TIMEOUT_SECONDS"`
}

const DefaultTimeoutSeconds = 12

func Default() *Config {
	return &Config{
		Project: "tagrun",
		Version: 1,
		Ledger:  LedgerConfig{DSN: "file://.tagrun/ledger.json"},
		Defaults: DefaultsConfig{
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

// Load reads the project config, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err != nil && os.IsNotExist(err):
		// No project file is fine; defaults plus env carry the run.
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		if err := validate(cfg); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := envconfig.Process("tagrun", &cfg.Ledger); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := envconfig.Process("tagrun", &cfg.Defaults); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if cfg.Defaults.TimeoutSeconds <= 0 {
		cfg.Defaults.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Ledger.DSN) == "" {
		return fmt.Errorf("ledger dsn is required")
	}
	if !hasKnownScheme(cfg.Ledger.DSN) {
		return fmt.Errorf("unsupported ledger dsn scheme: %s", cfg.Ledger.DSN)
	}
	return nil
}

func hasKnownScheme(dsn string) bool {
	for _, scheme := range []string{"file://", "sqlite://", "postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}
