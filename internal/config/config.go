package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Environment overrides.
const (
	EnvDBPath   = "CASESLA_DB_PATH"
	EnvLogLevel = "CASESLA_LOG_LEVEL"
	EnvActor    = "CASESLA_ACTOR"
)

// Defaults applied when the config file leaves a field empty.
const (
	DefaultLogLevel  = "info"
	DefaultAnchor    = "last_transition"
	DefaultBulkLimit = 8
)

// Config represents the flat casesla configuration
type Config struct {
	DBPath          string `json:"db_path,omitempty"`
	LogLevel        string `json:"log_level,omitempty"`        // debug, info, warn, error
	DefaultAnchor   string `json:"default_anchor,omitempty"`   // last_transition, deadline
	BulkLimit       int    `json:"bulk_limit,omitempty"`       // concurrent snapshots in status/sweep
	MetricsTextfile string `json:"metrics_textfile,omitempty"` // node_exporter textfile path
	Actor           string `json:"actor,omitempty"`            // default actor for transitions
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, ".casesla", "config.json")
}

// LoadConfig reads .casesla/config.json from the specified directory.
// Returns an error wrapping os.ErrNotExist if the file is absent.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".casesla")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .casesla dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Resolve loads the effective configuration.
// An explicit path wins; otherwise the working directory is tried, then $HOME.
// A missing file yields defaults. Environment overrides are applied last.
func Resolve(explicit, cwd, home string) (*Config, error) {
	var (
		cfg *Config
		err error
	)

	switch {
	case explicit != "":
		cfg, err = loadFile(explicit)
		if err != nil {
			return nil, err
		}
	default:
		for _, dir := range []string{cwd, home} {
			if dir == "" {
				continue
			}
			cfg, err = LoadConfig(dir)
			if err == nil {
				break
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			cfg = nil
		}
	}

	if cfg == nil {
		cfg = &Config{}
	}
	cfg.applyEnv()
	if err := cfg.applyDefaults(home); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvActor); v != "" && c.Actor == "" {
		c.Actor = v
	}
}

func (c *Config) applyDefaults(home string) error {
	if c.DBPath == "" {
		if home == "" {
			return fmt.Errorf("no db_path configured and no home directory")
		}
		c.DBPath = filepath.Join(home, ".casesla", "casesla.db")
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DefaultAnchor == "" {
		c.DefaultAnchor = DefaultAnchor
	}
	if c.BulkLimit <= 0 {
		c.BulkLimit = DefaultBulkLimit
	}
	return nil
}

// String renders the config for `casesla config show`.
func (c *Config) String() string {
	return "db_path: " + c.DBPath +
		"\nlog_level: " + c.LogLevel +
		"\ndefault_anchor: " + c.DefaultAnchor +
		"\nbulk_limit: " + strconv.Itoa(c.BulkLimit) +
		"\nmetrics_textfile: " + c.MetricsTextfile +
		"\nactor: " + c.Actor + "\n"
}
