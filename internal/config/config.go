// Package config resolves CLI settings from defaults, a YAML file and the
// environment. Flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig  = "TODO_CONFIG"
	EnvData    = "TODO_DATA"
	EnvBackend = "TODO_BACKEND"
	EnvTheme   = "TODO_THEME"
)

var (
	validBackends = []string{"json", "sqlite"}
	validThemes   = []string{"classic", "neon", "mono"}
)

// Config holds every tunable of the todo CLI.
type Config struct {
	Data    string `yaml:"data"`    // data file; empty lets the backend pick its default in cwd
	Backend string `yaml:"backend"` // json | sqlite
	Theme   string `yaml:"theme"`   // classic | neon | mono
	Group   bool   `yaml:"group"`   // ls grouped by pending/done
}

// Default returns the built-in settings.
func Default() Config {
	return Config{Backend: "json", Theme: "classic"}
}

// Load reads the config file (explicit path, $TODO_CONFIG, or the user config
// dir) and applies environment overrides. A missing file is only an error when
// the path was given explicitly.
func Load(path string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p := getenv(EnvConfig); p != "" {
			path, explicit = p, true
		} else {
			path = defaultPath(getenv)
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		}
	}

	if v := strings.TrimSpace(getenv(EnvData)); v != "" {
		cfg.Data = v
	}
	if v := strings.TrimSpace(getenv(EnvBackend)); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(getenv(EnvTheme)); v != "" {
		cfg.Theme = v
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func defaultPath(getenv func(string) string) string {
	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "todo", "config.yaml")
}

// Validate lowercases the backend and theme names, wherever they came from,
// and rejects unknown ones.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if !slices.Contains(validBackends, c.Backend) {
		return fmt.Errorf("invalid backend %q: must be one of %v", c.Backend, validBackends)
	}
	if !slices.Contains(validThemes, c.Theme) {
		return fmt.Errorf("invalid theme %q: must be one of %v", c.Theme, validThemes)
	}
	return nil
}
