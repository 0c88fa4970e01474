// Package config loads taskflow settings from YAML or TOML files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zhubert/taskflow/internal/kv"
	"github.com/zhubert/taskflow/internal/task"
)

// DirName is the directory holding taskflow files, both in $HOME and in a project.
const DirName = ".taskflow"

// Config holds the resolved settings.
type Config struct {
	Backend  string `yaml:"backend" toml:"backend"`
	Path     string `yaml:"path" toml:"path"`
	Key      string `yaml:"key" toml:"key"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
	Style    string `yaml:"style" toml:"style"`
}

// Default returns the built-in settings. Path is left empty so it can
// follow whichever backend is finally chosen; see Finalize.
func Default() *Config {
	return &Config{
		Backend:  kv.BackendFile,
		Key:      task.DefaultKey,
		LogLevel: "info",
		Style:    "auto",
	}
}

// DefaultPath returns the storage location used for backend when none is
// configured: a directory for the file backend, a database file for sqlite.
func DefaultPath(backend, home string) string {
	switch backend {
	case kv.BackendSQLite:
		return filepath.Join(home, DirName, "taskflow.db")
	case kv.BackendMemory:
		return ""
	default:
		return filepath.Join(home, DirName, "store")
	}
}

// Finalize fills in the backend's default path and validates the result.
// Call it once every override (files, environment, flags) has been applied.
func (c *Config) Finalize(home string) error {
	if c.Path == "" {
		c.Path = DefaultPath(c.Backend, home)
	}
	return c.Validate()
}

// LoadFile reads a config file. The format is chosen by extension:
// .toml uses TOML, anything else YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// findInDir returns the first config file present in dir/.taskflow, or "".
func findInDir(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		path := filepath.Join(dir, DirName, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load resolves settings in order of increasing precedence: defaults, the
// global config in home, the project config in workDir, an explicit file,
// then TASKFLOW_* environment variables. Missing global and project files
// are not an error. The result is not validated; callers apply their own
// overrides and then call Finalize.
func Load(home, workDir, explicit string) (*Config, error) {
	cfg := Default()

	var paths []string
	if home != "" {
		if p := findInDir(home); p != "" {
			paths = append(paths, p)
		}
	}
	if workDir != "" && workDir != home {
		if p := findInDir(workDir); p != "" {
			paths = append(paths, p)
		}
	}
	if explicit != "" {
		paths = append(paths, explicit)
	}

	for _, p := range paths {
		fileCfg, err := LoadFile(p)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		cfg.merge(fileCfg, filepath.Dir(p))
	}

	cfg.applyEnv()
	return cfg, nil
}

// merge overlays non-empty fields from other. Relative paths resolve
// against base.
func (c *Config) merge(other *Config, base string) {
	if other.Backend != "" {
		c.Backend = other.Backend
	}
	if other.Path != "" {
		c.Path = resolvePath(other.Path, base)
	}
	if other.Key != "" {
		c.Key = other.Key
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Style != "" {
		c.Style = other.Style
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TASKFLOW_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("TASKFLOW_PATH"); v != "" {
		c.Path = v
	}
	if v := os.Getenv("TASKFLOW_KEY"); v != "" {
		c.Key = v
	}
	if v := os.Getenv("TASKFLOW_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func resolvePath(path, base string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// Validate checks that every field has an accepted value.
func (c *Config) Validate() error {
	switch c.Backend {
	case kv.BackendMemory, kv.BackendFile, kv.BackendSQLite:
	default:
		return fmt.Errorf("invalid backend %q, must be memory, file, or sqlite", c.Backend)
	}
	if c.Backend != kv.BackendMemory && c.Path == "" {
		return fmt.Errorf("backend %q requires a path", c.Backend)
	}
	if strings.TrimSpace(c.Key) == "" || strings.ContainsAny(c.Key, `/\`) {
		return fmt.Errorf("invalid key %q", c.Key)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q, must be debug, info, warn, or error", c.LogLevel)
	}
	switch c.Style {
	case "auto", "dark", "light", "notty", "plain":
	default:
		return fmt.Errorf("invalid style %q, must be auto, dark, light, notty, or plain", c.Style)
	}
	return nil
}

// Save writes the config as YAML to dir/.taskflow/config.yaml.
func (c *Config) Save(dir string) error {
	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", DirName, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
