// Package config provides unified configuration management for exectimer.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/exectimer/internal/debug"
	"github.com/alexander-akhmetov/exectimer/internal/dirs"
	"github.com/alexander-akhmetov/exectimer/timer"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// Output formats for the run summary.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatNone  = "none"
)

// OutputConfig holds settings for the summary printed after a run.
type OutputConfig struct {
	Format string `yaml:"format"` // table, json or none
}

// Config holds all configuration settings for exectimer.
//
// Timer options stay untyped: they are handed to timer.NewFromValues, which
// reports values of the wrong type instead of the YAML decoder rejecting the
// whole file. A key present in a layer counts as set, so a later layer can
// override an earlier one with false or 0.
type Config struct {
	Timer  map[string]any `yaml:"timer"`
	Output OutputConfig   `yaml:"output"`

	// Private: track where config was loaded from
	configDir string
	localDir  string
	sources   []string // ordered list of sources that contributed to this config
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Load loads all configuration from the default locations.
// It auto-detects .exectimer/ in the current working directory for local overrides.
// It installs defaults if needed.
func Load() (*Config, error) {
	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		localDir = dirs.LocalDir(cwd)
	}
	return LoadWithDirs(dirs.ConfigDir(), localDir)
}

// LoadWithDirs loads configuration with explicit global and local directories.
// Local config (.exectimer/) overrides global config (~/.config/exectimer/) per-key.
// If localDir is empty, only global config is used.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	// 1. Start with embedded defaults
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	// 2. Merge global config
	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	// 3. Apply environment variables (between global and local)
	cfg.applyEnv()

	// 4. Merge local config (highest file precedence)
	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir
	debug.Logf("config loaded from %v", cfg.sources)

	return cfg, nil
}

// InstallDefaults creates the config directory and installs default config if not exists.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
		debug.Logf("installed default config at %s", configPath)
	}

	return nil
}

// loadEmbedded loads config from the embedded defaults.
func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

// loadFile loads config from a file path.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfig(data)
}

// parseConfig parses YAML config data into a Config struct.
func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Timer == nil {
		cfg.Timer = make(map[string]any)
	}
	return &cfg, nil
}

type valueKind int

const (
	boolValue valueKind = iota
	intValue
)

var envOptions = []struct {
	env    string
	option string
	kind   valueKind
}{
	{"EXECTIMER_SAVE_MEASURE", timer.OptSaveMeasure, boolValue},
	{"EXECTIMER_NANOSECONDS", timer.OptNanoseconds, boolValue},
	{"EXECTIMER_N_ITER", timer.OptIterations, intValue},
	{"EXECTIMER_RETURN_MEASURE", timer.OptReturnMeasure, boolValue},
	{"EXECTIMER_PRINT_MEASURE", timer.OptPrintMeasure, boolValue},
	{"EXECTIMER_MAX_SAMPLES", timer.OptMaxSamples, intValue},
	{"EXECTIMER_STRICT", timer.OptStrict, boolValue},
}

// applyEnv applies environment variables to the config.
// Env vars sit between global and local config in precedence. A value that
// does not parse is kept as a string so the timer validator reports it.
func (c *Config) applyEnv() {
	for _, e := range envOptions {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		c.Timer[e.option] = parseEnvValue(v, e.kind)
		c.sources = append(c.sources, "env:"+e.env)
	}

	if v := os.Getenv("EXECTIMER_OUTPUT"); v != "" {
		c.Output.Format = v
		c.sources = append(c.sources, "env:EXECTIMER_OUTPUT")
	}
}

func parseEnvValue(v string, kind valueKind) any {
	switch kind {
	case boolValue:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	case intValue:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return v
}

// mergeFrom merges set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	for k, v := range src.Timer {
		c.Timer[k] = v
	}
	if src.Output.Format != "" {
		c.Output.Format = src.Output.Format
	}
}

// ApplyCLIFlags applies CLI flag overrides to the timer options.
// CLI flags have the highest precedence.
func (c *Config) ApplyCLIFlags(values map[string]any) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		c.Timer[k] = values[k]
		c.sources = append(c.sources, "cli:"+k)
	}
}

// ApplyOutputFlag overrides the output format when format is non-empty.
func (c *Config) ApplyOutputFlag(format string) {
	if format == "" {
		return
	}
	c.Output.Format = format
	c.sources = append(c.sources, "cli:format")
}

// Validate checks settings that are not timer options.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatTable, FormatJSON, FormatNone:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", c.Output.Format, FormatTable, FormatJSON, FormatNone)
	}
}
