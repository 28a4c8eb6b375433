package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	mdwconfig "github.com/msto63/fanucmacro/foundation/core/config"
	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
	"github.com/msto63/fanucmacro/foundation/macro/variables"
)

// EnvPrefix prefixes environment overrides, e.g. MACRO_REGISTERS_MAX
const EnvPrefix = "MACRO"

// Config holds the complete application configuration
type Config struct {
	Registers RegistersConfig `toml:"registers" yaml:"registers" json:"registers"`
	Log       LogConfig       `toml:"log" yaml:"log" json:"log"`
	Storage   StorageConfig   `toml:"storage" yaml:"storage" json:"storage"`
}

// RegistersConfig holds the valid register interval
type RegistersConfig struct {
	Min int `toml:"min" yaml:"min" json:"min"`
	Max int `toml:"max" yaml:"max" json:"max"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level"`
	Format string `toml:"format" yaml:"format" json:"format"`
}

// StorageConfig holds snapshot database settings
type StorageConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `toml:"path" yaml:"path" json:"path"`
}

// defaults are dot-path keys understood by the foundation loader
var defaults = map[string]interface{}{
	"registers.min":   1,
	"registers.max":   999,
	"log.level":       "info",
	"log.format":      "text",
	"storage.enabled": true,
	"storage.path":    "./data/macro.db",
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Registers: RegistersConfig{Min: 1, Max: 999},
		Log:       LogConfig{Level: "info", Format: "text"},
		Storage:   StorageConfig{Enabled: true, Path: "./data/macro.db"},
	}
}

// Load loads configuration from a TOML or YAML file. Keys missing from the
// file take their defaults; MACRO_* environment variables override both.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	raw, err := mdwconfig.LoadWithOptions(path, mdwconfig.LoadOptions{
		Format:    mdwconfig.FormatAuto,
		EnvPrefix: EnvPrefix,
		Defaults:  defaults,
	})
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Registers: RegistersConfig{
			Min: raw.GetInt("registers.min"),
			Max: raw.GetInt("registers.max"),
		},
		Log: LogConfig{
			Level:  raw.GetString("log.level"),
			Format: raw.GetString("log.format"),
		},
		Storage: StorageConfig{
			Enabled: raw.GetBool("storage.enabled"),
			Path:    raw.GetString("storage.path"),
		},
	}
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, mdwerror.Wrap(err, "invalid configuration").
			WithOperation("config.Load").
			WithDetail("filePath", path)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by MACRO_CONFIG, or the first default
// location that exists. Without any file the built-in defaults are used.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.expandEnvVars()
	return cfg, nil
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./configs/macro.toml",
		"./macro.toml",
		"./macro.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "fanucmacro", "config.toml"))
	}
	return paths
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Registers.Min < 0 {
		return mdwerror.New(fmt.Sprintf("registers.min must not be negative, got %d", c.Registers.Min)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("registers.min", c.Registers.Min)
	}
	if c.Registers.Min > c.Registers.Max {
		return mdwerror.New(fmt.Sprintf("registers.min (%d) is greater than registers.max (%d)",
			c.Registers.Min, c.Registers.Max)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("registers.min", c.Registers.Min).
			WithDetail("registers.max", c.Registers.Max)
	}
	if span := c.Registers.Max - c.Registers.Min; span < 0 || span >= variables.MaxRegisters {
		return mdwerror.New(fmt.Sprintf("register range #%d..#%d exceeds %d registers",
			c.Registers.Min, c.Registers.Max, variables.MaxRegisters)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("registers.min", c.Registers.Min).
			WithDetail("registers.max", c.Registers.Max)
	}
	if _, err := mdwlog.ParseLevel(c.Log.Level); err != nil {
		return mdwerror.Wrap(err, "invalid log.level").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate")
	}
	if _, err := mdwlog.ParseFormat(c.Log.Format); err != nil {
		return mdwerror.Wrap(err, "invalid log.format").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate")
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		return mdwerror.New("storage.path is required when storage is enabled").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate")
	}
	return nil
}

// Write encodes the configuration as TOML to path, creating parent directories
func (c *Config) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return mdwerror.Wrap(err, "failed to create config directory").
				WithCode(mdwerror.CodeConfigError).
				WithOperation("config.Write").
				WithDetail("dir", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return mdwerror.Wrap(err, "failed to create config file").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Write").
			WithDetail("filePath", path)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return mdwerror.Wrap(err, "failed to encode config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Write").
			WithDetail("filePath", path)
	}
	return nil
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Storage.Path = os.ExpandEnv(c.Storage.Path)
}
