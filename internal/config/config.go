package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/qfxrename/internal/rules"
)

// DefaultFile is the config file looked up when none is named.
const DefaultFile = "qfxrename.yaml"

// Config represents the top-level qfxrename.yaml configuration.
type Config struct {
	Rules  string       `yaml:"rules"`
	Match  MatchConfig  `yaml:"match"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`

	dir string
}

// MatchConfig controls how transaction names are matched against rules.
type MatchConfig struct {
	Mode           string `yaml:"mode"` // "exact" or "contains"
	TitleUnmatched bool   `yaml:"title_unmatched"`
}

// OutputConfig controls where and how rewritten files are written.
type OutputConfig struct {
	Suffix string `yaml:"suffix"` // inserted before the extension
	Verify bool   `yaml:"verify"`
}

// LogConfig controls logger level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Error reports a config file that cannot be read or is invalid.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads a qfxrename.yaml file from disk. Fields the file omits keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("reading config: %w", err)}
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("parsing config: %w", err)}
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Resolve loads the config at path. When the file is missing and was not
// named explicitly, the defaults are returned instead.
func Resolve(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Rules: "rules.csv",
		Match: MatchConfig{
			Mode: string(rules.MatchExact),
		},
		Output: OutputConfig{
			Suffix: "_modified",
			Verify: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := rules.ParseMatchMode(c.Match.Mode); err != nil {
		return err
	}
	if c.Output.Suffix == "" {
		return errors.New("output suffix must not be empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (must be 'text' or 'json')", c.Log.Format)
	}
	return nil
}

// RulesPath returns the rule source path. A relative path is taken relative
// to the directory of the config file it was loaded from.
func (c *Config) RulesPath() string {
	if c.Rules == "" || filepath.IsAbs(c.Rules) || c.dir == "" {
		return c.Rules
	}
	return filepath.Join(c.dir, c.Rules)
}
