package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	tinylog "github.com/msto63/tiny/foundation/core/log"
)

// EnvVar names the environment variable holding the config file path
const EnvVar = "TINY_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Scanner ScannerConfig `toml:"scanner" yaml:"scanner"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	History HistoryConfig `toml:"history" yaml:"history"`
	TUI     TUIConfig     `toml:"tui" yaml:"tui"`

	// path of the file the config was loaded from, empty for defaults
	source string
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ScannerConfig holds scanner settings
type ScannerConfig struct {
	// TokenLog is a file receiving the token listing of every scan
	TokenLog string `toml:"token_log" yaml:"token_log"`
}

// ParserConfig holds parser settings
type ParserConfig struct {
	Trace bool `toml:"trace" yaml:"trace"`
}

// EngineConfig holds settings of the driving loop
type EngineConfig struct {
	MaxAttempts int      `toml:"max_attempts" yaml:"max_attempts"`
	Timeout     Duration `toml:"timeout" yaml:"timeout"`
}

// HistoryConfig holds parse history store settings
type HistoryConfig struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	Path          string `toml:"path" yaml:"path"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
}

// TUIConfig holds workbench settings
type TUIConfig struct {
	InitialFile string `toml:"initial_file" yaml:"initial_file"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Format is a configuration file format
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// String returns the format name
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// detectFormat determines the configuration format from file extension
func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{
		History: HistoryConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, tinyerror.Wrap(err, "config file not readable").
			WithCode(tinyerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	// start from the defaults so absent keys keep them
	cfg := &Config{History: HistoryConfig{Enabled: true}}
	format := detectFormat(path)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(content, cfg)
	default:
		_, err = toml.Decode(string(content), cfg)
	}
	if err != nil {
		return nil, tinyerror.Wrap(err, fmt.Sprintf("%s parse error", strings.ToUpper(format.String()))).
			WithCode(tinyerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.source = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by TINY_CONFIG, else the first default
// location that exists, else the defaults
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./configs/tiny.toml",
		"./tiny.toml",
		"./tiny.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tiny", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.DataDir == "" {
		c.General.DataDir = defaultDataDir()
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	if c.Engine.MaxAttempts == 0 {
		c.Engine.MaxAttempts = 3
	}

	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 30
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Scanner.TokenLog = os.ExpandEnv(c.Scanner.TokenLog)
	c.History.Path = os.ExpandEnv(c.History.Path)
	c.TUI.InitialFile = os.ExpandEnv(c.TUI.InitialFile)
}

// Validate checks value ranges and names
func (c *Config) Validate() error {
	invalid := func(key string, value interface{}, msg string) error {
		return tinyerror.New(fmt.Sprintf("invalid %s: %s", key, msg)).
			WithCode(tinyerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("key", key).
			WithDetail("value", value)
	}

	if _, err := tinylog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, "unknown level")
	}
	if _, err := tinylog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, "unknown format")
	}
	if c.Engine.MaxAttempts < 1 {
		return invalid("engine.max_attempts", c.Engine.MaxAttempts, "must be at least 1")
	}
	if c.Engine.Timeout.Duration < 0 {
		return invalid("engine.timeout", c.Engine.Timeout.String(), "must not be negative")
	}
	if c.History.RetentionDays < 0 {
		return invalid("history.retention_days", c.History.RetentionDays, "must not be negative")
	}
	return nil
}

// Source returns the file the configuration was loaded from
func (c *Config) Source() string {
	return c.source
}

// NewLogger builds the logger described by the general section
func (c *Config) NewLogger(out io.Writer) (*tinylog.Logger, error) {
	level, err := tinylog.ParseLevel(c.General.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := tinylog.ParseFormat(c.General.LogFormat)
	if err != nil {
		return nil, err
	}
	return tinylog.NewWithConfig(tinylog.Config{
		Level:  level,
		Format: format,
		Output: out,
		Name:   "tiny",
	}), nil
}

// Retention returns the history retention as a duration
func (c *Config) Retention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tiny")
	}
	return "./data"
}
