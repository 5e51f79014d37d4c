// Package config handles configuration loading and validation for srcmetrics.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/imyousuf/srcmetrics/internal/lang"
)

const (
	// ProjectDirName is the per-project configuration directory.
	ProjectDirName = ".srcmetrics"
	// ProjectConfigFile is the configuration file name inside ProjectDirName.
	ProjectConfigFile = "config.yaml"
)

// Config holds all configuration for srcmetrics.
type Config struct {
	// Project contains project metadata.
	Project ProjectConfig `mapstructure:"project" yaml:"project"`
	// Scan contains file collection and measurement configuration.
	Scan ScanConfig `mapstructure:"scan" yaml:"scan"`
	// Output contains report serialization configuration.
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	// History contains snapshot store configuration.
	History HistoryConfig `mapstructure:"history" yaml:"history"`

	// ConfigDir is the project directory the config was loaded from, empty
	// when running on defaults alone. Never serialized.
	ConfigDir string `mapstructure:"-" yaml:"-"`
}

// ProjectConfig holds project metadata.
type ProjectConfig struct {
	// Name is the project name.
	Name string `mapstructure:"name" yaml:"name"`
}

// ScanConfig holds file collection and measurement configuration.
type ScanConfig struct {
	// Exclude lists gitignore-style patterns to skip during collection.
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
	// Languages restricts measurement to the listed language tags.
	Languages []string `mapstructure:"languages" yaml:"languages"`
	// Workers caps measurement concurrency; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// FollowSymlinks walks through directory symlinks during collection.
	FollowSymlinks bool `mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
}

// OutputConfig holds report serialization configuration.
type OutputConfig struct {
	// Indent enables 2-space indentation in JSON reports.
	Indent bool `mapstructure:"indent" yaml:"indent"`
}

// HistoryConfig holds snapshot store configuration.
type HistoryConfig struct {
	// Enabled records a snapshot after each scan of an initialized project.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// DBPath overrides the snapshot database location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// Load loads configuration from file, environment variables, and defaults.
// The file is the one named by the --config flag when set, otherwise the
// project config discovered by walking up from the working directory. Running
// with no config file at all is fine; defaults cover every key.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	configDir := ""

	// A specific config file set via CLI flag lives in the global viper.
	globalViper := viper.GetViper()
	if configFile := globalViper.GetString("config_file"); configFile != "" {
		v.SetConfigFile(configFile)
		configDir = filepath.Dir(configFile)
	} else if dir := DiscoverProjectDir("."); dir != "" {
		configDir = dir
		cfgPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(cfgPath); err == nil {
			v.SetConfigFile(cfgPath)
		}
	}

	// Environment variables
	v.SetEnvPrefix("SRCMETRICS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ConfigDir = configDir

	return &cfg, nil
}

// DiscoverProjectDir walks up from start looking for a ProjectDirName
// directory and returns its path, or empty when no ancestor has one.
func DiscoverProjectDir(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	for _, tag := range c.Scan.Languages {
		if !lang.IsTag(tag) {
			return fmt.Errorf("unknown language %q (valid: %s)", tag, joinTags())
		}
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan workers must be >= 0, got %d", c.Scan.Workers)
	}
	return nil
}

// LanguageTags returns the configured languages as typed tags. Unknown tags
// are dropped; Validate rejects them first on the normal path.
func (c *Config) LanguageTags() []lang.Language {
	tags := make([]lang.Language, 0, len(c.Scan.Languages))
	for _, s := range c.Scan.Languages {
		if lang.IsTag(s) {
			tags = append(tags, lang.Language(s))
		}
	}
	return tags
}

// ResolveHistoryPath returns the snapshot database path: the flag value when
// set, then the configured db_path, then history.db inside the project dir.
// Empty means no project is initialized and nothing should be recorded.
func (c *Config) ResolveHistoryPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if c.History.DBPath != "" {
		return c.History.DBPath
	}
	if c.ConfigDir != "" {
		return filepath.Join(c.ConfigDir, "history.db")
	}
	return ""
}

// Default returns the configuration produced when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Exclude:        []string{},
			Languages:      tagStrings(),
			Workers:        0,
			FollowSymlinks: true,
		},
		Output:  OutputConfig{Indent: true},
		History: HistoryConfig{Enabled: true},
	}
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("project.name", "")

	v.SetDefault("scan.exclude", []string{})
	v.SetDefault("scan.languages", tagStrings())
	v.SetDefault("scan.workers", 0)
	v.SetDefault("scan.follow_symlinks", true)

	v.SetDefault("output.indent", true)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.db_path", "")
}

func tagStrings() []string {
	tags := lang.Tags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func joinTags() string {
	return strings.Join(tagStrings(), ", ")
}
