// Package config provides configuration management for texshelf using
// Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the TEXSHELF_ prefix, and validation. It resolves the
// profile directory, the shelf root, compilation parallelism, and
// logging options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultThreadCount bounds concurrent compile processes when no
// --thread-count is given.
const DefaultThreadCount = 4

type Config struct {
	Profile ProfileConfig `yaml:"profile"`
	Shelf   ShelfConfig   `yaml:"shelf"`
	Compile CompileConfig `yaml:"compile"`
	Log     LogConfig     `yaml:"log"`
}

type ProfileConfig struct {
	Path string `yaml:"path"`
}

type ShelfConfig struct {
	Path string `yaml:"path"`
}

type CompileConfig struct {
	ThreadCount int    `yaml:"thread_count"`
	Command     string `yaml:"command"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle values set via viper directly (flag/env bindings)
	if viper.IsSet("profile.path") && config.Profile.Path == "" {
		config.Profile.Path = viper.GetString("profile.path")
	}
	if viper.IsSet("shelf.path") && config.Shelf.Path == "" {
		config.Shelf.Path = viper.GetString("shelf.path")
	}
	if viper.IsSet("compile.thread_count") {
		config.Compile.ThreadCount = viper.GetInt("compile.thread_count")
	}

	if config.Profile.Path == "" {
		config.Profile.Path = defaultProfilePath()
	}
	if config.Shelf.Path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		config.Shelf.Path = cwd
	}

	if config.Compile.ThreadCount == 0 {
		config.Compile.ThreadCount = DefaultThreadCount
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// defaultProfilePath is ~/.texshelf, or ./.texshelf when the home
// directory cannot be determined.
func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".texshelf"
	}
	return filepath.Join(home, ".texshelf")
}

// validateConfig validates configuration values for correctness.
func validateConfig(config *Config) error {
	if config.Compile.ThreadCount < 1 {
		return fmt.Errorf("thread_count %d is not in valid range >= 1", config.Compile.ThreadCount)
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q is not one of text, json", config.Log.Format)
	}

	if err := validatePath(config.Profile.Path); err != nil {
		return fmt.Errorf("profile path: %w", err)
	}
	if err := validatePath(config.Shelf.Path); err != nil {
		return fmt.Errorf("shelf path: %w", err)
	}

	return nil
}

// validatePath rejects empty paths and shell metacharacters. Paths end
// up inside rendered compile commands, so the usual injection suspects
// are refused outright.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\""}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
