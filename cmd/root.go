// Package cmd provides the command-line interface for texshelf with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--profile, --shelf, etc.) - highest priority
//	2. TEXSHELF_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (TEXSHELF_SHELF_PATH, etc.)
//	4. Configuration files (.texshelf.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/texshelf/texshelf/internal/config"
	"github.com/texshelf/texshelf/internal/logging"
	"github.com/texshelf/texshelf/internal/profile"
	"github.com/texshelf/texshelf/internal/renderer"
	"github.com/texshelf/texshelf/internal/shelf"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "texshelf",
	Short: "Manage, render, and compile LaTeX notes on a shelf",
	Long: `Texshelf manages a shelf of LaTeX notes: nested subject directories
holding .tex files rendered from Handlebars templates and compiled in
parallel with an external LaTeX toolchain.

Quick Start:
  texshelf init                                  Initialize a profile
  texshelf add subjects "Year 1/Calculus I"      Create a subject
  texshelf add notes calculus-i "Chain Rule"     Create a note from a template
  texshelf compile subjects calculus-i           Compile a subject's notes
  texshelf master calculus-i                     Aggregate a subject into _master.tex`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .texshelf.yml, can also use TEXSHELF_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "profile directory (default is ~/.texshelf)")
	rootCmd.PersistentFlags().StringP("shelf", "s", "", "shelf root directory (default is the working directory)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	viper.BindPFlag("profile.path", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("shelf.path", rootCmd.PersistentFlags().Lookup("shelf"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. TEXSHELF_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .texshelf.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("TEXSHELF_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".texshelf")
	}

	viper.SetEnvPrefix("TEXSHELF")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// app bundles the collaborators every subcommand needs. Construction
// fails hard on profile errors; everything downstream is per-target.
type app struct {
	cfg    *config.Config
	logger logging.Logger
	prof   *profile.Profile
	shelf  *shelf.Shelf
	rend   *renderer.Renderer
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	prof, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		return nil, err
	}

	sh, err := shelf.Open(cfg.Shelf.Path)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		prof:   prof,
		shelf:  sh,
		rend:   renderer.New(prof),
	}, nil
}
