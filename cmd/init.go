package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texshelf/texshelf/internal/config"
	"github.com/texshelf/texshelf/internal/profile"
)

var initName string

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a texshelf profile",
	Long: `Create the profile directory with a profile.toml and the default
note and master templates. Run once before any other command.

Examples:
  texshelf init
  texshelf init --name university
  texshelf init --profile ~/notes/.texshelf --name university`,
	RunE: runInitCommand,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initName, "name", "n", "notes", "profile name")
}

func runInitCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := profile.Init(cfg.Profile.Path, initName); err != nil {
		return err
	}

	fmt.Printf("✅ Initialized profile %q at %s\n", initName, cfg.Profile.Path)
	return nil
}
