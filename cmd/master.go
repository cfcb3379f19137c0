package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texshelf/texshelf/internal/errors"
	"github.com/texshelf/texshelf/internal/master"
)

var (
	masterSkipCompilation bool
	masterFiles           []string
)

// masterCmd represents the master command
var masterCmd = &cobra.Command{
	Use:   "master SUBJECT...",
	Short: "Aggregate a subject's notes into its master note",
	Long: `Build each subject's _master.tex from its filtered notes and compile
it unless --skip-compilation is set. The master is regenerated in full
on every run.

Examples:
  texshelf master calculus-i
  texshelf master calculus-i --skip-compilation
  texshelf master calculus-i --files "chapter-*.tex"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMasterCommand,
}

func init() {
	rootCmd.AddCommand(masterCmd)

	masterCmd.Flags().BoolVar(&masterSkipCompilation, "skip-compilation", false, "write the master note without compiling it")
	masterCmd.Flags().StringSliceVar(&masterFiles, "files", nil, "glob override for the aggregated note set")
}

func runMasterCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	var filesOverride []string
	if cmd.Flags().Changed("files") {
		filesOverride = masterFiles
		if filesOverride == nil {
			filesOverride = []string{}
		}
	}

	agg := master.New(app.shelf, app.prof, app.rend, app.logger)

	collector := errors.NewCollector()
	for _, requested := range args {
		result, err := agg.Build(cmd.Context(), requested, master.Options{
			Files:       filesOverride,
			SkipCompile: masterSkipCompilation,
			ThreadCount: app.cfg.Compile.ThreadCount,
		})
		if err != nil {
			collector.Add(requested, err)
			continue
		}

		fmt.Printf("✅ Built master for %s (%d notes)\n", result.Subject.PathInShelf, len(result.Notes))
		for _, outcome := range result.Outcomes {
			if outcome.Success() {
				fmt.Printf("✅ Compiled %s\n", outcome.Note.File)
				continue
			}
			fmt.Printf("❌ Failed %s: %s\n", outcome.Note.File, outcome.Reason())
			collector.Add(result.Subject.PathInShelf+"/"+outcome.Note.File,
				errors.NewCompileError(errors.ErrCodeCompileFailed, outcome.Reason(), outcome.Err))
		}
	}

	return reportBatch(collector)
}
