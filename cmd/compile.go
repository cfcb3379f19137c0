package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/texshelf/texshelf/internal/compiler"
	"github.com/texshelf/texshelf/internal/errors"
	"github.com/texshelf/texshelf/internal/shelf"
)

var compileFiles []string

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile notes with the external LaTeX toolchain",
}

var compileSubjectsCmd = &cobra.Command{
	Use:   "subjects PATH...",
	Short: "Compile every filtered note of each subject",
	Long: `Compile each subject's notes across a bounded worker pool. The note
set is selected by --files when given, otherwise by the subject's
_files globs, otherwise *.tex. One note's failure never aborts the
rest; the per-note outcomes are reported at the end.

Examples:
  texshelf compile subjects calculus-i
  texshelf compile subjects calculus-i algebra --thread-count 8
  texshelf compile subjects calculus-i --files "chapter-*.tex"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompileSubjects,
}

var compileNotesCmd = &cobra.Command{
	Use:   "notes SUBJECT TITLE...",
	Short: "Compile specific notes of a subject",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCompileNotes,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.AddCommand(compileSubjectsCmd)
	compileCmd.AddCommand(compileNotesCmd)

	compileCmd.PersistentFlags().IntP("thread-count", "j", 0, "number of parallel compile workers (default 4)")
	viper.BindPFlag("compile.thread_count", compileCmd.PersistentFlags().Lookup("thread-count"))

	compileSubjectsCmd.Flags().StringSliceVar(&compileFiles, "files", nil, "glob override for the note set")
}

func runCompileSubjects(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	// distinguish absent from present-but-empty
	var filesOverride []string
	if cmd.Flags().Changed("files") {
		filesOverride = compileFiles
		if filesOverride == nil {
			filesOverride = []string{}
		}
	}

	collector := errors.NewCollector()
	for _, requested := range args {
		sub, err := app.shelf.ResolveSubject(requested)
		if err != nil {
			collector.Add(requested, err)
			continue
		}

		globs := sub.Filter
		if filesOverride != nil {
			globs = filesOverride
		}

		notes, err := app.shelf.Notes(sub, globs)
		if err != nil {
			collector.Add(requested, err)
			continue
		}

		if err := app.compileNotes(cmd, sub, notes, collector); err != nil {
			collector.Add(requested, err)
		}
	}

	return reportBatch(collector)
}

func runCompileNotes(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	sub, err := app.shelf.ResolveSubject(args[0])
	if err != nil {
		return err
	}

	collector := errors.NewCollector()
	notes := make([]shelf.Note, 0, len(args)-1)
	for _, title := range args[1:] {
		note, err := app.shelf.ResolveNote(sub, title)
		if err != nil {
			collector.Add(title, err)
			continue
		}
		notes = append(notes, note)
	}

	if err := app.compileNotes(cmd, sub, notes, collector); err != nil {
		collector.Add(sub.PathInShelf, err)
	}

	return reportBatch(collector)
}

// compileNotes renders the commands, runs the pool, and records
// per-note failures on the collector.
func (a *app) compileNotes(cmd *cobra.Command, sub *shelf.Subject, notes []shelf.Note, collector *errors.Collector) error {
	if len(notes) == 0 {
		return nil
	}

	jobs, err := compiler.BuildJobs(a.rend, compiler.CommandFor(a.prof, sub), sub, notes)
	if err != nil {
		return err
	}

	pool := compiler.NewPool(a.cfg.Compile.ThreadCount, compiler.ExecRunner{}, a.logger)
	outcomes := pool.Compile(cmd.Context(), jobs)

	for _, outcome := range outcomes {
		if outcome.Success() {
			fmt.Printf("✅ Compiled %s\n", outcome.Note.File)
			continue
		}
		fmt.Printf("❌ Failed %s: %s\n", outcome.Note.File, outcome.Reason())
		collector.Add(sub.PathInShelf+"/"+outcome.Note.File,
			errors.NewCompileError(errors.ErrCodeCompileFailed, outcome.Reason(), outcome.Err))
	}

	return nil
}
