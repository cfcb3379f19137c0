package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/texshelf/texshelf/internal/compiler"
	"github.com/texshelf/texshelf/internal/shelf"
	"github.com/texshelf/texshelf/internal/watcher"
)

var watchDebounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the shelf and recompile changed notes",
	Long: `Watch every subject directory on the shelf and recompile notes as
they change. Rapid save bursts are debounced into one compile run.
Stop with Ctrl-C.`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "quiet period before recompiling")
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	w, err := watcher.New(app.shelf.Path, watchDebounce, app.logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	w.AddFilter(watcher.NoteFilter)
	w.AddHandler(func(events []watcher.ChangeEvent) error {
		return app.recompileChanged(cmd, events)
	})

	if err := w.WatchShelf(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w.Start(ctx)
	fmt.Printf("👀 Watching %s\n", app.shelf.Path)

	<-ctx.Done()
	fmt.Println("Stopped watching")
	return nil
}

// recompileChanged maps changed files back onto their subjects and
// compiles each changed note.
func (a *app) recompileChanged(cmd *cobra.Command, events []watcher.ChangeEvent) error {
	for _, event := range events {
		if event.Type == watcher.EventDeleted {
			continue
		}

		rel, err := filepath.Rel(a.shelf.Path, event.Path)
		if err != nil {
			continue
		}
		subjectPath := filepath.Dir(rel)
		if subjectPath == "." {
			continue
		}

		sub, err := a.shelf.ResolveSubject(filepath.ToSlash(subjectPath))
		if err != nil {
			a.logger.Warn(cmd.Context(), err, "changed file has no subject", "path", event.Path)
			continue
		}

		note, err := a.shelf.ResolveNote(sub, noteTitle(event.Path))
		if err != nil {
			continue
		}

		jobs, err := compiler.BuildJobs(a.rend, compiler.CommandFor(a.prof, sub), sub, []shelf.Note{note})
		if err != nil {
			a.logger.Warn(cmd.Context(), err, "skipping recompile", "note", note.File)
			continue
		}

		pool := compiler.NewPool(1, compiler.ExecRunner{}, a.logger)
		for _, outcome := range pool.Compile(cmd.Context(), jobs) {
			if outcome.Success() {
				fmt.Printf("✅ Recompiled %s\n", outcome.Note.File)
			} else {
				fmt.Printf("❌ Failed %s: %s\n", outcome.Note.File, outcome.Reason())
			}
		}
	}
	return nil
}

func noteTitle(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
