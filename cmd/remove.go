package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texshelf/texshelf/internal/errors"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm"},
	Short:   "Remove subjects or notes from the shelf",
}

var removeSubjectsCmd = &cobra.Command{
	Use:   "subjects PATH...",
	Short: "Delete subject directories and everything under them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemoveSubjects,
}

var removeNotesCmd = &cobra.Command{
	Use:   "notes SUBJECT TITLE...",
	Short: "Delete note files from a subject",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRemoveNotes,
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.AddCommand(removeSubjectsCmd)
	removeCmd.AddCommand(removeNotesCmd)
}

func runRemoveSubjects(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	collector := errors.NewCollector()
	for _, requested := range args {
		sub, err := app.shelf.ResolveSubject(requested)
		if err != nil {
			collector.Add(requested, err)
			continue
		}
		if err := app.shelf.RemoveSubject(sub); err != nil {
			collector.Add(requested, err)
			continue
		}
		fmt.Printf("🗑️  Removed subject %s\n", sub.PathInShelf)
	}

	return reportBatch(collector)
}

func runRemoveNotes(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	sub, err := app.shelf.ResolveSubject(args[0])
	if err != nil {
		return err
	}

	collector := errors.NewCollector()
	for _, title := range args[1:] {
		note, err := app.shelf.ResolveNote(sub, title)
		if err != nil {
			collector.Add(title, err)
			continue
		}
		if err := app.shelf.RemoveNote(note); err != nil {
			collector.Add(title, err)
			continue
		}
		fmt.Printf("🗑️  Removed note %s\n", note.PathInShelf)
	}

	return reportBatch(collector)
}
