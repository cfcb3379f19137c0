package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texshelf/texshelf/internal/document"
	"github.com/texshelf/texshelf/internal/errors"
)

var (
	addTemplate string
	addForce    bool
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add subjects or notes to the shelf",
}

var addSubjectsCmd = &cobra.Command{
	Use:   "subjects PATH...",
	Short: "Create subject directories",
	Long: `Create one subject directory per argument. Path components are
canonicalized to kebab-case on disk; "Year 1/Calculus I" becomes
year-1/calculus-i. Failures on one subject do not stop the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAddSubjects,
}

var addNotesCmd = &cobra.Command{
	Use:   "notes SUBJECT TITLE...",
	Short: "Create rendered notes in a subject",
	Long: `Render one note per title from the profile's template store and
write it into the subject. The file name is the kebab-case title plus
.tex. Use --template to pick a template other than _default.

Examples:
  texshelf add notes calculus-i "Chain Rule" "Limits"
  texshelf add notes "Year 1/Calculus I" "Series" --template lecture`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAddNotes,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.AddCommand(addSubjectsCmd)
	addCmd.AddCommand(addNotesCmd)

	addNotesCmd.Flags().StringVarP(&addTemplate, "template", "t", "_default", "template key to render")
	addNotesCmd.Flags().BoolVarP(&addForce, "force", "f", false, "overwrite existing notes")
}

func runAddSubjects(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	collector := errors.NewCollector()
	for _, requested := range args {
		sub, err := app.shelf.CreateSubject(requested)
		if err != nil {
			collector.Add(requested, err)
			continue
		}
		fmt.Printf("✅ Created subject %s\n", sub.PathInShelf)
	}

	return reportBatch(collector)
}

func runAddNotes(cmd *cobra.Command, args []string) error {
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
		note := sub.NewNote(title)

		ctx, err := document.BuildNoteContext(app.prof.Doc, app.shelf.Path, sub.Fields(), note.Fields())
		if err != nil {
			collector.Add(title, err)
			continue
		}

		content, err := app.rend.Render(addTemplate, ctx)
		if err != nil {
			collector.Add(title, err)
			continue
		}

		if err := app.shelf.WriteNote(note, content, addForce); err != nil {
			collector.Add(title, err)
			continue
		}
		fmt.Printf("✅ Created note %s\n", note.PathInShelf)
	}

	return reportBatch(collector)
}

// reportBatch prints the consolidated failure list and turns any
// recorded failure into a nonzero exit.
func reportBatch(collector *errors.Collector) error {
	if !collector.HasErrors() {
		return nil
	}
	fmt.Print("❌ " + collector.Summary())
	return fmt.Errorf("%d target(s) failed", len(collector.Errors()))
}
