// Package master builds a subject's master note: one synthetic
// _master.tex aggregating the subject's filtered notes. The master is
// regenerated in full on every build, never incrementally.
package master

import (
	"context"
	"path/filepath"

	"github.com/texshelf/texshelf/internal/compiler"
	"github.com/texshelf/texshelf/internal/document"
	"github.com/texshelf/texshelf/internal/logging"
	"github.com/texshelf/texshelf/internal/profile"
	"github.com/texshelf/texshelf/internal/renderer"
	"github.com/texshelf/texshelf/internal/shelf"
)

// Options controls one master build.
type Options struct {
	// Files is the command-line glob override. A non-nil value takes
	// precedence over the subject's _files filter even when empty;
	// nil means absent.
	Files []string

	// SkipCompile leaves the rendered master uncompiled.
	SkipCompile bool

	ThreadCount int
	Runner      compiler.Runner
}

// Result reports what a build produced.
type Result struct {
	Subject  *shelf.Subject
	Master   shelf.Note
	Notes    []shelf.Note
	Outcomes []compiler.Outcome
}

// Aggregator renders and writes master notes.
type Aggregator struct {
	sh     *shelf.Shelf
	prof   *profile.Profile
	rend   *renderer.Renderer
	logger logging.Logger
}

func New(sh *shelf.Shelf, prof *profile.Profile, rend *renderer.Renderer, logger logging.Logger) *Aggregator {
	return &Aggregator{
		sh:     sh,
		prof:   prof,
		rend:   rend,
		logger: logger.WithComponent("master"),
	}
}

// Build resolves the subject, aggregates its filtered notes, renders
// the master template, writes _master.tex, and compiles it unless
// skipped.
func (a *Aggregator) Build(ctx context.Context, subjectPath string, opts Options) (*Result, error) {
	sub, err := a.sh.ResolveSubject(subjectPath)
	if err != nil {
		return nil, err
	}

	notes, err := a.Aggregate(sub, opts.Files)
	if err != nil {
		return nil, err
	}

	fields := make([]document.NoteFields, 0, len(notes))
	for _, n := range notes {
		fields = append(fields, n.Fields())
	}

	master := shelf.Note{
		Title:       sub.Name,
		File:        shelf.MasterFile,
		Path:        filepath.Join(sub.Path, shelf.MasterFile),
		PathInShelf: sub.PathInShelf + "/" + shelf.MasterFile,
	}

	doc, err := document.BuildMasterContext(a.prof.Doc, a.sh.Path, sub.Fields(), fields, master.PathInShelf)
	if err != nil {
		return nil, err
	}

	content, err := a.rend.Render(profile.MasterDefaultTemplate, doc)
	if err != nil {
		return nil, err
	}

	if err := a.sh.WriteNote(master, content, true); err != nil {
		return nil, err
	}
	a.logger.Info(ctx, "master note written",
		"subject", sub.PathInShelf, "notes", len(notes))

	result := &Result{Subject: sub, Master: master, Notes: notes}
	if opts.SkipCompile {
		return result, nil
	}

	jobs, err := compiler.BuildJobs(a.rend, compiler.CommandFor(a.prof, sub), sub, []shelf.Note{master})
	if err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = compiler.ExecRunner{}
	}
	pool := compiler.NewPool(opts.ThreadCount, runner, a.logger)
	result.Outcomes = pool.Compile(ctx, jobs)

	return result, nil
}

// Aggregate lists the subject's notes under the effective filter:
// command-line override first, then the subject's _files globs, then
// the *.tex default. The master file itself never appears in its own
// input set.
func (a *Aggregator) Aggregate(sub *shelf.Subject, cliFiles []string) ([]shelf.Note, error) {
	globs := sub.Filter
	if cliFiles != nil {
		globs = cliFiles
	}
	return a.sh.Notes(sub, globs)
}
