// Package compiler fans external LaTeX compile commands out over a
// bounded worker pool. Each note gets its own rendered command and
// its own outcome; one failing note never aborts or blocks the rest
// of the batch.
package compiler

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/texshelf/texshelf/internal/document"
	"github.com/texshelf/texshelf/internal/logging"
	"github.com/texshelf/texshelf/internal/profile"
	"github.com/texshelf/texshelf/internal/renderer"
	"github.com/texshelf/texshelf/internal/shelf"
)

// Runner executes one rendered compile command in a working directory
// and reports the exit code. Injected so tests never spawn a real
// LaTeX toolchain.
type Runner interface {
	Run(ctx context.Context, command, dir string) (int, error)
}

// ExecRunner runs commands through the shell.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, command, dir string) (int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	// spawn failure, no exit status to report
	return -1, err
}

// Job is one scheduled compilation: a note, its rendered command, and
// the subject directory the command runs in.
type Job struct {
	Note    shelf.Note
	Command string
	Dir     string
}

// Outcome is the per-note result. ExitCode 0 with a nil Err is
// success; a nonzero exit or a spawn error is a failure.
type Outcome struct {
	Note     shelf.Note
	ExitCode int
	Err      error
}

// Success reports whether the note compiled cleanly.
func (o Outcome) Success() bool {
	return o.Err == nil && o.ExitCode == 0
}

// Reason describes a failed outcome for the batch report.
func (o Outcome) Reason() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return fmt.Sprintf("exit status %d", o.ExitCode)
}

// Pool is a fixed-size compile worker pool.
type Pool struct {
	workers int
	runner  Runner
	logger  logging.Logger
}

// NewPool creates a pool of the given size. Sizes below one collapse
// to one worker.
func NewPool(workers int, runner Runner, logger logging.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		runner:  runner,
		logger:  logger.WithComponent("compiler"),
	}
}

// Compile runs every job across the pool and returns one outcome per
// job, in input order. Results are keyed by job index while workers
// complete in arbitrary order, then reassembled.
func (p *Pool) Compile(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	type task struct {
		idx int
		job Job
	}

	tasks := make(chan task, len(jobs))
	for i, job := range jobs {
		tasks <- task{idx: i, job: job}
	}
	close(tasks)

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				outcome := p.runOne(ctx, t.job)
				mu.Lock()
				outcomes[t.idx] = outcome
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return outcomes
}

func (p *Pool) runOne(ctx context.Context, job Job) Outcome {
	p.logger.Debug(ctx, "compiling note", "note", job.Note.File, "command", job.Command)

	exitCode, err := p.runner.Run(ctx, job.Command, job.Dir)
	outcome := Outcome{Note: job.Note, ExitCode: exitCode, Err: err}

	if outcome.Success() {
		p.logger.Debug(ctx, "note compiled", "note", job.Note.File)
	} else {
		p.logger.Warn(ctx, err, "note failed to compile",
			"note", job.Note.File, "exit_code", exitCode)
	}

	return outcome
}

// CommandFor picks the compile command template for a subject: the
// subject metadata override when present, the profile command
// otherwise.
func CommandFor(prof *profile.Profile, sub *shelf.Subject) string {
	if sub != nil && sub.Command != "" {
		return sub.Command
	}
	return prof.Command
}

// BuildJobs renders the command template once per note with the note
// file bound to {{note}}. Rendering happens up front; workers receive
// fully materialized commands.
func BuildJobs(r *renderer.Renderer, commandTemplate string, sub *shelf.Subject, notes []shelf.Note) ([]Job, error) {
	jobs := make([]Job, 0, len(notes))
	for _, note := range notes {
		cmd, err := r.RenderString(commandTemplate, document.Doc{"note": note.File})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, Job{Note: note, Command: cmd, Dir: sub.Path})
	}
	return jobs, nil
}
