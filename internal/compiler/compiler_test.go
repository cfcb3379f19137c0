package compiler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texshelf/texshelf/internal/logging"
	"github.com/texshelf/texshelf/internal/shelf"
)

// mockRunner fails commands containing "fail" and records peak
// concurrency.
type mockRunner struct {
	mu       sync.Mutex
	active   int32
	peak     int32
	commands []string
}

func (m *mockRunner) Run(ctx context.Context, command, dir string) (int, error) {
	cur := atomic.AddInt32(&m.active, 1)
	defer atomic.AddInt32(&m.active, -1)

	m.mu.Lock()
	if cur > m.peak {
		m.peak = cur
	}
	m.commands = append(m.commands, command)
	m.mu.Unlock()

	switch {
	case strings.Contains(command, "spawnfail"):
		return -1, fmt.Errorf("executable not found")
	case strings.Contains(command, "fail"):
		return 1, nil
	default:
		return 0, nil
	}
}

func testLogger() logging.Logger {
	return logging.NewTestLogger(io.Discard)
}

func jobsFor(files ...string) []Job {
	jobs := make([]Job, 0, len(files))
	for _, f := range files {
		jobs = append(jobs, Job{
			Note:    shelf.Note{Title: f, File: f},
			Command: "pdflatex " + f,
			Dir:     "/tmp",
		})
	}
	return jobs
}

func TestCompileAllSucceed(t *testing.T) {
	pool := NewPool(4, &mockRunner{}, testLogger())

	outcomes := pool.Compile(context.Background(), jobsFor("a.tex", "b.tex", "c.tex"))
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.True(t, o.Success())
		assert.Equal(t, 0, o.ExitCode)
	}
}

func TestCompileOneFailureDoesNotAbortBatch(t *testing.T) {
	pool := NewPool(2, &mockRunner{}, testLogger())

	jobs := jobsFor("a.tex", "fail.tex", "b.tex", "c.tex", "d.tex")
	outcomes := pool.Compile(context.Background(), jobs)
	require.Len(t, outcomes, 5)

	failures := 0
	for _, o := range outcomes {
		if !o.Success() {
			failures++
			assert.Equal(t, "fail.tex", o.Note.File)
			assert.Equal(t, "exit status 1", o.Reason())
		}
	}
	assert.Equal(t, 1, failures)
}

func TestCompileSpawnFailureIsPerNote(t *testing.T) {
	pool := NewPool(2, &mockRunner{}, testLogger())

	outcomes := pool.Compile(context.Background(), jobsFor("spawnfail.tex", "ok.tex"))
	require.Len(t, outcomes, 2)

	assert.False(t, outcomes[0].Success())
	assert.Contains(t, outcomes[0].Reason(), "executable not found")
	assert.True(t, outcomes[1].Success())
}

func TestCompilePreservesInputOrder(t *testing.T) {
	pool := NewPool(4, &mockRunner{}, testLogger())

	files := []string{"e.tex", "a.tex", "d.tex", "b.tex", "c.tex"}
	outcomes := pool.Compile(context.Background(), jobsFor(files...))
	require.Len(t, outcomes, len(files))

	for i, o := range outcomes {
		assert.Equal(t, files[i], o.Note.File)
	}
}

func TestCompileBoundsConcurrency(t *testing.T) {
	runner := &mockRunner{}
	pool := NewPool(3, runner, testLogger())

	jobs := jobsFor("a.tex", "b.tex", "c.tex", "d.tex", "e.tex", "f.tex", "g.tex", "h.tex")
	pool.Compile(context.Background(), jobs)

	assert.LessOrEqual(t, runner.peak, int32(3))
	assert.Len(t, runner.commands, len(jobs))
}

func TestCompileEmptyBatch(t *testing.T) {
	pool := NewPool(4, &mockRunner{}, testLogger())
	assert.Empty(t, pool.Compile(context.Background(), nil))
}

func TestNewPoolClampsWorkers(t *testing.T) {
	pool := NewPool(0, &mockRunner{}, testLogger())
	outcomes := pool.Compile(context.Background(), jobsFor("a.tex"))
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Success())
}
