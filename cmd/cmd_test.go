package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texshelf/texshelf/internal/errors"
	"github.com/texshelf/texshelf/internal/shelf"
)

// execute runs the root command with args. Flag bindings registered in
// the package init funcs stay live across invocations, so no viper
// reset here.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestInitAddMasterFlow(t *testing.T) {
	profDir := filepath.Join(t.TempDir(), "profile")
	shelfDir := t.TempDir()
	global := []string{"--profile", profDir, "--shelf", shelfDir}

	require.NoError(t, execute(t, append([]string{"init", "--name", "university"}, global...)...))

	require.NoError(t, execute(t, append([]string{"add", "subjects", "Year 1/Calculus I"}, global...)...))
	info, err := os.Stat(filepath.Join(shelfDir, "year-1", "calculus-i"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, execute(t, append([]string{"add", "notes", "year-1/calculus-i", "Chain Rule"}, global...)...))
	raw, err := os.ReadFile(filepath.Join(shelfDir, "year-1", "calculus-i", "chain-rule.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `\title{Chain Rule}`)

	require.NoError(t, execute(t, append([]string{"master", "year-1/calculus-i", "--skip-compilation"}, global...)...))
	raw, err = os.ReadFile(filepath.Join(shelfDir, "year-1", "calculus-i", shelf.MasterFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `\input{chain-rule.tex}`)
}

func TestInitTwiceFails(t *testing.T) {
	profDir := filepath.Join(t.TempDir(), "profile")

	require.NoError(t, execute(t, "init", "--profile", profDir))
	assert.Error(t, execute(t, "init", "--profile", profDir))
}

func TestAddNotesUnknownSubjectFails(t *testing.T) {
	profDir := filepath.Join(t.TempDir(), "profile")
	shelfDir := t.TempDir()
	global := []string{"--profile", profDir, "--shelf", shelfDir}

	require.NoError(t, execute(t, append([]string{"init"}, global...)...))
	assert.Error(t, execute(t, append([]string{"add", "notes", "nope", "Title"}, global...)...))
}

func TestBatchContinuesPastFailures(t *testing.T) {
	profDir := filepath.Join(t.TempDir(), "profile")
	shelfDir := t.TempDir()
	global := []string{"--profile", profDir, "--shelf", shelfDir}

	require.NoError(t, execute(t, append([]string{"init"}, global...)...))
	require.NoError(t, execute(t, append([]string{"add", "subjects", "calculus"}, global...)...))

	// second creation of calculus fails, algebra must still be created
	err := execute(t, append([]string{"add", "subjects", "calculus", "algebra"}, global...)...)
	assert.Error(t, err)

	info, statErr := os.Stat(filepath.Join(shelfDir, "algebra"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestReportBatch(t *testing.T) {
	c := errors.NewCollector()
	assert.NoError(t, reportBatch(c))

	c.Add("calculus", fmt.Errorf("boom"))
	err := reportBatch(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 target(s) failed")
}

func TestMissingProfileIsFatal(t *testing.T) {
	err := execute(t, "add", "subjects", "calculus",
		"--profile", filepath.Join(t.TempDir(), "nope"),
		"--shelf", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsProfileError(err))
}
