package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texshelf/texshelf/internal/errors"
)

func writeProfile(t *testing.T, dir, meta string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(meta), 0o644))
}

func TestLoadMinimalProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "name = \"university\"\nversion = \"1.0\"\n")

	p, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "university", p.Name)
	assert.Equal(t, "1.0", p.Version)
	assert.Equal(t, DefaultCommand, p.Command)
}

func TestLoadPreservesExtraKeys(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, `
name = "university"
version = "1.0"
author = "ena"
command = "latexmk -pdf {{note}}"

[extra]
faculty = "science"
`)

	p, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "latexmk -pdf {{note}}", p.Command)
	assert.Equal(t, "ena", p.Doc["author"])
	extra, ok := p.Doc["extra"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "science", extra["faculty"])
}

func TestLoadMissingProfileIsFatal(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsProfileError(err))
	assert.False(t, errors.IsRecoverable(err))
}

func TestLoadRejectsMissingRequiredKeys(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "version = \"1.0\"\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.IsProfileError(err))
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "name = [unclosed\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.IsProfileError(err))
}

func TestTemplateStore(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "name = \"n\"\nversion = \"1\"\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, TemplatesDir, "master"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplatesDir, "lecture.hbs"), []byte("lecture body"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplatesDir, "master", "_default.hbs"), []byte("master body"), 0o644))

	p, err := Load(dir)
	require.NoError(t, err)

	got, ok := p.Template("lecture")
	require.True(t, ok)
	assert.Equal(t, "lecture body", got)

	got, ok = p.Template(MasterDefaultTemplate)
	require.True(t, ok)
	assert.Equal(t, "master body", got)

	_, ok = p.Template("nonexistent")
	assert.False(t, ok)

	// unknown keys fall back to _default
	assert.Equal(t, builtinDefaultTemplate, p.TemplateOrDefault("nonexistent"))
}

func TestBuiltinFallbacks(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "name = \"n\"\nversion = \"1\"\n")

	p, err := Load(dir)
	require.NoError(t, err)

	got, ok := p.Template(DefaultTemplate)
	require.True(t, ok)
	assert.Contains(t, got, `\documentclass`)

	got, ok = p.Template(MasterDefaultTemplate)
	require.True(t, ok)
	assert.Contains(t, got, "master.notes")
}

func TestInitScaffolding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, "university"))

	p, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "university", p.Name)
	assert.ElementsMatch(t, []string{"_default", "master/_default"}, p.TemplateNames())

	// second init refuses to clobber
	err = Init(dir, "other")
	require.Error(t, err)
	assert.True(t, errors.IsProfileError(err))
}
