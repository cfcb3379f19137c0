package shelf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/texshelf/texshelf/internal/canonical"
	"github.com/texshelf/texshelf/internal/errors"
)

// CreateSubject creates the directory chain for a new subject,
// canonicalizing every requested component into its on-disk name.
// Intermediate directories may already exist; the leaf may not.
func (sh *Shelf) CreateSubject(requested string) (*Subject, error) {
	components := splitComponents(requested)
	if len(components) == 0 {
		return nil, errors.ErrSubjectNotFound(requested)
	}

	chain := make([]string, 0, len(components))
	for _, comp := range components {
		name := canonical.Canonicalize(comp)
		if name == "" {
			return nil, errors.ErrSubjectNotFound(requested)
		}
		chain = append(chain, name)
	}

	path := filepath.Join(append([]string{sh.Path}, chain...)...)
	if _, err := os.Stat(path); err == nil {
		return nil, errors.ErrAlreadyExists(path)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeIOFailed, "creating subject directory", err).WithPath(path)
	}

	return &Subject{
		Name:        chain[len(chain)-1],
		FullName:    strings.Join(chain, "/"),
		Path:        path,
		PathInShelf: strings.Join(chain, "/"),
		Filter:      []string{DefaultFilter},
	}, nil
}

// WriteNote writes rendered content at the note's path. Fails with
// ERR_ALREADY_EXISTS when the file is present and overwrite is unset.
func (sh *Shelf) WriteNote(note Note, content string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(note.Path); err == nil {
			return errors.ErrAlreadyExists(note.Path)
		}
	}

	if err := os.WriteFile(note.Path, []byte(content), 0o644); err != nil {
		return errors.NewIOError(errors.ErrCodeIOFailed, "writing note", err).WithPath(note.Path)
	}

	return nil
}

// RemoveNote deletes a resolved note file.
func (sh *Shelf) RemoveNote(note Note) error {
	if err := os.Remove(note.Path); err != nil {
		return errors.NewIOError(errors.ErrCodeIOFailed, "removing note", err).WithPath(note.Path)
	}
	return nil
}

// RemoveSubject deletes a resolved subject directory and everything
// under it.
func (sh *Shelf) RemoveSubject(sub *Subject) error {
	if err := os.RemoveAll(sub.Path); err != nil {
		return errors.NewIOError(errors.ErrCodeIOFailed, "removing subject", err).WithPath(sub.Path)
	}
	return nil
}
