// Package shelf models the note collection on disk: a root directory
// ("the shelf") of nested subject directories holding .tex notes. All
// state is derived by walking the filesystem on demand; nothing is
// cached or indexed, so the tree can never go stale.
package shelf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/texshelf/texshelf/internal/canonical"
	"github.com/texshelf/texshelf/internal/document"
	"github.com/texshelf/texshelf/internal/errors"
)

const (
	// MetadataFile is the optional per-subject metadata file.
	MetadataFile = "info.toml"

	// NoteExt is the extension given to rendered notes.
	NoteExt = ".tex"

	// MasterFile is the fixed file name of a subject's master note.
	MasterFile = "_master.tex"

	// DefaultFilter selects a subject's notes when its metadata
	// declares no _files globs.
	DefaultFilter = "*.tex"
)

// Shelf is the root directory containing all subjects.
type Shelf struct {
	Path string
}

// Open resolves path to an absolute shelf root and verifies it is a
// directory.
func Open(path string) (*Shelf, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeIOFailed, "resolving shelf path", err).WithPath(path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeIOFailed, "shelf not accessible", err).WithPath(abs)
	}
	if !info.IsDir() {
		return nil, errors.NewIOError(errors.ErrCodeIOFailed, "shelf is not a directory", nil).WithPath(abs)
	}

	return &Shelf{Path: abs}, nil
}

// Subject is a directory beneath the shelf, possibly nested. Two
// subject references denote the same entity iff every canonicalized
// path component matches.
type Subject struct {
	Name        string
	FullName    string
	Path        string
	PathInShelf string

	// Metadata is the parsed info.toml, nil when the file is absent.
	Metadata document.Doc

	// Filter holds the note-file globs from _files, defaulted to
	// ["*.tex"].
	Filter []string

	// Command is the subject-level compile command override, empty
	// when the profile default applies.
	Command string
}

// Note is a single document within a subject.
type Note struct {
	Title       string
	File        string
	Path        string
	PathInShelf string
}

// Fields adapts the subject into the context builder's layer shape.
func (s *Subject) Fields() document.SubjectFields {
	return document.SubjectFields{
		Name:        s.Name,
		FullName:    s.FullName,
		Path:        s.Path,
		PathInShelf: s.PathInShelf,
		Metadata:    s.Metadata,
	}
}

// Fields adapts the note into the context builder's layer shape.
func (n *Note) Fields() document.NoteFields {
	return document.NoteFields{
		Title:       n.Title,
		File:        n.File,
		PathInShelf: n.PathInShelf,
	}
}

// NewNote computes the note identity for a title within the subject:
// canonical file name and shelf-relative path. The note may or may not
// exist on disk yet.
func (s *Subject) NewNote(title string) Note {
	file := canonical.Canonicalize(title) + NoteExt
	return Note{
		Title:       title,
		File:        file,
		Path:        filepath.Join(s.Path, file),
		PathInShelf: joinShelfPath(s.PathInShelf, file),
	}
}

// loadMetadata reads and validates the subject's info.toml, applying
// the name, _files, and command keys onto the subject. An absent file
// is not an error; a malformed one is a parse error scoped to this
// subject.
func (s *Subject) loadMetadata() error {
	raw, err := os.ReadFile(filepath.Join(s.Path, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIOError(errors.ErrCodeIOFailed, "reading subject metadata", err).WithPath(s.Path)
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return errors.NewParseError(errors.ErrCodeMetadataInvalid,
			"subject metadata is not valid TOML", err).WithPath(filepath.Join(s.Path, MetadataFile))
	}
	s.Metadata = document.Doc(doc)

	if v, ok := doc["name"]; ok {
		if name, ok := v.(string); ok && name != "" {
			s.Name = name
		}
	}

	if v, ok := doc["command"]; ok {
		cmd, ok := v.(string)
		if !ok {
			return errors.NewParseError(errors.ErrCodeMetadataInvalid,
				"subject metadata key 'command' must be a string", nil).WithPath(s.Path)
		}
		s.Command = cmd
	}

	if v, ok := doc["_files"]; ok {
		filters, err := stringSlice(v)
		if err != nil {
			return errors.NewParseError(errors.ErrCodeMetadataInvalid,
				"subject metadata key '_files' must be a list of glob strings", err).WithPath(s.Path)
		}
		s.Filter = filters
	}

	return nil
}

func stringSlice(v interface{}) ([]string, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, errors.NewParseError(errors.ErrCodeMetadataInvalid, "not a sequence", nil)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, errors.NewParseError(errors.ErrCodeMetadataInvalid, "sequence element is not a string", nil)
		}
		out = append(out, s)
	}
	return out, nil
}

func joinShelfPath(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}
