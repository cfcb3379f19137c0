package shelf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/texshelf/texshelf/internal/canonical"
	"github.com/texshelf/texshelf/internal/errors"
)

// ResolveSubject maps a user-supplied subject path ("Year 1/Calculus I")
// onto an on-disk directory chain. Each requested component is matched
// against the current directory's visible child directories by
// canonical name; the walk fails at the first component with no match.
// Entries with non-canonical names are hidden from resolution.
func (sh *Shelf) ResolveSubject(requested string) (*Subject, error) {
	components := splitComponents(requested)
	if len(components) == 0 {
		return nil, errors.ErrSubjectNotFound(requested)
	}

	cur := sh.Path
	chain := make([]string, 0, len(components))

	for _, comp := range components {
		match, ok := matchChildDir(cur, comp)
		if !ok {
			return nil, errors.ErrSubjectNotFound(requested)
		}
		cur = filepath.Join(cur, match)
		chain = append(chain, match)
	}

	sub := &Subject{
		Name:        chain[len(chain)-1],
		FullName:    strings.Join(chain, "/"),
		Path:        cur,
		PathInShelf: strings.Join(chain, "/"),
		Filter:      []string{DefaultFilter},
	}
	if err := sub.loadMetadata(); err != nil {
		return nil, err
	}

	return sub, nil
}

// ResolveNote matches a requested title against the subject's note
// files, comparing canonicalized stems with the extension ignored.
// Only files selected by the subject's glob filter participate.
func (sh *Shelf) ResolveNote(sub *Subject, title string) (Note, error) {
	want := canonical.Canonicalize(title)
	if want == "" {
		return Note{}, errors.ErrNoteNotFound(title)
	}

	files, err := sub.listFiles(sub.Filter)
	if err != nil {
		return Note{}, err
	}

	for _, file := range files {
		stem := strings.TrimSuffix(file, filepath.Ext(file))
		if canonical.Canonicalize(stem) == want {
			return Note{
				Title:       title,
				File:        file,
				Path:        filepath.Join(sub.Path, file),
				PathInShelf: joinShelfPath(sub.PathInShelf, file),
			}, nil
		}
	}

	return Note{}, errors.ErrNoteNotFound(title)
}

// Notes lists the subject's note files selected by the given globs in
// lexical order. The master file is always excluded so it never feeds
// into its own aggregation.
func (sh *Shelf) Notes(sub *Subject, globs []string) ([]Note, error) {
	files, err := sub.listFiles(globs)
	if err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(files))
	for _, file := range files {
		if file == MasterFile {
			continue
		}
		notes = append(notes, Note{
			Title:       strings.TrimSuffix(file, filepath.Ext(file)),
			File:        file,
			Path:        filepath.Join(sub.Path, file),
			PathInShelf: joinShelfPath(sub.PathInShelf, file),
		})
	}

	return notes, nil
}

// listFiles returns the subject directory's file names matching any of
// the globs, in the lexical order os.ReadDir guarantees.
func (sub *Subject) listFiles(globs []string) ([]string, error) {
	entries, err := os.ReadDir(sub.Path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeIOFailed, "listing subject directory", err).WithPath(sub.Path)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := matchesAny(globs, entry.Name())
		if err != nil {
			return nil, err
		}
		if matched {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

func matchesAny(globs []string, name string) (bool, error) {
	for _, g := range globs {
		ok, err := doublestar.Match(g, name)
		if err != nil {
			return false, errors.NewParseError(errors.ErrCodeMetadataInvalid,
				"invalid file glob: "+g, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// matchChildDir finds the first visible child directory of dir whose
// canonical name equals the canonicalized requested component.
func matchChildDir(dir, requested string) (string, bool) {
	want := canonical.Canonicalize(requested)
	if want == "" {
		return "", false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		if !entry.IsDir() || canonical.IsHidden(entry.Name()) {
			continue
		}
		if canonical.Canonicalize(entry.Name()) == want {
			return entry.Name(), true
		}
	}

	return "", false
}

func splitComponents(path string) []string {
	var out []string
	for _, comp := range strings.Split(filepath.ToSlash(path), "/") {
		if comp != "" && comp != "." {
			out = append(out, comp)
		}
	}
	return out
}
