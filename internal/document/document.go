// Package document models the layered key-value data handed to the
// template renderer. A context is an ordered overlay of documents
// (profile, shelf, subject, note or master) where later layers win on
// key collision, followed by a reserved-field pass that pins the
// generated values regardless of what user metadata declares.
package document

import (
	"dario.cat/mergo"
)

// Doc is a generic key-value document. Values are strings, numbers,
// booleans, sequences, or nested Docs, exactly as produced by the TOML
// decoder.
type Doc map[string]interface{}

// Clone returns a shallow-nested copy of the document so callers can
// layer over it without mutating the source.
func (d Doc) Clone() Doc {
	out := make(Doc, len(d))
	for k, v := range d {
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = map[string]interface{}(Doc(nested).Clone())
			continue
		}
		out[k] = v
	}
	return out
}

// Merge overlays src onto dst, mutating dst. Keys present in src
// replace keys in dst; nested maps merge recursively.
func Merge(dst Doc, src Doc) error {
	return mergo.Merge((*map[string]interface{})(&dst), map[string]interface{}(src), mergo.WithOverride)
}

// SubjectFields carries the computed subject values that always win
// over metadata-supplied ones.
type SubjectFields struct {
	Name        string
	FullName    string
	Path        string
	PathInShelf string
	Metadata    Doc // parsed info.toml, nil when the file is absent
}

// NoteFields carries the computed values for a single note layer.
type NoteFields struct {
	Title       string
	File        string
	PathInShelf string
}

// subjectDoc builds the subject layer: user metadata first, then the
// reserved fields forced on top. Both the underscore-prefixed and the
// plain path_in_shelf spellings are pinned so templates can use either.
func subjectDoc(sub SubjectFields) Doc {
	doc := Doc{}
	if sub.Metadata != nil {
		doc = sub.Metadata.Clone()
	}

	doc["name"] = sub.Name
	doc["_full_name"] = sub.FullName
	doc["_path"] = sub.Path
	doc["_path_in_shelf"] = sub.PathInShelf
	doc["path_in_shelf"] = sub.PathInShelf

	return doc
}

// noteDoc builds the note layer from computed fields only; notes carry
// no metadata file of their own.
func noteDoc(note NoteFields) Doc {
	return Doc{
		"title":         note.Title,
		"file":          note.File,
		"path_in_shelf": note.PathInShelf,
	}
}

// BuildNoteContext assembles the full render context for a single
// note: profile document, shelf path, subject layer, note layer.
func BuildNoteContext(profile Doc, shelfPath string, sub SubjectFields, note NoteFields) (Doc, error) {
	ctx := Doc{}

	if err := Merge(ctx, profile); err != nil {
		return nil, err
	}
	if err := Merge(ctx, Doc{"shelf": map[string]interface{}{"path": shelfPath}}); err != nil {
		return nil, err
	}

	ctx["subject"] = map[string]interface{}(subjectDoc(sub))
	ctx["note"] = map[string]interface{}(noteDoc(note))

	return ctx, nil
}

// BuildMasterContext assembles the render context for a subject's
// master note. The final layer embeds the filtered note list so the
// master template can iterate over it.
func BuildMasterContext(profile Doc, shelfPath string, sub SubjectFields, notes []NoteFields, masterPathInShelf string) (Doc, error) {
	ctx := Doc{}

	if err := Merge(ctx, profile); err != nil {
		return nil, err
	}
	if err := Merge(ctx, Doc{"shelf": map[string]interface{}{"path": shelfPath}}); err != nil {
		return nil, err
	}

	noteDocs := make([]interface{}, 0, len(notes))
	for _, n := range notes {
		noteDocs = append(noteDocs, map[string]interface{}(noteDoc(n)))
	}

	ctx["subject"] = map[string]interface{}(subjectDoc(sub))
	ctx["master"] = map[string]interface{}{
		"notes":         noteDocs,
		"subject":       map[string]interface{}(subjectDoc(sub)),
		"file":          "_master.tex",
		"path_in_shelf": masterPathInShelf,
	}

	return ctx, nil
}

// Get walks a dotted key path ("subject.path_in_shelf") through nested
// maps. Used by tests and by callers that need a single field back out
// of an assembled context.
func (d Doc) Get(keys ...string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(d)
	for _, k := range keys {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
