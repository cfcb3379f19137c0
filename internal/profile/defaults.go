package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/texshelf/texshelf/internal/errors"
)

// builtinDefaultTemplate renders a minimal LaTeX article for a new
// note when the profile ships no _default.hbs. The ~ markers trim the
// whitespace that keeps the mustaches from colliding with the LaTeX
// braces.
const builtinDefaultTemplate = `\documentclass[12pt, a4paper]{article}

\title{ {{~note.title~}} }
\author{ {{~name~}} }
\date{ {{~reldate "%F"~}} }

\begin{document}
\maketitle
\end{document}
`

// builtinMasterTemplate inputs every filtered note of the subject.
const builtinMasterTemplate = `\documentclass[12pt, a4paper]{article}

\title{ {{~master.subject.name~}} }
\author{ {{~name~}} }
\date{ {{~reldate "%F"~}} }

\begin{document}
\maketitle
{{#each master.notes}}\input{ {{~this.file~}} }
{{/each}}\end{document}
`

// Init scaffolds a fresh profile directory: profile.toml with the
// given name, the templates directory, and the two default template
// files. Fails with ERR_PROFILE_EXISTS when profile.toml is already
// present.
func Init(dir, name string) error {
	metaPath := filepath.Join(dir, MetadataFile)
	if _, err := os.Stat(metaPath); err == nil {
		return errors.NewProfileError(errors.ErrCodeProfileExists,
			"profile already initialized", nil).WithPath(metaPath)
	}

	if err := os.MkdirAll(filepath.Join(dir, TemplatesDir, "master"), 0o755); err != nil {
		return errors.NewIOError(errors.ErrCodeIOFailed, "creating profile directories", err).WithPath(dir)
	}

	meta := map[string]interface{}{
		"name":    name,
		"version": "1.0",
		"command": DefaultCommand,
	}
	raw, err := toml.Marshal(meta)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInternalError,
			fmt.Sprintf("encoding profile metadata for %q", name), err)
	}
	if err := os.WriteFile(metaPath, raw, 0o644); err != nil {
		return errors.NewIOError(errors.ErrCodeIOFailed, "writing profile metadata", err).WithPath(metaPath)
	}

	files := map[string]string{
		filepath.Join(dir, TemplatesDir, DefaultTemplate+TemplateExt):           builtinDefaultTemplate,
		filepath.Join(dir, TemplatesDir, "master", DefaultTemplate+TemplateExt): builtinMasterTemplate,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.NewIOError(errors.ErrCodeIOFailed, "writing default template", err).WithPath(path)
		}
	}

	return nil
}
