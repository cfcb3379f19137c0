// Package profile loads the texshelf profile: a TOML configuration
// file plus a directory of Handlebars templates. The profile is loaded
// once per invocation and treated as immutable afterwards.
package profile

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/texshelf/texshelf/internal/document"
	"github.com/texshelf/texshelf/internal/errors"
)

const (
	// MetadataFile is the profile configuration file name inside the
	// profile directory.
	MetadataFile = "profile.toml"

	// TemplatesDir holds one .hbs file per template name.
	TemplatesDir = "templates"

	// TemplateExt is the template file extension.
	TemplateExt = ".hbs"

	// DefaultTemplate is the fallback template key.
	DefaultTemplate = "_default"

	// MasterDefaultTemplate is the fallback template key for master
	// notes.
	MasterDefaultTemplate = "master/_default"

	// DefaultCommand compiles a note when neither the profile nor the
	// subject overrides it.
	DefaultCommand = "pdflatex {{note}}"
)

// Profile is the root configuration: identity, compile command, and
// the template store.
type Profile struct {
	Name    string
	Version string
	Command string

	// Doc preserves every key of the metadata file verbatim, extras
	// included, for the render context.
	Doc document.Doc

	templates map[string]string
}

// Load reads profile.toml and the templates directory under dir.
// A missing or unreadable profile is fatal for the whole invocation.
func Load(dir string) (*Profile, error) {
	metaPath := filepath.Join(dir, MetadataFile)
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewProfileError(errors.ErrCodeProfileNotFound,
				"profile not found, run 'texshelf init' first", err).WithPath(metaPath)
		}
		return nil, errors.NewProfileError(errors.ErrCodeProfileInvalid,
			"profile not readable", err).WithPath(metaPath)
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.NewProfileError(errors.ErrCodeProfileInvalid,
			"profile is not valid TOML", err).WithPath(metaPath)
	}

	p := &Profile{
		Doc:       document.Doc(doc),
		templates: make(map[string]string),
	}

	if p.Name, err = requiredString(doc, "name", metaPath); err != nil {
		return nil, err
	}
	if p.Version, err = requiredString(doc, "version", metaPath); err != nil {
		return nil, err
	}

	p.Command = DefaultCommand
	if cmd, ok := doc["command"]; ok {
		s, ok := cmd.(string)
		if !ok {
			return nil, errors.NewProfileError(errors.ErrCodeProfileInvalid,
				"profile key 'command' must be a string", nil).WithPath(metaPath)
		}
		p.Command = s
	}

	if err := p.loadTemplates(filepath.Join(dir, TemplatesDir)); err != nil {
		return nil, err
	}

	return p, nil
}

func requiredString(doc map[string]interface{}, key, path string) (string, error) {
	v, ok := doc[key]
	if !ok {
		return "", errors.NewProfileError(errors.ErrCodeProfileInvalid,
			"profile key '"+key+"' is required", nil).WithPath(path)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.NewProfileError(errors.ErrCodeProfileInvalid,
			"profile key '"+key+"' must be a non-empty string", nil).WithPath(path)
	}
	return s, nil
}

// loadTemplates walks the templates directory and registers every .hbs
// file under its slash-joined relative path minus the extension, so
// templates/master/_default.hbs becomes "master/_default". A missing
// templates directory is fine; built-in fallbacks cover the defaults.
func (p *Profile) loadTemplates(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), TemplateExt) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), TemplateExt)

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		p.templates[key] = string(raw)

		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return errors.NewProfileError(errors.ErrCodeProfileInvalid,
			"templates directory not readable", err).WithPath(dir)
	}
	return nil
}

// Template resolves a template key: exact match first, then the
// built-in defaults for the two reserved names. Returns the template
// text and whether it was found.
func (p *Profile) Template(key string) (string, bool) {
	if t, ok := p.templates[key]; ok {
		return t, true
	}
	switch key {
	case DefaultTemplate:
		return builtinDefaultTemplate, true
	case MasterDefaultTemplate:
		return builtinMasterTemplate, true
	}
	return "", false
}

// TemplateOrDefault resolves key, falling back to _default when key is
// not registered.
func (p *Profile) TemplateOrDefault(key string) string {
	if t, ok := p.Template(key); ok {
		return t
	}
	t, _ := p.Template(DefaultTemplate)
	return t
}

// TemplateNames lists registered template keys, built-ins excluded.
func (p *Profile) TemplateNames() []string {
	names := make([]string, 0, len(p.templates))
	for k := range p.templates {
		names = append(names, k)
	}
	return names
}
