// Package renderer wraps the Handlebars engine with the texshelf
// helper set and the profile template store. Templates receive the
// layered context built by the document package; string leaves are
// wrapped as safe strings so LaTeX source passes through unescaped.
package renderer

import (
	"fmt"
	"time"

	"github.com/mailgun/raymond/v2"

	"github.com/texshelf/texshelf/internal/document"
	"github.com/texshelf/texshelf/internal/errors"
	"github.com/texshelf/texshelf/internal/profile"
)

// Clock supplies "today" to the reldate helper and the date context
// key. Injected so rendering stays deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }

// Renderer renders profile templates and inline template strings.
type Renderer struct {
	prof  *profile.Profile
	clock Clock
}

// New creates a renderer over the profile's template store using the
// system clock.
func New(prof *profile.Profile) *Renderer {
	return NewWithClock(prof, SystemClock{})
}

// NewWithClock creates a renderer with an explicit clock.
func NewWithClock(prof *profile.Profile, clock Clock) *Renderer {
	return &Renderer{prof: prof, clock: clock}
}

// Render resolves key against the template store, falling back to
// _default when the key is not registered, and renders it with ctx.
func (r *Renderer) Render(key string, ctx document.Doc) (string, error) {
	return r.renderSource(r.prof.TemplateOrDefault(key), ctx)
}

// RenderString renders an inline template source, used for compile
// command templates.
func (r *Renderer) RenderString(src string, ctx document.Doc) (string, error) {
	return r.renderSource(src, ctx)
}

func (r *Renderer) renderSource(src string, ctx document.Doc) (out string, err error) {
	tpl, parseErr := raymond.Parse(src)
	if parseErr != nil {
		return "", errors.NewTemplateError(errors.ErrCodeTemplateInvalid,
			"template syntax error", parseErr)
	}
	tpl.RegisterHelpers(r.helpers())

	// The engine panics on some malformed helper invocations instead
	// of returning an error; keep that inside the render boundary.
	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = errors.NewTemplateError(errors.ErrCodeTemplateRender,
				fmt.Sprintf("template evaluation failed: %v", rec), nil)
		}
	}()

	result, execErr := tpl.Exec(r.prepare(ctx))
	if execErr != nil {
		return "", errors.NewTemplateError(errors.ErrCodeTemplateRender,
			"template evaluation failed", execErr)
	}

	return result, nil
}

// prepare wraps string leaves as safe strings and injects the date
// key when the context does not carry one.
func (r *Renderer) prepare(ctx document.Doc) map[string]interface{} {
	wrapped, _ := safeWrap(map[string]interface{}(ctx)).(map[string]interface{})
	if wrapped == nil {
		wrapped = map[string]interface{}{}
	}
	if _, ok := wrapped["date"]; !ok {
		if today, err := formatDate("%F", r.clock.Now()); err == nil {
			wrapped["date"] = raymond.SafeString(today)
		}
	}
	return wrapped
}

// safeWrap recursively converts string values to raymond.SafeString so
// mustache output is not HTML-escaped. LaTeX source is full of
// characters the engine would otherwise mangle.
func safeWrap(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return raymond.SafeString(val)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = safeWrap(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = safeWrap(item)
		}
		return out
	default:
		return v
	}
}
