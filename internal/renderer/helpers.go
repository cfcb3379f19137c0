package renderer

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/mailgun/raymond/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/texshelf/texshelf/internal/canonical"
	"github.com/texshelf/texshelf/internal/pathutil"
)

// helpers builds the per-template helper set. Registered per template
// rather than globally so tests never trip the engine's duplicate
// registration panic.
func (r *Renderer) helpers() map[string]interface{} {
	return map[string]interface{}{
		"add-int":   func(args ...interface{}) raymond.SafeString { return foldInt(args, intAdd) },
		"sub-int":   func(args ...interface{}) raymond.SafeString { return foldInt(args, intSub) },
		"mul-int":   func(args ...interface{}) raymond.SafeString { return foldInt(args, intMul) },
		"div-int":   func(args ...interface{}) raymond.SafeString { return foldInt(args, intDiv) },
		"add-float": func(args ...interface{}) raymond.SafeString { return foldFloat(args, floatAdd) },
		"sub-float": func(args ...interface{}) raymond.SafeString { return foldFloat(args, floatSub) },
		"mul-float": func(args ...interface{}) raymond.SafeString { return foldFloat(args, floatMul) },
		"div-float": func(args ...interface{}) raymond.SafeString { return foldFloat(args, floatDiv) },

		"upper-case": caseHelper(func(words []string) string {
			return strings.ToUpper(strings.Join(words, " "))
		}),
		"lower-case": caseHelper(func(words []string) string {
			return strings.ToLower(strings.Join(words, " "))
		}),
		"kebab-case": caseHelper(func(words []string) string {
			return strings.ToLower(strings.Join(words, "-"))
		}),
		"snake-case": caseHelper(func(words []string) string {
			return strings.ToLower(strings.Join(words, "_"))
		}),
		"title-case": caseHelper(func(words []string) string {
			titled := make([]string, len(words))
			for i, w := range words {
				titled[i] = titleWord(w)
			}
			return strings.Join(titled, " ")
		}),
		"camel-case": caseHelper(func(words []string) string {
			var b strings.Builder
			for i, w := range words {
				if i == 0 {
					b.WriteString(strings.ToLower(w))
					continue
				}
				b.WriteString(titleWord(w))
			}
			return b.String()
		}),

		"reldate": func(args ...interface{}) raymond.SafeString {
			return r.reldate(args)
		},
		"relpath": func(dst, base string) raymond.SafeString {
			rel, ok := pathutil.Relative(dst, base)
			if !ok {
				return ""
			}
			return raymond.SafeString(rel)
		},

		"is-file": func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && info.Mode().IsRegular()
		},
		"is-dir": func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && info.IsDir()
		},
	}
}

// reldate formats clock-today plus a signed day offset with a strftime
// pattern, defaulting to ISO date.
func (r *Renderer) reldate(args []interface{}) raymond.SafeString {
	format := "%F"
	if len(args) > 0 {
		if s := str(args[0]); s != "" {
			format = s
		}
	}

	days := 0
	if len(args) > 1 {
		days = asInt(args[1], 0)
	}

	out, err := formatDate(format, r.clock.Now().AddDate(0, 0, days))
	if err != nil {
		panic(fmt.Errorf("reldate: invalid format %q: %w", format, err))
	}
	return raymond.SafeString(out)
}

func formatDate(pattern string, t time.Time) (string, error) {
	return strftime.Format(pattern, t)
}

func caseHelper(join func(words []string) string) func(s string) raymond.SafeString {
	return func(s string) raymond.SafeString {
		return raymond.SafeString(join(canonical.Words(s)))
	}
}

var titleCaser = cases.Title(language.Und)

func titleWord(w string) string {
	return titleCaser.String(strings.ToLower(w))
}

// Arithmetic helpers are variadic and kind-split. An argument of the
// wrong numeric kind contributes the operation's identity element (0
// for add/sub, 1 for mul/div) instead of failing.

type intOp struct {
	identity int64
	apply    func(acc, v int64) int64
}

var (
	intAdd = intOp{0, func(acc, v int64) int64 { return acc + v }}
	intSub = intOp{0, func(acc, v int64) int64 { return acc - v }}
	intMul = intOp{1, func(acc, v int64) int64 { return acc * v }}
	intDiv = intOp{1, func(acc, v int64) int64 {
		if v == 0 {
			return acc
		}
		return acc / v
	}}
)

type floatOp struct {
	identity float64
	apply    func(acc, v float64) float64
}

var (
	floatAdd = floatOp{0, func(acc, v float64) float64 { return acc + v }}
	floatSub = floatOp{0, func(acc, v float64) float64 { return acc - v }}
	floatMul = floatOp{1, func(acc, v float64) float64 { return acc * v }}
	floatDiv = floatOp{1, func(acc, v float64) float64 {
		if v == 0 {
			return acc
		}
		return acc / v
	}}
)

func foldInt(args []interface{}, op intOp) raymond.SafeString {
	if len(args) == 0 {
		return raymond.SafeString(strconv.FormatInt(op.identity, 10))
	}
	acc := asInt64(args[0], op.identity)
	for _, arg := range args[1:] {
		acc = op.apply(acc, asInt64(arg, op.identity))
	}
	return raymond.SafeString(strconv.FormatInt(acc, 10))
}

func foldFloat(args []interface{}, op floatOp) raymond.SafeString {
	if len(args) == 0 {
		return raymond.SafeString(strconv.FormatFloat(op.identity, 'f', -1, 64))
	}
	acc := asFloat(args[0], op.identity)
	for _, arg := range args[1:] {
		acc = op.apply(acc, asFloat(arg, op.identity))
	}
	return raymond.SafeString(strconv.FormatFloat(acc, 'f', -1, 64))
}

// asInt64 accepts integer kinds only; floats and everything else are
// the wrong kind and collapse to the identity.
func asInt64(v interface{}, identity int64) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	default:
		return identity
	}
}

// asFloat accepts both float and integer kinds; integers coerce.
func asFloat(v interface{}, identity float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return identity
	}
}

func asInt(v interface{}, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return fallback
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
		return fallback
	default:
		return fallback
	}
}

func str(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case raymond.SafeString:
		return string(s)
	default:
		return ""
	}
}
