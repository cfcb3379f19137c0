// Package pathutil provides purely lexical path computations that never
// touch the filesystem. They back the relpath template helper and the
// normalization applied to user-supplied subject paths.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Relative computes the relative path from base to dst without
// consulting the filesystem, following the same rules as Python's
// os.path.relpath over already-normalized inputs. The second return
// value is false when no relative path exists: mixing an absolute base
// with a relative dst, or a base that climbs through an unresolvable
// ".." component.
func Relative(dst, base string) (string, bool) {
	if filepath.IsAbs(dst) != filepath.IsAbs(base) {
		if filepath.IsAbs(dst) {
			return dst, true
		}
		return "", false
	}

	dstParts := splitComponents(dst)
	baseParts := splitComponents(base)

	var out []string
	i := 0
	for ; i < len(dstParts) && i < len(baseParts); i++ {
		a, b := dstParts[i], baseParts[i]
		switch {
		case len(out) == 0 && a == b:
			// Shared prefix, keep walking.
		case b == ".":
			out = append(out, a)
		case b == "..":
			// The base escapes through an unknown parent; there is no
			// lexical way back down to dst.
			return "", false
		default:
			out = append(out, "..")
			for j := i + 1; j < len(baseParts); j++ {
				out = append(out, "..")
			}
			out = append(out, dstParts[i:]...)
			return strings.Join(out, "/"), true
		}
	}

	for ; i < len(baseParts); i++ {
		out = append(out, "..")
	}
	out = append(out, dstParts[i:]...)

	return strings.Join(out, "/"), true
}

// Normalize lexically resolves "." and ".." components of a relative or
// absolute path without requiring it to exist. Leading ".." components
// that cannot be resolved are preserved. Returns false when nothing is
// left after normalization.
func Normalize(path string) (string, bool) {
	var components []string
	for _, component := range splitComponents(path) {
		switch component {
		case ".":
			continue
		case "..":
			if len(components) == 0 || components[len(components)-1] == ".." {
				components = append(components, component)
			} else {
				components = components[:len(components)-1]
			}
		default:
			components = append(components, component)
		}
	}

	normalized := strings.Join(components, "/")
	if normalized == "" {
		return "", false
	}
	return normalized, true
}

// splitComponents breaks a slash path into its components, keeping "."
// and ".." markers but discarding empty segments and a lone trailing
// separator. Windows separators are accepted on input.
func splitComponents(path string) []string {
	path = strings.ReplaceAll(path, "\\", "/")

	var parts []string
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
