// Package canonical implements the kebab-case name fold used to compare
// user-supplied subject and note names against filesystem entries.
//
// Canonicalization is pure and total: any string maps to a (possibly
// empty) canonical form, and canonicalizing a canonical string is a
// no-op. Entries whose on-disk name is not already canonical are
// treated as hidden from resolution, which is the supported way to keep
// auxiliary directories (".logs", "_archive") out of a shelf.
package canonical

import "strings"

// Canonicalize folds s into its canonical comparison key: every rune is
// lowercased, the string is split on whitespace and hyphen runs, all
// characters outside [a-z0-9] are stripped from each word, empty words
// are dropped, and the survivors are joined with "-".
func Canonicalize(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
	})

	filtered := make([]string, 0, len(words))
	for _, word := range words {
		var b strings.Builder
		for _, r := range word {
			switch {
			case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
				b.WriteRune(r)
			case r >= 'A' && r <= 'Z':
				b.WriteRune(r + ('a' - 'A'))
			}
		}
		if b.Len() == 0 {
			continue
		}
		filtered = append(filtered, b.String())
	}

	return strings.Join(filtered, "-")
}

// IsCanonical reports whether s is already in canonical form.
func IsCanonical(s string) bool {
	return s != "" && Canonicalize(s) == s
}

// IsHidden reports whether a filesystem entry name is hidden from
// resolution. Hidden names either canonicalize to the empty string or
// differ from their canonical form (e.g. ".logs", "Drafts ").
func IsHidden(name string) bool {
	return !IsCanonical(name)
}

// Words splits s the same way Canonicalize does but preserves the
// original casing of each surviving word. Case-conversion template
// helpers build on this so that all of them agree on word boundaries.
func Words(s string) []string {
	raw := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
	})

	words := make([]string, 0, len(raw))
	for _, word := range raw {
		var b strings.Builder
		for _, r := range word {
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		if b.Len() == 0 {
			continue
		}
		words = append(words, b.String())
	}

	return words
}
