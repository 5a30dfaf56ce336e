// Package labels folds user-maintained spreadsheet text (headers, month
// names, branch tokens) into comparable keys.
package labels

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold upper-cases s, strips accents and collapses every run of
// punctuation or whitespace into a single space. "  N° Parte." and
// "n parte" fold to the same key; "AÑO" folds to "ANO".
func Fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.ToUpper(plain) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Find returns the index of the first header matching any alias, -1 otherwise
func Find(headers []string, aliases ...string) int {
	keys := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		keys[Fold(a)] = true
	}
	for i, h := range headers {
		if keys[Fold(h)] {
			return i
		}
	}
	return -1
}

// Contains reports whether the folded text holds the folded token as a substring
func Contains(text, token string) bool {
	t := Fold(token)
	if t == "" {
		return false
	}
	return strings.Contains(Fold(text), t)
}
