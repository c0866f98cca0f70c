package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases value and strips diacritics via NFKD decomposition, so
// "Merde" and "mérde" normalize to the same form.
func Fold(value string) string {
	lowered := strings.ToLower(value)
	folded, _, err := transform.String(foldTransformer, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// NormalizeWord reduces a token to its comparable form: folded, with
// digits and anything that is not a letter removed. Returns "" when nothing
// comparable remains.
func NormalizeWord(value string) string {
	folded := Fold(value)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhrase folds value and reduces every separator run (whitespace,
// punctuation, digits, hyphens, underscores, apostrophes) to a single space.
// Multi-word terms pass through this before matching.
func NormalizePhrase(value string) string {
	folded := Fold(value)
	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
