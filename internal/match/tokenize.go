package match

import (
	"unicode"
	"unicode/utf8"

	"censorr/internal/textutil"
)

// token is a single word in a plain-text projection. ByteStart/ByteEnd are
// offsets into the projection; Norm is the folded comparable form.
type token struct {
	Norm      string
	ByteStart int
	ByteEnd   int
}

// tokenize splits plain text into word tokens with byte offsets. A word is a
// maximal run of letters; digits, punctuation, hyphens, and apostrophes act
// as separators, matching the normalization the catalog applies to terms.
func tokenize(plain string) []token {
	var tokens []token
	start := -1
	for i := 0; i < len(plain); {
		r, size := utf8.DecodeRuneInString(plain[i:])
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			tokens = appendToken(tokens, plain, start, i)
			start = -1
		}
		i += size
	}
	if start >= 0 {
		tokens = appendToken(tokens, plain, start, len(plain))
	}
	return tokens
}

func appendToken(tokens []token, plain string, start, end int) []token {
	norm := textutil.NormalizeWord(plain[start:end])
	if norm == "" {
		return tokens
	}
	return append(tokens, token{Norm: norm, ByteStart: start, ByteEnd: end})
}
