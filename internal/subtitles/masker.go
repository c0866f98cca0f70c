package subtitles

import (
	"strings"
	"unicode/utf8"
)

// Span is a byte range [Start, End) in a cue's plain-text projection.
type Span struct {
	Start int
	End   int
}

// Mask rewrites raw cue text, replacing every projected character inside each
// span with a single asterisk. Markup outside the spans is untouched and line
// breaks survive masking. The boolean reports whether any character fell
// inside a span; text without spans is returned unchanged, byte for byte.
//
// Masking is idempotent: asterisks mask to asterisks.
func Mask(raw string, spans []Span) (string, bool) {
	if len(spans) == 0 {
		return raw, false
	}

	proj := Project(raw)
	marks := make([]int, len(raw))
	masked := false

	for _, span := range spans {
		p := span.Start
		if p < 0 {
			p = 0
		}
		for p < span.End && p < len(proj.Plain) {
			r, size := utf8.DecodeRuneInString(proj.Plain[p:])
			if r == utf8.RuneError && size == 1 {
				p++
				continue
			}
			rawPos := proj.rawOffsets[p]
			if raw[rawPos] != '\n' && raw[rawPos] != '\r' {
				marks[rawPos] = size
				masked = true
			}
			p += size
		}
	}

	if !masked {
		return raw, false
	}

	var b strings.Builder
	b.Grow(len(raw))
	i := 0
	for i < len(raw) {
		if n := marks[i]; n > 0 {
			b.WriteByte('*')
			i += n
			continue
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String(), true
}

// MaskCue applies Mask to a cue and returns the rewritten cue plus the
// "contains masked content" flag consumed by timing resolution.
func MaskCue(cue Cue, spans []Span) (Cue, bool) {
	text, masked := Mask(cue.Text, spans)
	cue.Text = text
	return cue, masked
}
