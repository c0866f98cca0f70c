package subtitles

import "strings"

// Projection is a cue's plain-text view with a byte-level mapping back into
// the raw text. Plain contains the cue text with formatting markup removed;
// rawOffsets[i] is the byte offset in the raw text of Plain's byte i.
type Projection struct {
	Plain      string
	rawOffsets []int
}

// RawOffset maps a byte offset in the plain projection to the corresponding
// byte offset in the raw cue text. Passing len(Plain) returns the raw offset
// one past the last projected byte.
func (p Projection) RawOffset(plainOffset int) int {
	if plainOffset < len(p.rawOffsets) {
		return p.rawOffsets[plainOffset]
	}
	if n := len(p.rawOffsets); n > 0 {
		last := p.rawOffsets[n-1]
		return last + 1
	}
	return 0
}

// Project strips formatting markup from raw cue text while tracking where
// every surviving byte came from. Recognized markup: angle-bracket tags
// (<i>, </font>, ...) and ASS/SSA override blocks ({\an8}). Newlines are
// projected as spaces so matching can cross line breaks.
func Project(raw string) Projection {
	var plain strings.Builder
	plain.Grow(len(raw))
	offsets := make([]int, 0, len(raw))

	i := 0
	for i < len(raw) {
		switch raw[i] {
		case '<':
			if end := strings.IndexByte(raw[i:], '>'); end >= 0 {
				i += end + 1
				continue
			}
		case '{':
			if end := strings.IndexByte(raw[i:], '}'); end >= 0 {
				i += end + 1
				continue
			}
		case '\n', '\r':
			plain.WriteByte(' ')
			offsets = append(offsets, i)
			i++
			continue
		}
		plain.WriteByte(raw[i])
		offsets = append(offsets, i)
		i++
	}

	return Projection{Plain: plain.String(), rawOffsets: offsets}
}
