package subtitles

// WordTiming carries optional per-word timing for a cue, when the source
// format encodes it. Offsets are byte positions in the cue's plain-text
// projection.
type WordTiming struct {
	Start     float64
	End       float64
	CharStart int
	CharEnd   int
}

// Cue is a single timed subtitle entry. Index is the stable sequence
// position assigned at load; Text may contain inline formatting markup.
type Cue struct {
	Index    int
	Start    float64
	End      float64
	Text     string
	Language string
	Words    []WordTiming
}

// Duration returns the cue length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// WordTimingFor returns the narrowest word-timing window covering the byte
// range [charStart, charEnd) of the plain-text projection, when every part of
// the range is covered. The boolean reports whether such timing exists.
func (c Cue) WordTimingFor(charStart, charEnd int) (float64, float64, bool) {
	if len(c.Words) == 0 || charStart >= charEnd {
		return 0, 0, false
	}
	start := -1.0
	end := -1.0
	for _, w := range c.Words {
		if w.CharEnd <= charStart || w.CharStart >= charEnd {
			continue
		}
		if start < 0 || w.Start < start {
			start = w.Start
		}
		if w.End > end {
			end = w.End
		}
	}
	if start < 0 || end <= start {
		return 0, 0, false
	}
	return start, end, true
}
