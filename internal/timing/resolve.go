package timing

import (
	"censorr/internal/match"
	"censorr/internal/subtitles"
)

// Resolve derives candidate mute intervals from masked cues. masked and
// spans are indexed in parallel with cues. A masked cue normally contributes
// its whole [start, end] range; when the cue carries per-word timing that
// covers a span, that span narrows to its own window instead. Intervals are
// merged under tolerance before being returned.
func Resolve(cues []subtitles.Cue, masked []bool, spans [][]match.Span, tolerance float64) []Interval {
	var intervals []Interval
	for i, cue := range cues {
		if i >= len(masked) || !masked[i] {
			continue
		}

		narrowed := false
		if i < len(spans) && len(cue.Words) > 0 {
			covered := true
			var spanIntervals []Interval
			for _, span := range spans[i] {
				start, end, ok := cue.WordTimingFor(span.CharStart, span.CharEnd)
				if !ok {
					covered = false
					break
				}
				spanIntervals = append(spanIntervals, Interval{
					Start:      start,
					End:        end,
					SourceCues: []int{cue.Index},
				})
			}
			if covered && len(spanIntervals) > 0 {
				intervals = append(intervals, spanIntervals...)
				narrowed = true
			}
		}

		if !narrowed {
			// Whole-cue interval: coarser but safe.
			intervals = append(intervals, Interval{
				Start:      cue.Start,
				End:        cue.End,
				SourceCues: []int{cue.Index},
			})
		}
	}
	return Merge(intervals, tolerance)
}
