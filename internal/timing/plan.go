package timing

import (
	"fmt"

	"censorr/internal/services"
)

// BuildPlan pads each merged interval with a symmetric guard band, re-merges
// anything the padding made overlap, and clips the result to
// [0, audioDuration] (audioDuration <= 0 means the duration is unknown and
// only the lower bound is clipped). The returned list is the authoritative
// mute plan: sorted, non-overlapping, ready for the external audio tool.
//
// An interval that degenerates to start >= end after clipping signals a
// corrupt source file and fails the build with a timing error naming the
// offending cues.
func BuildPlan(intervals []Interval, guardBand, tolerance, audioDuration float64) ([]Interval, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	padded := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		padded = append(padded, Interval{
			Start:      iv.Start - guardBand,
			End:        iv.End + guardBand,
			SourceCues: append([]int(nil), iv.SourceCues...),
		})
	}
	merged := Merge(padded, tolerance)

	plan := make([]Interval, 0, len(merged))
	for _, iv := range merged {
		if iv.Start < 0 {
			iv.Start = 0
		}
		if audioDuration > 0 && iv.End > audioDuration {
			iv.End = audioDuration
		}
		if iv.Start >= iv.End {
			return nil, services.Wrap(services.ErrTiming, "mute-plan", "clip",
				fmt.Sprintf("interval from cues %v degenerates to [%.3f, %.3f]", iv.SourceCues, iv.Start, iv.End), nil)
		}
		plan = append(plan, iv)
	}
	return plan, nil
}
