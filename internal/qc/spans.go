package qc

import "censorr/internal/timing"

// ControlSpan is a time range outside every mute interval, used to confirm
// the rest of the track kept its level.
type ControlSpan struct {
	Start float64
	End   float64
}

// SelectControlSpans picks up to maxSpans sample-length ranges from the gaps
// between mute intervals. The plan must be ordered, which BuildPlan
// guarantees.
func SelectControlSpans(plan []timing.Interval, duration, spanLen float64, maxSpans int) []ControlSpan {
	if spanLen <= 0 || maxSpans <= 0 {
		return nil
	}
	var spans []ControlSpan
	current := 0.0
	for _, iv := range plan {
		if iv.Start-current >= spanLen {
			spans = append(spans, ControlSpan{Start: current, End: min(current+spanLen, iv.Start)})
		}
		if iv.End > current {
			current = iv.End
		}
	}
	if duration-current >= spanLen {
		spans = append(spans, ControlSpan{Start: current, End: min(current+spanLen, duration)})
	}
	if len(spans) > maxSpans {
		spans = spans[:maxSpans]
	}
	return spans
}
