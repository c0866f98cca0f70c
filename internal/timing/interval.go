package timing

import "sort"

// Interval is a time range in the audio track to be silenced. SourceCues
// records the cue indexes that produced it, for traceability.
type Interval struct {
	Start      float64
	End        float64
	SourceCues []int
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t float64) bool {
	return t >= iv.Start && t < iv.End
}

// Overlaps reports whether [start, end) intersects the interval.
func (iv Interval) Overlaps(start, end float64) bool {
	return start < iv.End && iv.Start < end
}

// Merge sorts intervals by start time and combines any pair whose gap is
// below tolerance, unioning their source cues. The result is ordered and
// pairwise separated by at least the tolerance.
func Merge(intervals []Interval, tolerance float64) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := append([]Interval(nil), intervals...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []Interval{cloneInterval(sorted[0])}
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if next.Start <= last.End+tolerance {
			if next.End > last.End {
				last.End = next.End
			}
			last.SourceCues = unionCues(last.SourceCues, next.SourceCues)
			continue
		}
		merged = append(merged, cloneInterval(next))
	}
	return merged
}

func cloneInterval(iv Interval) Interval {
	return Interval{
		Start:      iv.Start,
		End:        iv.End,
		SourceCues: append([]int(nil), iv.SourceCues...),
	}
}

func unionCues(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, lists := range [][]int{a, b} {
		for _, cue := range lists {
			if _, ok := seen[cue]; ok {
				continue
			}
			seen[cue] = struct{}{}
			out = append(out, cue)
		}
	}
	sort.Ints(out)
	return out
}
