package timing

import (
	"errors"
	"math"
	"testing"

	"censorr/internal/match"
	"censorr/internal/services"
	"censorr/internal/subtitles"
)

func TestMergeCombinesWithinTolerance(t *testing.T) {
	intervals := []Interval{
		{Start: 10.0, End: 10.5, SourceCues: []int{0}},
		{Start: 10.6, End: 11.0, SourceCues: []int{1}},
	}
	merged := Merge(intervals, 0.25)
	if len(merged) != 1 {
		t.Fatalf("expected one merged interval, got %+v", merged)
	}
	if merged[0].Start != 10.0 || merged[0].End != 11.0 {
		t.Fatalf("unexpected bounds %+v", merged[0])
	}
	if len(merged[0].SourceCues) != 2 {
		t.Fatalf("expected unioned cues, got %v", merged[0].SourceCues)
	}
}

func TestMergeKeepsDistantIntervals(t *testing.T) {
	intervals := []Interval{
		{Start: 1, End: 2, SourceCues: []int{0}},
		{Start: 5, End: 6, SourceCues: []int{1}},
	}
	merged := Merge(intervals, 0.25)
	if len(merged) != 2 {
		t.Fatalf("expected two intervals, got %+v", merged)
	}
}

func TestMergeSortsInput(t *testing.T) {
	intervals := []Interval{
		{Start: 5, End: 6},
		{Start: 1, End: 2},
		{Start: 1.5, End: 3},
	}
	merged := Merge(intervals, 0)
	if len(merged) != 2 {
		t.Fatalf("expected overlap collapse, got %+v", merged)
	}
	if merged[0].Start != 1 || merged[0].End != 3 || merged[1].Start != 5 {
		t.Fatalf("unexpected merge result %+v", merged)
	}
}

func TestResolveWholeCue(t *testing.T) {
	cues := []subtitles.Cue{
		{Index: 0, Start: 10.0, End: 10.5, Text: "****"},
		{Index: 1, Start: 10.6, End: 11.0, Text: "****"},
		{Index: 2, Start: 20.0, End: 21.0, Text: "clean"},
	}
	masked := []bool{true, true, false}
	spans := make([][]match.Span, 3)

	intervals := Resolve(cues, masked, spans, 0.25)
	if len(intervals) != 1 {
		t.Fatalf("expected adjacent cues to merge, got %+v", intervals)
	}
	if intervals[0].Start != 10.0 || intervals[0].End != 11.0 {
		t.Fatalf("unexpected interval %+v", intervals[0])
	}
}

func TestResolveNarrowsWithWordTiming(t *testing.T) {
	cue := subtitles.Cue{
		Index: 0,
		Start: 10.0,
		End:   14.0,
		Text:  "well **** there",
		Words: []subtitles.WordTiming{
			{Start: 10.0, End: 10.4, CharStart: 0, CharEnd: 4},
			{Start: 11.0, End: 11.5, CharStart: 5, CharEnd: 9},
			{Start: 12.0, End: 12.6, CharStart: 10, CharEnd: 15},
		},
	}
	spans := [][]match.Span{{{CueIndex: 0, CharStart: 5, CharEnd: 9, Term: "damn", Score: 100}}}

	intervals := Resolve([]subtitles.Cue{cue}, []bool{true}, spans, 0.25)
	if len(intervals) != 1 {
		t.Fatalf("expected one interval, got %+v", intervals)
	}
	if intervals[0].Start != 11.0 || intervals[0].End != 11.5 {
		t.Fatalf("expected narrowed interval, got %+v", intervals[0])
	}
}

func TestResolveFallsBackWhenTimingIncomplete(t *testing.T) {
	cue := subtitles.Cue{
		Index: 0,
		Start: 10.0,
		End:   14.0,
		Text:  "well **** there",
		Words: []subtitles.WordTiming{
			{Start: 10.0, End: 10.4, CharStart: 0, CharEnd: 4},
		},
	}
	spans := [][]match.Span{{{CueIndex: 0, CharStart: 5, CharEnd: 9}}}

	intervals := Resolve([]subtitles.Cue{cue}, []bool{true}, spans, 0.25)
	if len(intervals) != 1 || intervals[0].Start != 10.0 || intervals[0].End != 14.0 {
		t.Fatalf("expected whole-cue fallback, got %+v", intervals)
	}
}

func TestBuildPlanPadsAndClips(t *testing.T) {
	intervals := []Interval{{Start: 5.0, End: 5.2, SourceCues: []int{3}}}
	plan, err := BuildPlan(intervals, 0.1, 0.25, 5.25)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected one interval, got %+v", plan)
	}
	if math.Abs(plan[0].Start-4.9) > 1e-9 || math.Abs(plan[0].End-5.25) > 1e-9 {
		t.Fatalf("expected [4.9, 5.25], got [%v, %v]", plan[0].Start, plan[0].End)
	}
}

func TestBuildPlanClipsNegativeStart(t *testing.T) {
	plan, err := BuildPlan([]Interval{{Start: 0.05, End: 1.0}}, 0.1, 0.25, 100)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if plan[0].Start != 0 {
		t.Fatalf("expected clip to zero, got %v", plan[0].Start)
	}
}

func TestBuildPlanRemergesAfterPadding(t *testing.T) {
	intervals := []Interval{
		{Start: 1.0, End: 2.0, SourceCues: []int{0}},
		{Start: 2.3, End: 3.0, SourceCues: []int{1}},
	}
	// Gap is 0.3; padding 0.2 per side makes them overlap.
	plan, err := BuildPlan(intervals, 0.2, 0, 100)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected padded intervals to merge, got %+v", plan)
	}
}

func TestBuildPlanDegenerateIntervalFails(t *testing.T) {
	intervals := []Interval{{Start: 10.0, End: 11.0, SourceCues: []int{7}}}
	_, err := BuildPlan(intervals, 0, 0, 9.0)
	if err == nil {
		t.Fatal("expected timing error for interval beyond audio end")
	}
	if !errors.Is(err, services.ErrTiming) {
		t.Fatalf("expected timing marker, got %v", err)
	}
}

func TestBuildPlanOrderingInvariant(t *testing.T) {
	intervals := []Interval{
		{Start: 30, End: 31},
		{Start: 1, End: 2},
		{Start: 10, End: 12},
		{Start: 11, End: 13},
	}
	plan, err := BuildPlan(intervals, 0.1, 0.25, 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 1; i < len(plan); i++ {
		if plan[i].Start <= plan[i-1].End {
			t.Fatalf("plan not separated: %+v", plan)
		}
	}
}

func TestBuildPlanEmpty(t *testing.T) {
	plan, err := BuildPlan(nil, 0.1, 0.25, 100)
	if err != nil || plan != nil {
		t.Fatalf("expected empty plan, got %+v err=%v", plan, err)
	}
}
