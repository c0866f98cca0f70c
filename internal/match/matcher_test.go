package match

import (
	"context"
	"strings"
	"testing"

	"censorr/internal/catalog"
	"censorr/internal/subtitles"
)

func mustCatalog(t *testing.T, data string, defaultThreshold int) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(data), defaultThreshold, nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestMatchCueBelowThreshold(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"damn","fuzzy_threshold":90}]`, 85)
	cue := subtitles.Cue{Index: 0, Text: "that's dang annoying"}

	spans := New(cat).MatchCue(cue)
	if len(spans) != 0 {
		t.Fatalf("expected no matches at threshold 90, got %+v", spans)
	}
}

func TestMatchCueAtThreshold(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"damn","fuzzy_threshold":75}]`, 85)
	cue := subtitles.Cue{Index: 0, Text: "that's dang annoying"}

	spans := New(cat).MatchCue(cue)
	if len(spans) != 1 {
		t.Fatalf("expected 1 match at threshold 75, got %+v", spans)
	}
	span := spans[0]
	if span.Term != "damn" || span.Score != 75 {
		t.Fatalf("unexpected span %+v", span)
	}
	proj := subtitles.Project(cue.Text)
	if got := proj.Plain[span.CharStart:span.CharEnd]; got != "dang" {
		t.Fatalf("span covers %q, want dang", got)
	}

	masked, changed := subtitles.Mask(cue.Text, []subtitles.Span{{Start: span.CharStart, End: span.CharEnd}})
	if !changed || masked != "that's **** annoying" {
		t.Fatalf("unexpected masked text %q", masked)
	}
}

func TestMatchExactIgnoresCaseAndMarkup(t *testing.T) {
	cat := mustCatalog(t, `["damn"]`, 85)
	cue := subtitles.Cue{Index: 3, Text: "<i>DAMN</i> that hurt"}

	spans := New(cat).MatchCue(cue)
	if len(spans) != 1 || spans[0].Score != 100 {
		t.Fatalf("expected exact match, got %+v", spans)
	}
	if spans[0].CueIndex != 3 {
		t.Fatalf("expected cue index to carry through, got %d", spans[0].CueIndex)
	}
}

func TestThresholdMonotonicity(t *testing.T) {
	cue := subtitles.Cue{Text: "dang dangs dan dog whatever"}
	previous := -1
	for threshold := 100; threshold >= 0; threshold -= 10 {
		cat := mustCatalog(t, `[{"word":"damn","fuzzy_threshold":`+itoa(threshold)+`}]`, 85)
		count := len(New(cat).MatchCue(cue))
		if previous >= 0 && count < previous {
			t.Fatalf("lowering threshold to %d reduced matches from %d to %d", threshold, previous, count)
		}
		previous = count
	}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	digits := ""
	for v > 0 {
		digits = string(rune('0'+v%10)) + digits
		v /= 10
	}
	return digits
}

func TestConservativeSkipsLongInflections(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"damn","fuzzy_threshold":85}]`, 85)
	cue := subtitles.Cue{Text: "he was damning everyone"}
	if spans := New(cat).MatchCue(cue); len(spans) != 0 {
		t.Fatalf("conservative should not reach +3 char windows, got %+v", spans)
	}
}

func TestAggressiveMatchesInflections(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"damn","variant_strategy":"aggressive"}]`, 85)
	cue := subtitles.Cue{Text: "he was damning everyone"}
	spans := New(cat).MatchCue(cue)
	if len(spans) != 1 || spans[0].Score != 100 {
		t.Fatalf("aggressive should match the -ing form exactly, got %+v", spans)
	}
}

func TestAggressiveMatchesPhoneticVariant(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"fuck","variant_strategy":"aggressive"}]`, 85)
	cue := subtitles.Cue{Text: "phuck this"}
	spans := New(cat).MatchCue(cue)
	if len(spans) != 1 || spans[0].Score != 100 {
		t.Fatalf("expected phonetic variant match, got %+v", spans)
	}
}

func TestStopwordWindowsNeverScored(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"ass","fuzzy_threshold":0}]`, 0)
	cue := subtitles.Cue{Text: "as is"}
	for _, span := range New(cat).MatchCue(cue) {
		if span.CharStart == 0 && span.CharEnd == 2 {
			t.Fatalf("stopword window was scored: %+v", span)
		}
	}
}

func TestFirstLetterPenalty(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"dang","fuzzy_threshold":60}]`, 85)
	// gang vs dang shares 3 of 4 letters (ratio 75) but differs on the
	// first letter, so the penalty drops it to 50.
	cue := subtitles.Cue{Text: "the gang arrived"}
	if spans := New(cat).MatchCue(cue); len(spans) != 0 {
		t.Fatalf("expected penalty to reject gang, got %+v", spans)
	}
}

func TestMultiWordTermMatches(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"son of a gun","fuzzy_threshold":85}]`, 85)
	cue := subtitles.Cue{Text: "you son of a gun you"}
	spans := New(cat).MatchCue(cue)
	if len(spans) != 1 {
		t.Fatalf("expected one phrase match, got %+v", spans)
	}
	proj := subtitles.Project(cue.Text)
	if got := proj.Plain[spans[0].CharStart:spans[0].CharEnd]; got != "son of a gun" {
		t.Fatalf("span covers %q", got)
	}
}

func TestOverlapResolutionPrefersHigherScore(t *testing.T) {
	cat := mustCatalog(t, `[
		{"word":"dang","fuzzy_threshold":70},
		{"word":"dangs","fuzzy_threshold":70}
	]`, 85)
	cue := subtitles.Cue{Text: "dangs everywhere"}
	spans := New(cat).MatchCue(cue)
	if len(spans) != 1 {
		t.Fatalf("expected overlap resolution to one span, got %+v", spans)
	}
	if spans[0].Term != "dangs" || spans[0].Score != 100 {
		t.Fatalf("expected exact term to win, got %+v", spans[0])
	}
}

func TestSpansOrderedByPosition(t *testing.T) {
	cat := mustCatalog(t, `["damn","hell"]`, 85)
	cue := subtitles.Cue{Text: "hell yes damn right hell no"}
	spans := New(cat).MatchCue(cue)
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %+v", spans)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].CharStart < spans[i-1].CharEnd {
			t.Fatalf("spans out of order or overlapping: %+v", spans)
		}
	}
}

func TestMatchCuesParallelPreservesOrder(t *testing.T) {
	cat := mustCatalog(t, `["damn"]`, 85)
	cues := make([]subtitles.Cue, 50)
	for i := range cues {
		text := "nothing here"
		if i%3 == 0 {
			text = "damn it"
		}
		cues[i] = subtitles.Cue{Index: i, Text: text}
	}

	results, err := New(cat).MatchCues(context.Background(), cues, 4)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(results) != len(cues) {
		t.Fatalf("expected %d result slots, got %d", len(cues), len(results))
	}
	for i, spans := range results {
		wantMatch := i%3 == 0
		if wantMatch && len(spans) != 1 {
			t.Fatalf("cue %d: expected a match, got %+v", i, spans)
		}
		if !wantMatch && len(spans) != 0 {
			t.Fatalf("cue %d: unexpected match %+v", i, spans)
		}
		for _, span := range spans {
			if span.CueIndex != i {
				t.Fatalf("cue %d: span carries index %d", i, span.CueIndex)
			}
		}
	}
}

func TestMatchCuesCancellation(t *testing.T) {
	cat := mustCatalog(t, `["damn"]`, 85)
	cues := make([]subtitles.Cue, 1000)
	for i := range cues {
		cues[i] = subtitles.Cue{Index: i, Text: strings.Repeat("words and more words ", 20)}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(cat).MatchCues(ctx, cues, 2); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestCustomScoreFunc(t *testing.T) {
	cat := mustCatalog(t, `[{"word":"damn","fuzzy_threshold":1}]`, 85)
	called := false
	m := New(cat, WithScoreFunc(func(a, b string) float64 {
		called = true
		return 0
	}))
	m.MatchCue(subtitles.Cue{Text: "dang it"})
	if !called {
		t.Fatal("expected custom score function to be used")
	}
}
