package subtitles

import (
	"strings"
	"testing"
)

func TestProjectStripsMarkup(t *testing.T) {
	proj := Project("<i>that's</i> {\\an8}dang annoying")
	if proj.Plain != "that's dang annoying" {
		t.Fatalf("unexpected projection %q", proj.Plain)
	}
	// "dang" starts at plain byte 7 and at raw byte 17.
	idx := strings.Index(proj.Plain, "dang")
	if idx != 7 {
		t.Fatalf("expected dang at plain offset 7, got %d", idx)
	}
	if got := proj.RawOffset(idx); got != strings.Index("<i>that's</i> {\\an8}dang annoying", "dang") {
		t.Fatalf("raw offset mismatch: %d", got)
	}
}

func TestProjectTreatsNewlinesAsSpaces(t *testing.T) {
	proj := Project("one\ntwo")
	if proj.Plain != "one two" {
		t.Fatalf("unexpected projection %q", proj.Plain)
	}
}

func TestMaskReplacesSpanWithAsterisks(t *testing.T) {
	raw := "that's dang annoying"
	masked, changed := Mask(raw, []Span{{Start: 7, End: 11}})
	if !changed {
		t.Fatal("expected masking to report change")
	}
	if masked != "that's **** annoying" {
		t.Fatalf("unexpected masked text %q", masked)
	}
}

func TestMaskPreservesMarkup(t *testing.T) {
	raw := "<i>that's</i> dang <b>annoying</b>"
	proj := Project(raw)
	idx := strings.Index(proj.Plain, "dang")
	masked, changed := Mask(raw, []Span{{Start: idx, End: idx + 4}})
	if !changed {
		t.Fatal("expected masking to report change")
	}
	if masked != "<i>that's</i> **** <b>annoying</b>" {
		t.Fatalf("markup corrupted: %q", masked)
	}
}

func TestMaskNoSpansIsByteIdentical(t *testing.T) {
	raw := "<i>untouched</i> text"
	masked, changed := Mask(raw, nil)
	if changed || masked != raw {
		t.Fatalf("expected unchanged text, got %q (changed=%v)", masked, changed)
	}
}

func TestMaskIdempotent(t *testing.T) {
	raw := "that's dang annoying"
	span := []Span{{Start: 7, End: 11}}
	once, _ := Mask(raw, span)
	twice, _ := Mask(once, span)
	if once != twice {
		t.Fatalf("masking not idempotent: %q vs %q", once, twice)
	}
}

func TestMaskMultiByteRunes(t *testing.T) {
	raw := "oh mérde ok"
	proj := Project(raw)
	idx := strings.Index(proj.Plain, "mérde")
	masked, changed := Mask(raw, []Span{{Start: idx, End: idx + len("mérde")}})
	if !changed {
		t.Fatal("expected masking to report change")
	}
	if masked != "oh ***** ok" {
		t.Fatalf("expected one asterisk per character, got %q", masked)
	}
}

func TestMaskSpanAcrossLineBreakKeepsNewline(t *testing.T) {
	raw := "son of\na gun"
	masked, changed := Mask(raw, []Span{{Start: 0, End: len("son of a gun")}})
	if !changed {
		t.Fatal("expected masking to report change")
	}
	if !strings.Contains(masked, "\n") {
		t.Fatalf("expected newline to survive masking, got %q", masked)
	}
	if strings.ContainsAny(masked, "sonfagu") {
		t.Fatalf("expected all letters masked, got %q", masked)
	}
}

func TestMaskCueFlags(t *testing.T) {
	cue := Cue{Index: 2, Start: 1, End: 2, Text: "clean line"}
	updated, masked := MaskCue(cue, nil)
	if masked || updated.Text != cue.Text {
		t.Fatalf("expected untouched cue, got %+v masked=%v", updated, masked)
	}

	updated, masked = MaskCue(Cue{Text: "dang"}, []Span{{Start: 0, End: 4}})
	if !masked || updated.Text != "****" {
		t.Fatalf("expected masked cue, got %+v masked=%v", updated, masked)
	}
}

func TestWordTimingFor(t *testing.T) {
	cue := Cue{
		Start: 10,
		End:   12,
		Text:  "well dang there",
		Words: []WordTiming{
			{Start: 10.0, End: 10.4, CharStart: 0, CharEnd: 4},
			{Start: 10.5, End: 10.9, CharStart: 5, CharEnd: 9},
			{Start: 11.0, End: 11.8, CharStart: 10, CharEnd: 15},
		},
	}
	start, end, ok := cue.WordTimingFor(5, 9)
	if !ok || start != 10.5 || end != 10.9 {
		t.Fatalf("unexpected word timing %v-%v ok=%v", start, end, ok)
	}
	if _, _, ok := cue.WordTimingFor(100, 104); ok {
		t.Fatal("expected no timing outside word ranges")
	}
	if _, _, ok := (Cue{}).WordTimingFor(0, 4); ok {
		t.Fatal("expected no timing without word data")
	}
}
