package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"censorr/internal/catalog"
	"censorr/internal/subtitles"
	"censorr/internal/textutil"
)

// Span is one accepted term match inside a cue. Offsets are byte positions
// in the cue's plain-text projection. Spans are immutable once produced.
type Span struct {
	CueIndex     int
	CharStart    int
	CharEnd      int
	Term         string
	Score        float64
	StrategyUsed catalog.Strategy
}

// ScoreFunc computes a 0-100 similarity between a candidate window and a
// term form. The matcher is independent of the specific algorithm.
type ScoreFunc func(a, b string) float64

// firstLetterPenalty is subtracted when two words of three or more letters
// disagree on their first letter and neither contains the other. It damps
// coincidental mid-word overlap ("sass" vs "mass").
const firstLetterPenalty = 25

// Matcher scans cues for catalog terms.
type Matcher struct {
	catalog  *catalog.Catalog
	score    ScoreFunc
	variants VariantGenerator
}

// Option adjusts matcher construction.
type Option func(*Matcher)

// WithScoreFunc overrides the similarity function.
func WithScoreFunc(score ScoreFunc) Option {
	return func(m *Matcher) {
		if score != nil {
			m.score = score
		}
	}
}

// WithVariantGenerator overrides aggressive candidate generation.
func WithVariantGenerator(gen VariantGenerator) Option {
	return func(m *Matcher) {
		if gen != nil {
			m.variants = gen
		}
	}
}

// New builds a matcher over a resolved catalog.
func New(cat *catalog.Catalog, opts ...Option) *Matcher {
	m := &Matcher{
		catalog:  cat,
		score:    textutil.Ratio,
		variants: AffixVariants{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MatchCue returns the accepted spans for one cue, ordered by position.
// Absence of matches is a normal empty result.
func (m *Matcher) MatchCue(cue subtitles.Cue) []Span {
	if m == nil || m.catalog.Len() == 0 {
		return nil
	}
	proj := subtitles.Project(cue.Text)
	tokens := tokenize(proj.Plain)
	if len(tokens) == 0 {
		return nil
	}

	var candidates []Span
	for _, term := range m.catalog.Terms() {
		candidates = append(candidates, m.matchTerm(cue.Index, tokens, term)...)
	}
	return resolveOverlaps(candidates)
}

func (m *Matcher) matchTerm(cueIndex int, tokens []token, term catalog.Term) []Span {
	wordCount := term.WordCount()
	if wordCount == 0 || wordCount > len(tokens) {
		return nil
	}

	var spans []Span
	for i := 0; i+wordCount <= len(tokens); i++ {
		window := tokens[i : i+wordCount]
		text := joinWindow(window)
		if text == "" {
			continue
		}
		if wordCount == 1 && isStopword(text) {
			continue
		}
		score, ok := m.scoreWindow(text, term)
		if !ok || score < float64(term.FuzzyThreshold) {
			continue
		}
		spans = append(spans, Span{
			CueIndex:     cueIndex,
			CharStart:    window[0].ByteStart,
			CharEnd:      window[len(window)-1].ByteEnd,
			Term:         term.Word,
			Score:        score,
			StrategyUsed: term.Strategy,
		})
	}
	return spans
}

// scoreWindow scores one candidate window against a term. The boolean is
// false when the window is outside the strategy's candidate breadth and must
// not be scored at all.
func (m *Matcher) scoreWindow(window string, term catalog.Term) (float64, bool) {
	target := term.Word
	if window == target {
		return 100, true
	}

	if term.Strategy == catalog.StrategyAggressive {
		if len(target) >= 3 && strings.Contains(window, target) {
			return 100, true
		}
		for _, variant := range m.variants.Variants(target) {
			if window == variant {
				return 100, true
			}
		}
	}

	if !withinLengthGate(window, target, term.Strategy, m.variants) {
		return 0, false
	}
	return m.penalizedScore(window, target), true
}

// withinLengthGate implements candidate breadth: conservative admits windows
// within one character of the term, aggressive also admits windows within one
// character of any variant form.
func withinLengthGate(window, target string, strategy catalog.Strategy, gen VariantGenerator) bool {
	wl := utf8.RuneCountInString(window)
	if diff := wl - utf8.RuneCountInString(target); diff >= -1 && diff <= 1 {
		return true
	}
	if strategy != catalog.StrategyAggressive {
		return false
	}
	for _, variant := range gen.Variants(target) {
		if diff := wl - utf8.RuneCountInString(variant); diff >= -1 && diff <= 1 {
			return true
		}
	}
	return false
}

func (m *Matcher) penalizedScore(window, target string) float64 {
	score := m.score(window, target)
	if utf8.RuneCountInString(window) >= 3 && utf8.RuneCountInString(target) >= 3 &&
		firstRune(window) != firstRune(target) &&
		!strings.Contains(window, target) && !strings.Contains(target, window) {
		score -= firstLetterPenalty
		if score < 0 {
			score = 0
		}
	}
	return score
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func joinWindow(window []token) string {
	if len(window) == 1 {
		return window[0].Norm
	}
	parts := make([]string, len(window))
	for i, tok := range window {
		parts[i] = tok.Norm
	}
	return strings.Join(parts, " ")
}

// resolveOverlaps keeps the best span among overlapping candidates: highest
// score, ties to the longer span, then the earlier start. The result is
// re-sorted by position.
func resolveOverlaps(candidates []Span) []Span {
	if len(candidates) == 0 {
		return nil
	}
	ranked := append([]Span(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		li := ranked[i].CharEnd - ranked[i].CharStart
		lj := ranked[j].CharEnd - ranked[j].CharStart
		if li != lj {
			return li > lj
		}
		return ranked[i].CharStart < ranked[j].CharStart
	})

	var accepted []Span
	for _, candidate := range ranked {
		overlaps := false
		for _, kept := range accepted {
			if candidate.CharStart < kept.CharEnd && kept.CharStart < candidate.CharEnd {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, candidate)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].CharStart < accepted[j].CharStart
	})
	return accepted
}
