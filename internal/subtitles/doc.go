// Package subtitles holds the cue model, the markup-aware plain-text
// projection used for matching, and the masking rewrite.
//
// Matching never sees formatting markup: Project strips tags like <i> and
// {\an8} while recording a byte-level mapping back into the raw cue text, so
// a span found in the projection can be rewritten in place without touching
// styling. A thin SRT reader/writer rounds out the package; the matching and
// timing code consumes only []Cue and stays format-agnostic.
package subtitles
