// Package match scans subtitle cues for catalog terms under each term's
// matching policy and produces position-ordered match spans.
//
// Matching runs on a cue's plain-text projection. The text is tokenized into
// words with byte offsets; candidate windows (single words, or n-grams sized
// to multi-word terms) are scored against each term with an indel-ratio
// similarity on the 0-100 scale. A term's variant strategy controls candidate
// breadth, not scoring: conservative only scores windows within one character
// of the term's length, aggressive additionally scores windows that line up
// with affix, compound, and phonetic variants of the term. Overlapping
// candidates within a cue resolve to the highest score, ties to the longer
// span, then the earlier offset.
//
// Per-cue matching is independent, so MatchCues fans out across a bounded
// pool of workers and reassembles results in cue order.
package match
