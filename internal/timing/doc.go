// Package timing maps masked cues to absolute mute intervals and builds the
// final mute plan.
//
// Every masked cue contributes its full [start, end] range unless per-word
// timing narrows a span to its own window; over-muting a known-profane cue is
// preferred to an audible slip. Intervals are merged when their gap is below
// the merge tolerance, padded with a symmetric guard band, re-merged, and
// clipped to the audio duration. The final plan is sorted, non-overlapping,
// and handed to the external audio tool verbatim.
package timing
