// Package qc verifies that applied muting neither under- nor over-attenuated
// the audio.
//
// The external audio tool supplies level-over-time samples for the muted
// track. Each sample is classified against the authoritative mute plan and a
// dB floor: samples intersecting a mute interval must sit at or below the
// floor (otherwise under_muted), samples outside every interval must sit
// above it (otherwise over_attenuated). The validator only reports; the
// caller decides whether findings fail the run.
//
// A second check covers the subtitle side: masked cue text must no longer
// contain any catalog term as a whole word.
package qc
