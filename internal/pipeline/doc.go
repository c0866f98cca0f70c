// Package pipeline orchestrates a censoring run: load the term catalog,
// match cues, mask subtitle text, resolve mute intervals, drive the external
// audio tool, and validate the result. Stages run sequentially; only cue
// matching fans out internally.
package pipeline
