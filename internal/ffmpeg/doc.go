// Package ffmpeg drives the external audio tooling. It applies mute plans
// with a single volume filter, probes media duration, and measures mean
// levels over time ranges with volumedetect. All filter-string construction
// lives here; callers hand over plain interval lists.
package ffmpeg
