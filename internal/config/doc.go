// Package config loads, normalizes, and validates the censorr configuration.
//
// Configuration lives in a TOML file (default ~/.config/censorr/config.toml,
// falling back to ./censorr.toml) and covers subsystems:
//   - Paths: working/output directories and the profanity terms file
//   - Matching: default fuzzy threshold and matcher parallelism
//   - Timing: interval merge tolerance and guard-band padding
//   - QC: post-mute level threshold
//   - Audio: ffmpeg/ffprobe binaries and subtitle/audio language selection
//   - Logging: log format and level
//
// Load applies defaults first, then the file, then normalizes paths and
// validates ranges. A missing config file is not an error; defaults apply.
package config
