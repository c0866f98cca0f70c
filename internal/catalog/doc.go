// Package catalog loads and normalizes the profanity term list.
//
// The source file is JSON: either a bare array mixing strings and term
// objects, or an object wrapping that array under "profanities". Every entry
// resolves to a concrete Term before matching starts: missing thresholds
// inherit the run default and missing strategies resolve to conservative.
// Duplicate words keep the last definition with a logged warning.
package catalog
