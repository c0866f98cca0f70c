// Package logging constructs the shared slog logger and provides typed
// attribute helpers plus context-derived fields (job ID, stage, correlation
// ID) so every component logs with a consistent shape.
//
// Two output formats are supported: a human-oriented console format and JSON
// for machine consumption. Component loggers carry a "component" attribute
// that the console handler promotes into the message prefix.
package logging
