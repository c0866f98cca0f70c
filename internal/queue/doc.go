// Package queue persists censoring jobs in SQLite so runs survive daemon
// restarts. Each item tracks one media/subtitle pair through the pipeline
// from pending to completed, failed, or review.
package queue
