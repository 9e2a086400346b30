// Package store persists video assets, subtitle tracks, and the pipeline
// settings record in SQLite.
//
// The schema carries the invariants the rest of the system relies on: one
// subtitle track per (video, language), subtitle rows removed with their video,
// and exactly one settings row that can be created once and never deleted.
// Store methods translate constraint failures into the services error markers
// so callers never inspect driver errors.
//
// Schema changes bump schemaVersion in schema.go; existing databases with a
// different version are rejected rather than silently migrated.
package store
