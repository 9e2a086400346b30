// Package main hosts the wandlung CLI entrypoint and command graph.
//
// The Cobra command tree drives the pipeline directly against the configured
// database and blob store: fetching videos, transcribing, translating and
// burning subtitle tracks, editing settings, and running the HTTP API with
// `wandlung serve`. Configuration resolution and logger setup live here so
// subcommands only deal with flags and output.
package main
