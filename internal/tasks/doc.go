// Package tasks runs the conversion from a Spotify playlist to a YouTube playlist.
//
// # Phases
//
// [ConversionEngine] exposes the pipeline one phase at a time so the CLI can stop between them
// (for the confirmation prompt or a dry run):
//
//  1. [ConversionEngine.Fetch] : resolve the playlist reference and export every playable track
//  2. [ConversionEngine.Match] : search YouTube per track and grade the first result with [Confidence]
//  3. [ConversionEngine.Create] : create "<name> (from Spotify)" with the requested privacy
//  4. [ConversionEngine.Insert] : add the matched videos in source order
//
// Calls are sequential. Searches and insertions are paced by [rate.Limiter]s and identical queries
// within a run are answered from an LRU cache.
//
// # Progress Reporting
//
// Every phase accepts an optional channel of [ProgressUpdate]. The [Phase] tells the consumer how to
// render the update and Data carries the track, match or playlist it concerns.
package tasks
