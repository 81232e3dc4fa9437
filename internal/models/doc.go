// Package models defines the entities that flow through a Spotify to YouTube conversion.
//
// The package contains two categories of types:
//
// 1. Transfer types built from provider responses
//   - [Playlist] : playlist metadata from either service
//   - [PlaylistExport] : a source playlist with its complete track listing
//   - [Track] : one source track, numbered by its position in the playlist
//   - [Video] : one YouTube search result
//   - [Match] : a track paired with the video chosen for it, plus a [Confidence]
//
// 2. Persisted history
//   - [Run] : one invocation of the converter and its totals
//   - [RunMatch] : the outcome for a single track within a run
//
// [Run] implements [Model]; the [Repository] interface describes the storage operations the history uses.
package models
