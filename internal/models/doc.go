// Package models defines domain entities and persistence interfaces for daylist.
//
// The package contains two categories of types:
//
// 1. Value types shared by the curation engine and the library client
//   - [Track] : Song metadata used for filtering, scoring and sequencing
//   - [PlaylistTrack] : A placed track with its per-step diagnostics
//   - [PlaylistMetrics] : Aggregate statistics over a sequence
//   - [Playlist] : A generated, named, ordered playlist
//   - [LibraryPlaylist] : Playlist metadata as reported by the music server
//
// 2. Persistent entities
//   - [GeneratedPlaylist] : A recorded generation run with its ordered tracks
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
