// Package tasks orchestrates the daily curation run with real-time progress reporting.
//
// # Core Operations
//
// The [CurationEngine] interface defines four operations:
//
//  1. [CurationEngine.Fetch] : Build the candidate pool
//     - Pings the library server
//     - Fetches random and per-genre batches, deduplicated and rate limited
//     - Caches the pool through the optional [TrackCacher]
//     - Removes interludes, skits and other non-songs
//
//  2. [CurationEngine.Generate] : One playlist per taste profile via the curator
//
//  3. [CurationEngine.Publish] : Replace each profile's playlist on the server
//     - Deletes existing playlists whose name starts with the profile's base name
//     - Creates the new playlist with the ordered track IDs
//     - Worker pool (1-10 workers) sharing one rate limiter; failures are per playlist
//     - Dry runs and file exports skip or complement the server writes
//
//  4. [CurationEngine.Run] : Fetch, generate, record and publish in sequence
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
//
// # Offline Runs
//
// With [FetchOpts.Offline] the pool is read from the [TrackCacher] instead of the server,
// so playlists can be generated and previewed without network access.
//
// # Implementation
//
// [PlaylistEngine] implements [CurationEngine] with dependencies on:
//   - [services.Library] : the music server client
//   - [TrackCacher] : optional pool cache (repositories.TrackCacheAdapter)
//   - [RunRecorder] : optional generation history (repositories.HistoryRecorder)
package tasks
