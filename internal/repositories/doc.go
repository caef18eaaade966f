// Package repositories implements SQLite persistence for the curation engine.
//
// Two stores back the CLI:
//   - [TrackRepository] : the cached library pool, upserted after every fetch so generation can run offline
//   - [GeneratedPlaylistRepository] : generation history, one row per playlist plus its ordered tracks with builder diagnostics
//
// Generated playlists support soft deletes via deleted_at and are excluded from queries once deleted.
// Sequence numbers give each generated playlist a stable, human-readable handle (e.g. history #15);
// [NextSequence] atomically increments per-table counters held in dedicated sequence tables.
//
// [TrackCacheAdapter] and [HistoryRecorder] adapt the repositories to the interfaces the playlist engine consumes.
package repositories
