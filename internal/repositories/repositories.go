// package repositories provides persistence layer implementations for the daylist models.
//
// [GeneratedPlaylistRepository] implements models.Repository[T] for generation history,
// [TrackRepository] caches the library pool for offline runs.
package repositories

import (
	"database/sql"
	"fmt"
)

// sequencedTables lists the tables that own a <table>_sequence counter.
var sequencedTables = map[string]bool{
	"generated_playlists": true,
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers give generated playlists a short, human-readable handle (e.g. history #42)
// used by the history commands alongside the UUID.
func NextSequence(db *sql.DB, table string) (int, error) {
	if !sequencedTables[table] {
		return 0, fmt.Errorf("table %q has no sequence", table)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1 RETURNING value", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}
