package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/shared"
)

// GeneratedPlaylistRepository implements models.Repository[*models.GeneratedPlaylist] for generation history.
//
// Each record owns its ordered tracks; both are written in one transaction so history never holds
// a header without its tracks.
type GeneratedPlaylistRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.GeneratedPlaylist] = (*GeneratedPlaylistRepository)(nil)

// NewGeneratedPlaylistRepository creates a new GeneratedPlaylistRepository with the given database connection
func NewGeneratedPlaylistRepository(db *sql.DB) *GeneratedPlaylistRepository {
	return &GeneratedPlaylistRepository{db: db}
}

const generatedColumns = `id, sequence, profile, name, quality, duration, remote_id, generated_at, created_at, updated_at, deleted_at`

// Create inserts a generated playlist and its tracks with a generated ID and sequence
func (r *GeneratedPlaylistRepository) Create(playlist *models.GeneratedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "generated_playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO generated_playlists (id, sequence, profile, name, quality, track_count, duration, remote_id, generated_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		sequence,
		playlist.Profile(),
		playlist.Name(),
		playlist.Quality(),
		playlist.TrackCount(),
		playlist.Duration(),
		playlist.RemoteID(),
		playlist.GeneratedAt(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generated playlist: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO generated_playlist_tracks (playlist_id, position, track_id, title, artist, album, bpm, duration, transition_score, contribution, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for i, pt := range playlist.Tracks() {
		t := pt.Track
		if _, err := stmt.Exec(id, i, t.ID, t.Title, t.Artist, t.Album, t.Tempo, t.Duration, pt.Transition, pt.Contribution, string(pt.Reason)); err != nil {
			return fmt.Errorf("failed to insert track %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit generated playlist: %w", err)
	}

	playlist.SetID(id)
	playlist.SetSequence(sequence)
	return nil
}

// Get retrieves a generated playlist and its tracks by ID, excluding soft-deleted records
func (r *GeneratedPlaylistRepository) Get(id string) (*models.GeneratedPlaylist, error) {
	query := `SELECT ` + generatedColumns + `
		FROM generated_playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	playlist, err := r.scanOne(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	return r.withTracks(playlist)
}

// GetBySequence retrieves a generated playlist by its history number
func (r *GeneratedPlaylistRepository) GetBySequence(sequence int) (*models.GeneratedPlaylist, error) {
	query := `SELECT ` + generatedColumns + `
		FROM generated_playlists
		WHERE sequence = ? AND deleted_at IS NULL
	`

	playlist, err := r.scanOne(r.db.QueryRow(query, sequence))
	if err != nil {
		return nil, err
	}
	return r.withTracks(playlist)
}

// Update modifies the name and remote ID of an existing generated playlist.
//
// Tracks are immutable once recorded.
func (r *GeneratedPlaylistRepository) Update(playlist *models.GeneratedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	query := `
		UPDATE generated_playlists
		SET name = ?, remote_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, playlist.Name(), playlist.RemoteID(), now, playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to update generated playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("generated playlist not found or already deleted: %s", playlist.ID())
	}

	return nil
}

// Delete soft-deletes a generated playlist by ID
func (r *GeneratedPlaylistRepository) Delete(id string) error {
	query := `
		UPDATE generated_playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete generated playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("generated playlist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves generated playlists, newest first, excluding soft-deleted records.
//
// Supported criteria: "profile" (string) and "limit" (int).
func (r *GeneratedPlaylistRepository) List(criteria map[string]any) ([]*models.GeneratedPlaylist, error) {
	query := `SELECT ` + generatedColumns + `
		FROM generated_playlists
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if profile, ok := criteria["profile"].(string); ok && profile != "" {
		query += " AND profile = ?"
		args = append(args, profile)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query generated playlists: %w", err)
	}

	var playlists []*models.GeneratedPlaylist
	for rows.Next() {
		playlist, err := r.scanRow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, playlist := range playlists {
		if _, err := r.withTracks(playlist); err != nil {
			return nil, err
		}
	}

	return playlists, nil
}

// Tracks returns the ordered tracks of a generated playlist.
func (r *GeneratedPlaylistRepository) Tracks(id string) ([]models.PlaylistTrack, error) {
	query := `
		SELECT track_id, title, artist, album, bpm, duration, transition_score, contribution, reason
		FROM generated_playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.PlaylistTrack{}
	for rows.Next() {
		var (
			pt     models.PlaylistTrack
			reason string
		)
		err := rows.Scan(&pt.Track.ID, &pt.Track.Title, &pt.Track.Artist, &pt.Track.Album, &pt.Track.Tempo, &pt.Track.Duration,
			&pt.Transition, &pt.Contribution, &reason)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist track: %w", err)
		}
		pt.Reason = models.PickReason(reason)
		tracks = append(tracks, pt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

func (r *GeneratedPlaylistRepository) withTracks(playlist *models.GeneratedPlaylist) (*models.GeneratedPlaylist, error) {
	tracks, err := r.Tracks(playlist.ID())
	if err != nil {
		return nil, err
	}
	playlist.SetTracks(tracks)
	return playlist, nil
}

// scanOne scans a single row into a [models.GeneratedPlaylist]
func (r *GeneratedPlaylistRepository) scanOne(row *sql.Row) (*models.GeneratedPlaylist, error) {
	playlist, err := scanGenerated(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("generated playlist not found")
	}
	return playlist, err
}

// scanRow scans a row from [sql.Rows] into a [models.GeneratedPlaylist]
func (r *GeneratedPlaylistRepository) scanRow(rows *sql.Rows) (*models.GeneratedPlaylist, error) {
	return scanGenerated(rows)
}

func scanGenerated(s scanner) (*models.GeneratedPlaylist, error) {
	var (
		id          string
		sequence    int
		profile     string
		name        string
		quality     float64
		duration    int
		remoteID    string
		generatedAt time.Time
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &profile, &name, &quality, &duration, &remoteID, &generatedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan generated playlist: %w", err)
	}

	playlist := models.NewGeneratedPlaylist(sequence, models.Playlist{
		Name:        name,
		Profile:     profile,
		Quality:     quality,
		Metrics:     models.PlaylistMetrics{TotalDuration: duration},
		GeneratedAt: generatedAt,
	})
	playlist.SetID(id)
	playlist.SetRemoteID(remoteID)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}
