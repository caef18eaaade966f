package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/daylist/internal/models"
)

// TrackStats summarizes the cached pool.
type TrackStats struct {
	Count     int        `json:"count"`
	Favorites int        `json:"favorites"`
	Oldest    *time.Time `json:"oldest,omitempty"`
	Newest    *time.Time `json:"newest,omitempty"`
}

// TrackRepository persists the library pool fetched from the music server.
//
// Tracks are keyed by the server's song ID; caching the same song again refreshes its metadata.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Upsert inserts or refreshes tracks in a single transaction and returns the number written.
func (r *TrackRepository) Upsert(tracks []models.Track, cachedAt time.Time) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO tracks (id, title, artist, album, genres, bpm, duration, year, play_count, last_played, favorite, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			genres = excluded.genres,
			bpm = excluded.bpm,
			duration = excluded.duration,
			year = excluded.year,
			play_count = excluded.play_count,
			last_played = excluded.last_played,
			favorite = excluded.favorite,
			cached_at = excluded.cached_at
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}

		genres, err := json.Marshal(nonNil(t.Genres))
		if err != nil {
			return 0, fmt.Errorf("failed to encode genres for %s: %w", t.ID, err)
		}

		var playCount sql.NullInt64
		if t.PlayCount != nil {
			playCount = sql.NullInt64{Int64: int64(*t.PlayCount), Valid: true}
		}

		if _, err := stmt.Exec(t.ID, t.Title, t.Artist, t.Album, string(genres), t.Tempo, t.Duration, t.Year,
			playCount, t.LastPlayed, t.Favorite, cachedAt); err != nil {
			return 0, fmt.Errorf("failed to upsert track %s: %w", t.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit tracks: %w", err)
	}
	return written, nil
}

// Get retrieves a cached track by its song ID.
func (r *TrackRepository) Get(id string) (*models.Track, error) {
	query := `
		SELECT id, title, artist, album, genres, bpm, duration, year, play_count, last_played, favorite
		FROM tracks
		WHERE id = ?
	`

	track, err := scanTrack(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return track, nil
}

// List returns every cached track ordered by ID.
func (r *TrackRepository) List() ([]models.Track, error) {
	query := `
		SELECT id, title, artist, album, genres, bpm, duration, year, play_count, last_played, favorite
		FROM tracks
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// Count returns the number of cached tracks.
func (r *TrackRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tracks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return n, nil
}

// Stats reports the size and age of the cache.
func (r *TrackRepository) Stats() (*TrackStats, error) {
	var (
		stats          TrackStats
		oldest, newest sql.NullString
		favorites      sql.NullInt64
	)

	err := r.db.QueryRow("SELECT COUNT(*), SUM(favorite), MIN(cached_at), MAX(cached_at) FROM tracks").
		Scan(&stats.Count, &favorites, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("failed to read track stats: %w", err)
	}

	stats.Favorites = int(favorites.Int64)
	stats.Oldest = parseSQLiteTime(oldest)
	stats.Newest = parseSQLiteTime(newest)
	return &stats, nil
}

// Clear removes every cached track and returns how many were deleted.
func (r *TrackRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM tracks")
	if err != nil {
		return 0, fmt.Errorf("failed to clear tracks: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTrack scans a tracks row from a [sql.Row] or [sql.Rows] into a [models.Track]
func scanTrack(s scanner) (*models.Track, error) {
	var (
		t         models.Track
		genres    string
		playCount sql.NullInt64
	)

	err := s.Scan(&t.ID, &t.Title, &t.Artist, &t.Album, &genres, &t.Tempo, &t.Duration, &t.Year, &playCount, &t.LastPlayed, &t.Favorite)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	if err := json.Unmarshal([]byte(genres), &t.Genres); err != nil {
		return nil, fmt.Errorf("failed to decode genres for %s: %w", t.ID, err)
	}
	if len(t.Genres) == 0 {
		t.Genres = nil
	}
	if playCount.Valid {
		t.PlayCount = models.Plays(int(playCount.Int64))
	}

	return &t, nil
}

// sqliteTimeLayouts are the formats go-sqlite3 writes for time.Time values.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseSQLiteTime parses aggregate timestamps, which the driver returns as text.
func parseSQLiteTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, s.String); err == nil {
			return &t
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
