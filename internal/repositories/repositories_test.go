package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleTracks() []models.Track {
	return []models.Track{
		{ID: "b", Title: "Blue in Green", Artist: "Miles Davis", Album: "Kind of Blue", Genres: []string{"jazz", "modal"},
			Tempo: 60, Duration: 337, Year: 1959, PlayCount: models.Plays(12), LastPlayed: "2025-08-01T20:00:00Z", Favorite: true},
		{ID: "a", Title: "Archangel", Artist: "Burial", Duration: 238},
		{ID: "c", Title: "Windowlicker", Artist: "Aphex Twin", Genres: []string{"idm"}, Tempo: 126, Year: 1999, PlayCount: models.Plays(0)},
	}
}

func samplePlaylist() models.Playlist {
	tracks := sampleTracks()
	return models.Playlist{
		Name:    "morning sunday chill jazz",
		Profile: "morning",
		Quality: 0.82,
		Tracks: []models.PlaylistTrack{
			{Track: tracks[0], Transition: 0.5, Contribution: 0.9, Reason: models.PickBest},
			{Track: tracks[2], Transition: 0.4, Contribution: 0.7, Reason: models.PickFallback},
		},
		Metrics:     models.PlaylistMetrics{TotalDuration: 337, TrackCount: 2},
		GeneratedAt: time.Date(2025, 8, 3, 7, 0, 0, 0, time.UTC),
	}
}

func TestTrackRepository(t *testing.T) {
	cachedAt := time.Date(2025, 8, 3, 12, 0, 0, 0, time.UTC)

	t.Run("UpsertAndList", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		n, err := repo.Upsert(sampleTracks(), cachedAt)
		if err != nil {
			t.Fatalf("failed to upsert tracks: %v", err)
		}
		if n != 3 {
			t.Errorf("expected 3 tracks written, got %d", n)
		}

		tracks, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}

		for i, id := range []string{"a", "b", "c"} {
			if tracks[i].ID != id {
				t.Errorf("expected track %d to be %s, got %s", i, id, tracks[i].ID)
			}
		}

		blue := tracks[1]
		if blue.Tempo != 60 || blue.Year != 1959 || !blue.Favorite {
			t.Errorf("metadata not preserved: %+v", blue)
		}
		if len(blue.Genres) != 2 || blue.Genres[0] != "jazz" || blue.Genres[1] != "modal" {
			t.Errorf("expected genres [jazz modal], got %v", blue.Genres)
		}
		if blue.PlayCount == nil || *blue.PlayCount != 12 {
			t.Errorf("expected play count 12, got %v", blue.PlayCount)
		}
		if blue.LastPlayed != "2025-08-01T20:00:00Z" {
			t.Errorf("expected last played to round-trip, got %q", blue.LastPlayed)
		}
	})

	t.Run("UnknownPlayCountStaysNil", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if _, err := repo.Upsert(sampleTracks(), cachedAt); err != nil {
			t.Fatalf("failed to upsert tracks: %v", err)
		}

		unknown, err := repo.Get("a")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if unknown.PlayCount != nil {
			t.Errorf("expected nil play count, got %d", *unknown.PlayCount)
		}
		if unknown.Genres != nil {
			t.Errorf("expected nil genres, got %v", unknown.Genres)
		}

		zero, err := repo.Get("c")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if zero.PlayCount == nil || *zero.PlayCount != 0 {
			t.Errorf("expected play count 0, got %v", zero.PlayCount)
		}
	})

	t.Run("UpsertRefreshesExisting", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if _, err := repo.Upsert(sampleTracks(), cachedAt); err != nil {
			t.Fatalf("failed to upsert tracks: %v", err)
		}

		updated := models.Track{ID: "a", Title: "Archangel", Artist: "Burial", PlayCount: models.Plays(4)}
		if _, err := repo.Upsert([]models.Track{updated}, cachedAt.Add(time.Hour)); err != nil {
			t.Fatalf("failed to upsert track: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count tracks: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 tracks after refresh, got %d", count)
		}

		track, err := repo.Get("a")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if track.PlayCount == nil || *track.PlayCount != 4 {
			t.Errorf("expected refreshed play count 4, got %v", track.PlayCount)
		}
	})

	t.Run("UpsertSkipsEmptyID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		n, err := repo.Upsert([]models.Track{{Title: "No ID"}}, cachedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 tracks written, got %d", n)
		}
	})

	t.Run("Stats", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)

		empty, err := repo.Stats()
		if err != nil {
			t.Fatalf("failed to read stats: %v", err)
		}
		if empty.Count != 0 || empty.Oldest != nil || empty.Newest != nil {
			t.Errorf("expected empty stats, got %+v", empty)
		}

		if _, err := repo.Upsert(sampleTracks()[:2], cachedAt); err != nil {
			t.Fatalf("failed to upsert tracks: %v", err)
		}
		if _, err := repo.Upsert(sampleTracks()[2:], cachedAt.Add(2*time.Hour)); err != nil {
			t.Fatalf("failed to upsert tracks: %v", err)
		}

		stats, err := repo.Stats()
		if err != nil {
			t.Fatalf("failed to read stats: %v", err)
		}
		if stats.Count != 3 {
			t.Errorf("expected 3 tracks, got %d", stats.Count)
		}
		if stats.Favorites != 1 {
			t.Errorf("expected 1 favorite, got %d", stats.Favorites)
		}
		if stats.Oldest == nil || !stats.Oldest.Equal(cachedAt) {
			t.Errorf("expected oldest %v, got %v", cachedAt, stats.Oldest)
		}
		if stats.Newest == nil || !stats.Newest.Equal(cachedAt.Add(2*time.Hour)) {
			t.Errorf("expected newest %v, got %v", cachedAt.Add(2*time.Hour), stats.Newest)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if _, err := repo.Upsert(sampleTracks(), cachedAt); err != nil {
			t.Fatalf("failed to upsert tracks: %v", err)
		}

		removed, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear tracks: %v", err)
		}
		if removed != 3 {
			t.Errorf("expected 3 removed, got %d", removed)
		}

		tracks, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected empty cache, got %d tracks", len(tracks))
		}
	})
}

func TestGeneratedPlaylistRepository(t *testing.T) {
	t.Run("CreateAndGet", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGeneratedPlaylistRepository(db)
		record := models.NewGeneratedPlaylist(0, samplePlaylist())

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create generated playlist: %v", err)
		}
		if record.ID() == "" {
			t.Error("ID should be set after creation")
		}
		if record.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", record.Sequence())
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get generated playlist: %v", err)
		}

		if retrieved.Name() != "morning sunday chill jazz" || retrieved.Profile() != "morning" {
			t.Errorf("unexpected header: %s / %s", retrieved.Name(), retrieved.Profile())
		}
		if retrieved.Quality() != 0.82 || retrieved.Duration() != 337 {
			t.Errorf("unexpected summary: quality %f duration %d", retrieved.Quality(), retrieved.Duration())
		}
		if !retrieved.GeneratedAt().Equal(samplePlaylist().GeneratedAt) {
			t.Errorf("expected generated at %v, got %v", samplePlaylist().GeneratedAt, retrieved.GeneratedAt())
		}

		tracks := retrieved.Tracks()
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].Track.ID != "b" || tracks[1].Track.ID != "c" {
			t.Errorf("expected order [b c], got [%s %s]", tracks[0].Track.ID, tracks[1].Track.ID)
		}
		if tracks[1].Reason != models.PickFallback || tracks[1].Transition != 0.4 || tracks[1].Contribution != 0.7 {
			t.Errorf("diagnostics not preserved: %+v", tracks[1])
		}
		if tracks[0].Track.Tempo != 60 || tracks[0].Track.Album != "Kind of Blue" {
			t.Errorf("track metadata not preserved: %+v", tracks[0].Track)
		}
	})

	t.Run("GetBySequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGeneratedPlaylistRepository(db)
		for range 3 {
			if err := repo.Create(models.NewGeneratedPlaylist(0, samplePlaylist())); err != nil {
				t.Fatalf("failed to create generated playlist: %v", err)
			}
		}

		record, err := repo.GetBySequence(2)
		if err != nil {
			t.Fatalf("failed to get by sequence: %v", err)
		}
		if record.Sequence() != 2 {
			t.Errorf("expected sequence 2, got %d", record.Sequence())
		}
		if record.TrackCount() != 2 {
			t.Errorf("expected 2 tracks, got %d", record.TrackCount())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGeneratedPlaylistRepository(db)
		record := models.NewGeneratedPlaylist(0, samplePlaylist())
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create generated playlist: %v", err)
		}

		record.SetRemoteID("pl-42")
		if err := repo.Update(record); err != nil {
			t.Fatalf("failed to update generated playlist: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get generated playlist: %v", err)
		}
		if retrieved.RemoteID() != "pl-42" {
			t.Errorf("expected remote ID pl-42, got %q", retrieved.RemoteID())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGeneratedPlaylistRepository(db)
		record := models.NewGeneratedPlaylist(0, samplePlaylist())
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create generated playlist: %v", err)
		}

		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("failed to delete generated playlist: %v", err)
		}

		if _, err := repo.Get(record.ID()); err == nil {
			t.Error("expected error getting deleted playlist")
		}

		var deletedAt sql.NullTime
		if err := db.QueryRow("SELECT deleted_at FROM generated_playlists WHERE id = ?", record.ID()).Scan(&deletedAt); err != nil {
			t.Fatalf("failed to query deleted_at: %v", err)
		}
		if !deletedAt.Valid {
			t.Error("deleted_at should be set after soft delete")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGeneratedPlaylistRepository(db)
		for _, profile := range []string{"morning", "evening", "morning"} {
			pl := samplePlaylist()
			pl.Profile = profile
			if err := repo.Create(models.NewGeneratedPlaylist(0, pl)); err != nil {
				t.Fatalf("failed to create generated playlist: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 records, got %d", len(all))
		}
		if all[0].Sequence() != 3 || all[2].Sequence() != 1 {
			t.Errorf("expected newest first, got sequences %d..%d", all[0].Sequence(), all[2].Sequence())
		}
		if all[0].TrackCount() != 2 {
			t.Errorf("expected tracks loaded, got %d", all[0].TrackCount())
		}

		morning, err := repo.List(map[string]any{"profile": "morning"})
		if err != nil {
			t.Fatalf("failed to list by profile: %v", err)
		}
		if len(morning) != 2 {
			t.Errorf("expected 2 morning records, got %d", len(morning))
		}

		limited, err := repo.List(map[string]any{"limit": 1})
		if err != nil {
			t.Fatalf("failed to list with limit: %v", err)
		}
		if len(limited) != 1 || limited[0].Sequence() != 3 {
			t.Errorf("expected only the newest record, got %d records", len(limited))
		}

		if err := repo.Delete(all[0].ID()); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		remaining, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(remaining) != 2 {
			t.Errorf("expected deleted record to be excluded, got %d", len(remaining))
		}
	})
}

func TestTrackCacheAdapter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	adapter := NewTrackCacheAdapter(NewTrackRepository(db))

	n, err := adapter.CacheTracks(sampleTracks())
	if err != nil {
		t.Fatalf("failed to cache tracks: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 cached, got %d", n)
	}

	if _, err := adapter.CacheTracks(sampleTracks()); err != nil {
		t.Fatalf("re-caching should not fail: %v", err)
	}

	cached, err := adapter.CachedTracks()
	if err != nil {
		t.Fatalf("failed to read cache: %v", err)
	}
	if len(cached) != 3 {
		t.Errorf("expected 3 cached tracks, got %d", len(cached))
	}
}

func TestHistoryRecorder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewGeneratedPlaylistRepository(db)
	recorder := NewHistoryRecorder(repo)

	id, err := recorder.Record(samplePlaylist())
	if err != nil {
		t.Fatalf("failed to record playlist: %v", err)
	}

	if err := recorder.MarkPublished(id, "remote-7"); err != nil {
		t.Fatalf("failed to mark published: %v", err)
	}

	record, err := repo.Get(id)
	if err != nil {
		t.Fatalf("failed to get record: %v", err)
	}
	if record.RemoteID() != "remote-7" {
		t.Errorf("expected remote ID remote-7, got %q", record.RemoteID())
	}
	if record.Sequence() != 1 {
		t.Errorf("expected sequence 1, got %d", record.Sequence())
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seq1, err := NextSequence(db, "generated_playlists")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}
	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	seq2, err := NextSequence(db, "generated_playlists")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}
	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}

	if _, err := NextSequence(db, "tracks"); err == nil {
		t.Error("expected error for a table without a sequence")
	}
}
