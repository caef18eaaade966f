package repositories

import (
	"fmt"
	"time"

	"github.com/desertthunder/daylist/internal/models"
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Every fetched pool is upserted so a later run can generate from the cache when the server is unreachable.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTracks upserts the pool and returns the number of tracks written.
func (a *TrackCacheAdapter) CacheTracks(tracks []models.Track) (int, error) {
	n, err := a.repo.Upsert(tracks, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to cache tracks: %w", err)
	}
	return n, nil
}

// CachedTracks returns the cached pool ordered by ID.
func (a *TrackCacheAdapter) CachedTracks() ([]models.Track, error) {
	return a.repo.List()
}

// HistoryRecorder implements tasks.RunRecorder using GeneratedPlaylistRepository.
type HistoryRecorder struct {
	repo *GeneratedPlaylistRepository
}

// NewHistoryRecorder creates a new HistoryRecorder with the given repository
func NewHistoryRecorder(repo *GeneratedPlaylistRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// Record stores a generated playlist and returns its history ID.
func (h *HistoryRecorder) Record(pl models.Playlist) (string, error) {
	record := models.NewGeneratedPlaylist(0, pl)
	if err := h.repo.Create(record); err != nil {
		return "", fmt.Errorf("failed to record playlist %q: %w", pl.Name, err)
	}
	return record.ID(), nil
}

// MarkPublished stores the server-side playlist ID for a recorded playlist.
func (h *HistoryRecorder) MarkPublished(id, remoteID string) error {
	record, err := h.repo.Get(id)
	if err != nil {
		return err
	}

	record.SetRemoteID(remoteID)
	return h.repo.Update(record)
}
