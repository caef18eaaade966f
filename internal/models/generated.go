package models

import (
	"fmt"
	"time"
)

// GeneratedPlaylist is a persisted record of one generated playlist.
//
// It stores the summary of the run plus the ordered tracks so a past playlist can be
// inspected or republished without re-running the engine.
type GeneratedPlaylist struct {
	id          string
	sequence    int
	profile     string
	name        string
	quality     float64
	duration    int
	remoteID    string
	tracks      []PlaylistTrack
	generatedAt time.Time
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewGeneratedPlaylist builds a persistable record from a generated [Playlist].
func NewGeneratedPlaylist(sequence int, pl Playlist) *GeneratedPlaylist {
	now := time.Now()
	return &GeneratedPlaylist{
		sequence:    sequence,
		profile:     pl.Profile,
		name:        pl.Name,
		quality:     pl.Quality,
		duration:    pl.Metrics.TotalDuration,
		tracks:      pl.Tracks,
		generatedAt: pl.GeneratedAt,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (g *GeneratedPlaylist) ID() string              { return g.id }
func (g *GeneratedPlaylist) Sequence() int           { return g.sequence }
func (g *GeneratedPlaylist) Profile() string         { return g.profile }
func (g *GeneratedPlaylist) Name() string            { return g.name }
func (g *GeneratedPlaylist) Quality() float64        { return g.quality }
func (g *GeneratedPlaylist) Duration() int           { return g.duration }
func (g *GeneratedPlaylist) RemoteID() string        { return g.remoteID }
func (g *GeneratedPlaylist) Tracks() []PlaylistTrack { return g.tracks }
func (g *GeneratedPlaylist) TrackCount() int         { return len(g.tracks) }
func (g *GeneratedPlaylist) GeneratedAt() time.Time  { return g.generatedAt }
func (g *GeneratedPlaylist) CreatedAt() time.Time    { return g.createdAt }
func (g *GeneratedPlaylist) UpdatedAt() time.Time    { return g.updatedAt }
func (g *GeneratedPlaylist) DeletedAt() *time.Time   { return g.deletedAt }

func (g *GeneratedPlaylist) SetID(id string)             { g.id = id }
func (g *GeneratedPlaylist) SetSequence(seq int)         { g.sequence = seq }
func (g *GeneratedPlaylist) SetRemoteID(id string)       { g.remoteID = id }
func (g *GeneratedPlaylist) SetTracks(t []PlaylistTrack) { g.tracks = t }
func (g *GeneratedPlaylist) SetCreatedAt(t time.Time)    { g.createdAt = t }
func (g *GeneratedPlaylist) SetUpdatedAt(t time.Time)    { g.updatedAt = t }
func (g *GeneratedPlaylist) SetDeletedAt(t *time.Time)   { g.deletedAt = t }
func (g *GeneratedPlaylist) SetGeneratedAt(t time.Time)  { g.generatedAt = t }
func (g *GeneratedPlaylist) SetSummary(quality float64, duration int) {
	g.quality = quality
	g.duration = duration
}

// Playlist converts the record back into a [Playlist]. Metrics are not persisted and are left zero.
func (g *GeneratedPlaylist) Playlist() Playlist {
	return Playlist{
		Name:        g.name,
		Profile:     g.profile,
		Tracks:      g.tracks,
		Quality:     g.quality,
		Metrics:     PlaylistMetrics{TotalDuration: g.duration, TrackCount: len(g.tracks)},
		GeneratedAt: g.generatedAt,
	}
}

// Validate checks required fields.
func (g *GeneratedPlaylist) Validate() error {
	if g.profile == "" {
		return fmt.Errorf("profile is required")
	}
	if g.name == "" {
		return fmt.Errorf("name is required")
	}
	if g.quality < 0 || g.quality > 1 {
		return fmt.Errorf("quality must be within [0, 1], got %f", g.quality)
	}
	return nil
}
