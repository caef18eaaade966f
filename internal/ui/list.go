package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/shared"
	"github.com/desertthunder/daylist/internal/tasks"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps a generated playlist to implement [list.Item].
type playlistItem struct {
	result tasks.GenerateResult
}

func (i playlistItem) FilterValue() string { return i.result.Report.Playlist.Name }
func (i playlistItem) Title() string       { return i.result.Report.Playlist.Name }
func (i playlistItem) Description() string {
	pl := i.result.Report.Playlist
	return fmt.Sprintf("%s • %d tracks • %s • quality %.2f • %d eligible",
		i.result.Profile, pl.Len(), shared.FormatDuration(pl.Metrics.TotalDuration), pl.Quality, i.result.Report.Eligible)
}

// trackItem wraps a placed [models.PlaylistTrack] to implement [list.Item].
type trackItem struct {
	position int
	track    models.PlaylistTrack
}

func (i trackItem) FilterValue() string { return i.track.Track.Title }
func (i trackItem) Title() string {
	return fmt.Sprintf("%d. %s - %s", i.position, i.track.Track.Artist, i.track.Track.Title)
}
func (i trackItem) Description() string {
	t := i.track.Track
	desc := fmt.Sprintf("transition %.2f • %+.3f", i.track.Transition, i.track.Contribution)
	if t.HasTempo() {
		desc = fmt.Sprintf("%d bpm • %s", t.Tempo, desc)
	}
	if i.track.Reason == models.PickFallback {
		desc += " • fallback"
	}
	return desc
}
