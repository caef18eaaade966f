// package services defines interface Library for interacting with music servers
//
// OpenSubsonic (Navidrome, Airsonic, Gonic, ...)
package services

import (
	"context"

	"github.com/desertthunder/daylist/internal/models"
)

// Library defines the interface for music servers that supply the candidate pool and receive generated playlists.
type Library interface {
	// Ping checks connectivity and credentials.
	// Returns an error if the server is unreachable or rejects the credentials.
	Ping(ctx context.Context) (*ServerInfo, error)

	// RandomSongs retrieves up to size random songs, optionally restricted to a genre.
	RandomSongs(ctx context.Context, size int, genre string) ([]models.Track, error)

	// GetPlaylists retrieves all playlists visible to the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.LibraryPlaylist, error)

	// CreatePlaylist creates a playlist holding trackIDs in order.
	CreatePlaylist(ctx context.Context, name string, trackIDs []string) (*models.LibraryPlaylist, error)

	// DeletePlaylist deletes a playlist by ID.
	DeletePlaylist(ctx context.Context, playlistID string) error

	// Name returns the name of the service (e.g., "Subsonic")
	Name() string
}

// ServerInfo describes the server reported by a ping.
type ServerInfo struct {
	APIVersion    string `json:"api_version"`
	Type          string `json:"type,omitempty"`
	ServerVersion string `json:"server_version,omitempty"`
	OpenSubsonic  bool   `json:"open_subsonic"`
}
