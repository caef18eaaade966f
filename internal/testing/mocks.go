package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/services"
)

// MockLibrary is an in-memory [services.Library].
//
// RandomSongs returns the catalog on the first call and nothing afterwards so pool fetching
// terminates through its stale-batch rule. Created and deleted playlists are recorded.
type MockLibrary struct {
	mu sync.Mutex

	Catalog   []models.Track
	Playlists []models.LibraryPlaylist
	Info      *services.ServerInfo

	PingErr   error
	RandomErr error
	ListErr   error
	CreateErr map[string]error // Keyed by playlist name
	DeleteErr error

	Created []CreatedPlaylist
	Deleted []string
	served  bool
	nextID  int
}

// CreatedPlaylist records a CreatePlaylist call.
type CreatedPlaylist struct {
	Name     string
	TrackIDs []string
}

// NewMockLibrary returns a MockLibrary serving catalog.
func NewMockLibrary(catalog []models.Track, playlists ...models.LibraryPlaylist) *MockLibrary {
	return &MockLibrary{Catalog: catalog, Playlists: playlists}
}

func (m *MockLibrary) Name() string { return "Mock" }

func (m *MockLibrary) Ping(ctx context.Context) (*services.ServerInfo, error) {
	if m.PingErr != nil {
		return nil, m.PingErr
	}
	if m.Info != nil {
		return m.Info, nil
	}
	return &services.ServerInfo{APIVersion: "1.16.1", Type: "mock", ServerVersion: "0.0.1", OpenSubsonic: true}, nil
}

func (m *MockLibrary) RandomSongs(ctx context.Context, size int, genre string) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RandomErr != nil {
		return nil, m.RandomErr
	}
	if genre != "" {
		var out []models.Track
		for _, t := range m.Catalog {
			for _, g := range t.Genres {
				if strings.EqualFold(g, genre) {
					out = append(out, t)
					break
				}
			}
		}
		return out, nil
	}
	if m.served {
		return []models.Track{}, nil
	}
	m.served = true
	return append([]models.Track(nil), m.Catalog...), nil
}

func (m *MockLibrary) GetPlaylists(ctx context.Context) ([]models.LibraryPlaylist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.LibraryPlaylist(nil), m.Playlists...), nil
}

func (m *MockLibrary) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (*models.LibraryPlaylist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.CreateErr[name]; err != nil {
		return nil, err
	}

	m.nextID++
	pl := models.LibraryPlaylist{ID: fmt.Sprintf("pl-%d", m.nextID), Name: name, TrackCount: len(trackIDs)}
	m.Playlists = append(m.Playlists, pl)
	m.Created = append(m.Created, CreatedPlaylist{Name: name, TrackIDs: trackIDs})
	return &pl, nil
}

func (m *MockLibrary) DeletePlaylist(ctx context.Context, playlistID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, playlistID)
	for i, pl := range m.Playlists {
		if pl.ID == playlistID {
			m.Playlists = append(m.Playlists[:i], m.Playlists[i+1:]...)
			break
		}
	}
	return nil
}

// CreatedNames returns the names of created playlists in call order.
func (m *MockLibrary) CreatedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.Created))
	for i, c := range m.Created {
		names[i] = c.Name
	}
	return names
}

// MockCacher is an in-memory tasks.TrackCacher.
type MockCacher struct {
	Tracks   []models.Track
	CacheErr error
	ReadErr  error
}

func (m *MockCacher) CacheTracks(tracks []models.Track) (int, error) {
	if m.CacheErr != nil {
		return 0, m.CacheErr
	}
	m.Tracks = append([]models.Track(nil), tracks...)
	return len(tracks), nil
}

func (m *MockCacher) CachedTracks() ([]models.Track, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.Tracks, nil
}

// MockRecorder is an in-memory tasks.RunRecorder.
type MockRecorder struct {
	mu        sync.Mutex
	Recorded  []models.Playlist
	Published map[string]string
	RecordErr error
}

func (m *MockRecorder) Record(pl models.Playlist) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordErr != nil {
		return "", m.RecordErr
	}
	m.Recorded = append(m.Recorded, pl)
	return fmt.Sprintf("run-%d", len(m.Recorded)), nil
}

func (m *MockRecorder) MarkPublished(id, remoteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Published == nil {
		m.Published = map[string]string{}
	}
	m.Published[id] = remoteID
	return nil
}
