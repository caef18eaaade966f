// OpenSubsonic API [Library] implementation
//
// Works with any server speaking the Subsonic REST API (Navidrome, Airsonic-Advanced, Gonic, ...).
package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/shared"
	"github.com/go-resty/resty/v2"
)

const (
	defaultSubsonicClient  string = "daylist"
	defaultSubsonicVersion string = "1.16.1"

	// MaxRandomSongs is the largest size getRandomSongs accepts.
	MaxRandomSongs = 500
)

// Subsonic error codes. See https://opensubsonic.netlify.app/docs/responses/error/
const (
	codeWrongCredentials = 40
	codeTokenUnsupported = 41
	codeAuthUnsupported  = 42
	codeAuthConflict     = 43
	codeInvalidAPIKey    = 44
	codeNotAuthorized    = 50
	codeNotFound         = 70
)

type subsonicGenre struct {
	Name string `json:"name"`
}

// SubsonicSong represents a song ("child") in Subsonic responses.
type SubsonicSong struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Artist    string          `json:"artist"`
	Album     string          `json:"album"`
	Genre     string          `json:"genre,omitempty"`  // Legacy single genre
	Genres    []subsonicGenre `json:"genres,omitempty"` // OpenSubsonic extension
	BPM       int             `json:"bpm,omitempty"`
	Duration  int             `json:"duration,omitempty"` // Duration in seconds
	Year      int             `json:"year,omitempty"`
	PlayCount *int            `json:"playCount,omitempty"`
	Played    string          `json:"played,omitempty"`  // Last played timestamp
	Starred   string          `json:"starred,omitempty"` // Starred timestamp, present when favorited
	IsDir     bool            `json:"isDir,omitempty"`
}

// Track converts the song into the engine's track model.
func (s SubsonicSong) Track() models.Track {
	genres := make([]string, 0, len(s.Genres)+1)
	seen := make(map[string]bool, len(s.Genres)+1)
	add := func(g string) {
		key := shared.NormalizeKey(g)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		genres = append(genres, strings.TrimSpace(g))
	}
	add(s.Genre)
	for _, g := range s.Genres {
		add(g.Name)
	}

	return models.Track{
		ID:         s.ID,
		Title:      s.Title,
		Artist:     s.Artist,
		Album:      s.Album,
		Genres:     genres,
		Tempo:      s.BPM,
		Duration:   s.Duration,
		Year:       s.Year,
		PlayCount:  s.PlayCount,
		LastPlayed: s.Played,
		Favorite:   s.Starred != "",
	}
}

// SubsonicPlaylist represents a playlist in Subsonic responses.
type SubsonicPlaylist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SongCount int    `json:"songCount"`
	Duration  int    `json:"duration"`
	Owner     string `json:"owner,omitempty"`
	Public    bool   `json:"public"`
	Created   string `json:"created,omitempty"`
	Changed   string `json:"changed,omitempty"`
}

func (p SubsonicPlaylist) libraryPlaylist() models.LibraryPlaylist {
	return models.LibraryPlaylist{
		ID:         p.ID,
		Name:       p.Name,
		TrackCount: p.SongCount,
		Duration:   p.Duration,
		Owner:      p.Owner,
		Public:     p.Public,
	}
}

type subsonicError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *subsonicError) err(endpoint string) error {
	if e == nil {
		return fmt.Errorf("%w: %s: status failed", shared.ErrAPIRequest, endpoint)
	}

	sentinel := shared.ErrAPIRequest
	switch e.Code {
	case codeWrongCredentials, codeTokenUnsupported, codeAuthUnsupported, codeAuthConflict, codeInvalidAPIKey, codeNotAuthorized:
		sentinel = shared.ErrAuthFailed
	case codeNotFound:
		sentinel = shared.ErrPlaylistNotFound
	}
	return fmt.Errorf("%w: %s: %s (code %d)", sentinel, endpoint, e.Message, e.Code)
}

type subsonicResponse struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	Type          string         `json:"type,omitempty"`
	ServerVersion string         `json:"serverVersion,omitempty"`
	OpenSubsonic  bool           `json:"openSubsonic,omitempty"`
	Error         *subsonicError `json:"error,omitempty"`
	RandomSongs   *struct {
		Song []SubsonicSong `json:"song"`
	} `json:"randomSongs,omitempty"`
	Playlists *struct {
		Playlist []SubsonicPlaylist `json:"playlist"`
	} `json:"playlists,omitempty"`
	Playlist *SubsonicPlaylist `json:"playlist,omitempty"`
}

type subsonicEnvelope struct {
	Response subsonicResponse `json:"subsonic-response"`
}

// SubsonicService implements the [Library] interface for OpenSubsonic servers.
type SubsonicService struct {
	client *resty.Client
	config shared.SubsonicConfig
	salt   func() string
}

// NewSubsonicService creates a new Subsonic service instance.
//
// A nil httpClient uses resty's default transport.
func NewSubsonicService(config shared.SubsonicConfig, httpClient *http.Client) *SubsonicService {
	if config.Client == "" {
		config.Client = defaultSubsonicClient
	}
	if config.APIVersion == "" {
		config.APIVersion = defaultSubsonicVersion
	}

	var client *resty.Client
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	} else {
		client = resty.New()
	}

	client.
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(250 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &SubsonicService{client: client, config: config, salt: shared.GenerateSalt}
}

// Name returns the service name.
func (s *SubsonicService) Name() string {
	return "Subsonic"
}

// authParams builds the credential query parameters sent with every request.
func (s *SubsonicService) authParams() url.Values {
	params := url.Values{}
	params.Set("u", s.config.Username)

	if s.config.LegacyAuth {
		params.Set("p", "enc:"+hex.EncodeToString([]byte(s.config.Password)))
	} else {
		salt := s.salt()
		sum := md5.Sum([]byte(s.config.Password + salt))
		params.Set("t", hex.EncodeToString(sum[:]))
		params.Set("s", salt)
	}

	params.Set("v", s.config.APIVersion)
	params.Set("c", s.config.Client)
	params.Set("f", "json")
	return params
}

// call performs a request to /rest/{endpoint} and unwraps the response envelope.
//
// A non-nil form is sent as a POST body, which keeps long songId lists out of the URL.
func (s *SubsonicService) call(ctx context.Context, endpoint string, params, form url.Values) (*subsonicResponse, error) {
	query := s.authParams()
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	req := s.client.R().SetContext(ctx).SetQueryParamsFromValues(query)

	var (
		resp *resty.Response
		err  error
	)
	if form != nil {
		resp, err = req.SetFormDataFromValues(form).Post("/rest/" + endpoint)
	} else {
		resp, err = req.Get("/rest/" + endpoint)
	}
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrTimeout, endpoint, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrServiceUnavailable, endpoint, err)
	}

	switch status := resp.StatusCode(); {
	case status >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %s: status %d", shared.ErrServiceUnavailable, endpoint, status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s: status %d", shared.ErrAuthFailed, endpoint, status)
	case resp.IsError():
		return nil, fmt.Errorf("%w: %s: status %d", shared.ErrAPIRequest, endpoint, status)
	}

	var env subsonicEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to decode response: %v", shared.ErrAPIRequest, endpoint, err)
	}

	if env.Response.Status != "ok" {
		return nil, env.Response.Error.err(endpoint)
	}
	return &env.Response, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
}

// Ping checks connectivity and credentials.
//
// Calls GET /rest/ping.
func (s *SubsonicService) Ping(ctx context.Context) (*ServerInfo, error) {
	resp, err := s.call(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}

	return &ServerInfo{
		APIVersion:    resp.Version,
		Type:          resp.Type,
		ServerVersion: resp.ServerVersion,
		OpenSubsonic:  resp.OpenSubsonic,
	}, nil
}

// RandomSongs retrieves up to size random songs, clamped to [1, MaxRandomSongs].
//
// Calls GET /rest/getRandomSongs with an optional genre.
func (s *SubsonicService) RandomSongs(ctx context.Context, size int, genre string) ([]models.Track, error) {
	params := url.Values{}
	params.Set("size", fmt.Sprint(max(1, min(size, MaxRandomSongs))))
	if genre != "" {
		params.Set("genre", genre)
	}

	resp, err := s.call(ctx, "getRandomSongs", params, nil)
	if err != nil {
		return nil, err
	}
	if resp.RandomSongs == nil {
		return []models.Track{}, nil
	}

	tracks := make([]models.Track, 0, len(resp.RandomSongs.Song))
	for _, song := range resp.RandomSongs.Song {
		if song.ID == "" || song.IsDir {
			continue
		}
		tracks = append(tracks, song.Track())
	}
	return tracks, nil
}

// GetPlaylists retrieves all playlists for the authenticated user.
//
// Calls GET /rest/getPlaylists.
func (s *SubsonicService) GetPlaylists(ctx context.Context) ([]models.LibraryPlaylist, error) {
	resp, err := s.call(ctx, "getPlaylists", nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.Playlists == nil {
		return []models.LibraryPlaylist{}, nil
	}

	playlists := make([]models.LibraryPlaylist, len(resp.Playlists.Playlist))
	for i, p := range resp.Playlists.Playlist {
		playlists[i] = p.libraryPlaylist()
	}
	return playlists, nil
}

// CreatePlaylist creates a playlist holding trackIDs in order.
//
// Calls POST /rest/createPlaylist with name and repeated songId form values.
func (s *SubsonicService) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (*models.LibraryPlaylist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	form := url.Values{}
	form.Set("name", name)
	for _, id := range trackIDs {
		form.Add("songId", id)
	}

	resp, err := s.call(ctx, "createPlaylist", nil, form)
	if err != nil {
		return nil, err
	}
	if resp.Playlist == nil {
		return nil, fmt.Errorf("%w: createPlaylist: no playlist returned", shared.ErrAPIRequest)
	}

	created := resp.Playlist.libraryPlaylist()
	return &created, nil
}

// DeletePlaylist deletes a playlist by ID.
//
// Calls GET /rest/deletePlaylist.
func (s *SubsonicService) DeletePlaylist(ctx context.Context, playlistID string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("id", playlistID)

	_, err := s.call(ctx, "deletePlaylist", params, nil)
	return err
}
