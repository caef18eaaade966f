package tasks

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/daylist/internal/curator"
	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/profile"
	"github.com/desertthunder/daylist/internal/services"
	"github.com/desertthunder/daylist/internal/shared"
	"golang.org/x/time/rate"
)

const defaultRateLimit = 5.0 // Requests per second

// TrackCacher persists fetched pools so later runs can generate offline.
type TrackCacher interface {
	CacheTracks(tracks []models.Track) (int, error)
	CachedTracks() ([]models.Track, error)
}

// RunRecorder stores generated playlists in the generation history.
type RunRecorder interface {
	Record(pl models.Playlist) (string, error)
	MarkPublished(id, remoteID string) error
}

// CurationEngine defines the operations of a daily curation run.
type CurationEngine interface {
	// Fetch pings the library, builds the candidate pool and removes non-songs.
	Fetch(ctx context.Context, progress chan<- ProgressUpdate, opts FetchOpts) (*FetchResult, error)

	// Generate builds one playlist per profile from the pool.
	Generate(profiles []profile.TasteProfile, pool []models.Track, now time.Time) []GenerateResult

	// Publish replaces each profile's previous playlists on the server with the generated ones.
	Publish(ctx context.Context, progress chan<- ProgressUpdate, playlists []models.Playlist, opts PublishOpts) (*PublishResult, error)

	// Run performs fetch, generate, record and publish in sequence.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error)
}

// FetchOpts configures [PlaylistEngine.Fetch].
type FetchOpts struct {
	PoolSize  int      // Target pool size (default 500)
	BatchSize int      // Songs per request
	Genres    []string // Per-genre batches; nil uses [services.DefaultPoolGenres]
	RateLimit float64  // Requests per second (default 5)
	Offline   bool     // Read the pool from the cache instead of the server
	NoCache   bool     // Skip writing the fetched pool to the cache
}

// FetchResult is the candidate pool after the non-song pre-filter.
type FetchResult struct {
	Pool      []models.Track
	Server    *services.ServerInfo // Nil when offline
	Requests  int
	Fetched   int // Songs received, duplicates included
	NonSongs  int // Tracks removed by the pre-filter
	Cached    int // Tracks written to the cache
	FromCache bool
}

// GenerateResult pairs a profile with its generation report.
type GenerateResult struct {
	Profile string
	Report  curator.Report
}

// RunOpts configures [PlaylistEngine.Run].
type RunOpts struct {
	Profiles []profile.TasteProfile
	Now      time.Time
	Fetch    FetchOpts
	Publish  PublishOpts
	Record   bool
}

// RunResult contains all data from a full curation run.
type RunResult struct {
	Fetch     *FetchResult
	Generated []GenerateResult
	RecordIDs []string // Parallel to Generated; empty strings when not recorded
	Publish   *PublishResult
}

// Playlists returns the generated playlists in profile order.
func (r *RunResult) Playlists() []models.Playlist {
	out := make([]models.Playlist, len(r.Generated))
	for i, g := range r.Generated {
		out[i] = g.Report.Playlist
	}
	return out
}

// PlaylistEngine implements CurationEngine against a music library.
type PlaylistEngine struct {
	library  services.Library
	cacher   TrackCacher
	recorder RunRecorder
	logger   *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine. cacher and recorder are optional.
func NewPlaylistEngine(library services.Library, cacher TrackCacher, recorder RunRecorder, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlaylistEngine{
		library:  library,
		cacher:   cacher,
		recorder: recorder,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Fetch builds the candidate pool, from the server or from the cache when offline.
func (e *PlaylistEngine) Fetch(ctx context.Context, progress chan<- ProgressUpdate, opts FetchOpts) (*FetchResult, error) {
	logger := shared.WithLogger(e.logger, "phase", FetchPool)

	var (
		res *FetchResult
		err error
	)
	if opts.Offline {
		res, err = e.fetchCached(progress)
	} else {
		res, err = e.fetchRemote(ctx, progress, opts, logger)
	}
	if err != nil {
		return nil, err
	}

	// title patterns are left to each profile's filter so that profiles can replace them
	songs, nonSongs := curator.FilterNonSongs(res.Pool, nil)
	res.Pool = songs
	res.NonSongs = nonSongs
	e.sendProgress(progress, filterUpdate(nonSongs, len(songs)))
	logger.Info("filtered pool", "non_songs", nonSongs, "songs", len(songs))

	for i, t := range songs[:min(3, len(songs))] {
		logger.Debug("sample track", "n", i+1, "title", t.Title, "artist", t.Artist,
			"genres", t.Genres, "bpm", t.Tempo, "plays", t.Plays(), "last_played", t.LastPlayed)
	}

	if len(songs) == 0 {
		return res, fmt.Errorf("%w: the pool has no songs after filtering", shared.ErrEmptyPool)
	}
	return res, nil
}

func (e *PlaylistEngine) fetchCached(progress chan<- ProgressUpdate) (*FetchResult, error) {
	if e.cacher == nil {
		return nil, fmt.Errorf("%w: track cache not configured", shared.ErrServiceUnavailable)
	}

	tracks, err := e.cacher.CachedTracks()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: the track cache is empty, run without --offline first", shared.ErrEmptyPool)
	}

	e.sendProgress(progress, cachedPoolUpdate(len(tracks)))
	return &FetchResult{Pool: tracks, Fetched: len(tracks), FromCache: true}, nil
}

func (e *PlaylistEngine) fetchRemote(ctx context.Context, progress chan<- ProgressUpdate, opts FetchOpts, logger *log.Logger) (*FetchResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, pingUpdate(e.library.Name()))
	info, err := e.library.Ping(ctx)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, connectedUpdate(info))

	genres := opts.Genres
	if genres == nil {
		genres = services.DefaultPoolGenres
	}
	size := cmp.Or(max(opts.PoolSize, 0), services.MaxRandomSongs)

	e.sendProgress(progress, fetchPoolUpdate(size))
	pool, err := services.FetchPool(ctx, e.library, services.PoolOptions{
		Size:      size,
		BatchSize: opts.BatchSize,
		Genres:    genres,
		Limiter:   rate.NewLimiter(rate.Limit(cmp.Or(opts.RateLimit, defaultRateLimit)), 1),
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	res := &FetchResult{
		Pool:     pool.Tracks,
		Server:   info,
		Requests: pool.Requests,
		Fetched:  pool.Fetched,
	}
	e.sendProgress(progress, fetchedPoolUpdate(res))
	logger.Info("fetched pool", "tracks", len(pool.Tracks), "requests", pool.Requests, "received", pool.Fetched)

	if e.cacher != nil && !opts.NoCache {
		n, err := e.cacher.CacheTracks(pool.Tracks)
		if err != nil {
			logger.Warn("failed to cache pool", "error", err)
		} else {
			res.Cached = n
		}
	}

	return res, nil
}

// Generate runs the curator for each profile. Profiles never affect one another.
func (e *PlaylistEngine) Generate(profiles []profile.TasteProfile, pool []models.Track, now time.Time) []GenerateResult {
	results := make([]GenerateResult, len(profiles))
	for i, p := range profiles {
		report := curator.GenerateReport(pool, p, now)
		results[i] = GenerateResult{Profile: p.Name, Report: report}

		shared.WithLogger(e.logger, "profile", p.Name).Debug("generated playlist",
			"name", report.Playlist.Name,
			"tracks", report.Playlist.Len(),
			"target", p.Target(),
			"eligible", report.Eligible,
			"quality", report.Playlist.Quality,
		)
	}
	return results
}

// ProfileGenres returns the sorted union of the profiles' accepted genres, or nil when none
// restricts genres.
func ProfileGenres(profiles []profile.TasteProfile) []string {
	var genres []string
	for _, p := range profiles {
		for _, g := range p.AcceptedGenres {
			if g = shared.NormalizeKey(g); g != "" && !slices.Contains(genres, g) {
				genres = append(genres, g)
			}
		}
	}
	slices.Sort(genres)
	return genres
}

// Run performs fetch, generate, record and publish.
//
// Publishing failures are reported per playlist in the result; Run returns an error only when a
// phase cannot proceed at all.
func (e *PlaylistEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error) {
	if len(opts.Profiles) == 0 {
		return nil, shared.ErrNoProfiles
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	fetchOpts := opts.Fetch
	if fetchOpts.Genres == nil {
		fetchOpts.Genres = ProfileGenres(opts.Profiles)
	}

	fetched, err := e.Fetch(ctx, progress, fetchOpts)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Fetch: fetched}
	result.Generated = e.Generate(opts.Profiles, fetched.Pool, now)
	for i, g := range result.Generated {
		e.sendProgress(progress, generateUpdate(i+1, len(result.Generated), g))
	}

	result.RecordIDs = make([]string, len(result.Generated))
	if opts.Record && e.recorder != nil {
		for i, g := range result.Generated {
			pl := g.Report.Playlist
			id, err := e.recorder.Record(pl)
			if err != nil {
				e.logger.Warn("failed to record playlist", "profile", g.Profile, "error", err)
				continue
			}
			result.RecordIDs[i] = id
			e.sendProgress(progress, recordUpdate(i+1, len(result.Generated), pl.Name))
		}
	}

	published, err := e.Publish(ctx, progress, result.Playlists(), opts.Publish)
	result.Publish = published
	if err != nil {
		return result, err
	}

	for i, outcome := range published.Outcomes {
		if outcome.Err != nil || outcome.RemoteID == "" || result.RecordIDs[i] == "" {
			continue
		}
		if err := e.recorder.MarkPublished(result.RecordIDs[i], outcome.RemoteID); err != nil {
			e.logger.Warn("failed to mark playlist published", "profile", outcome.Profile, "error", err)
		}
	}

	return result, nil
}
