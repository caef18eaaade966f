package tasks

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/daylist/internal/formatter"
	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers = 2
	maxWorkers     = 10
)

// PublishOpts contains configuration for publishing generated playlists.
type PublishOpts struct {
	Workers      int              // Concurrent workers, 1-10 (default: 2)
	RateLimit    float64          // Requests per second (default: 5)
	DryRun       bool             // Skip all server writes
	KeepExisting bool             // Skip deleting previous playlists of the same profile
	ExportDir    string           // When set, each playlist is also written to this directory
	ExportFormat formatter.Format // Format of exported files (default: text)
}

// PublishOutcome is the result of publishing a single playlist.
type PublishOutcome struct {
	Profile    string   `json:"profile"`
	Name       string   `json:"name"`
	TrackCount int      `json:"track_count"`
	RemoteID   string   `json:"remote_id,omitempty"`
	Deleted    []string `json:"deleted,omitempty"` // Names of replaced playlists
	File       string   `json:"file,omitempty"`
	DryRun     bool     `json:"dry_run,omitempty"`
	Err        error    `json:"-"`
	Error      string   `json:"error,omitempty"`
}

// PublishResult contains per-playlist outcomes in input order.
type PublishResult struct {
	Total        int              `json:"total"`
	Published    int              `json:"published"`
	Failed       int              `json:"failed"`
	Outcomes     []PublishOutcome `json:"outcomes"`
	ManifestPath string           `json:"-"`
	FinishedAt   time.Time        `json:"finished_at"`
}

// Succeeded reports whether at least one playlist was published, or there was nothing to publish.
func (r *PublishResult) Succeeded() bool {
	return r.Total == 0 || r.Published > 0
}

type publishJob struct {
	index    int
	playlist models.Playlist
	stale    []models.LibraryPlaylist
}

type publishDone struct {
	index   int
	outcome PublishOutcome
}

// Publish replaces each profile's previous playlists with the generated ones.
//
// Existing server playlists whose name starts with a profile's base name (case-insensitive) are deleted
// before the new playlist is created. When base names overlap, an existing playlist belongs to the longest
// matching base. Workers share one rate limiter; a failure affects only its own playlist.
func (e *PlaylistEngine) Publish(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	playlists []models.Playlist,
	opts PublishOpts,
) (*PublishResult, error) {
	if e.library == nil && !opts.DryRun {
		return nil, fmt.Errorf("%w: library not initialized", shared.ErrServiceUnavailable)
	}

	opts.Workers = min(max(cmp.Or(opts.Workers, defaultWorkers), 1), maxWorkers)
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = formatter.Text
	}

	if opts.ExportDir != "" {
		if err := os.MkdirAll(opts.ExportDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	result := &PublishResult{
		Total:    len(playlists),
		Outcomes: make([]PublishOutcome, len(playlists)),
	}

	var stale map[int][]models.LibraryPlaylist
	if !opts.DryRun && !opts.KeepExisting {
		existing, err := e.library.GetPlaylists(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list existing playlists: %w", err)
		}
		stale = claimStale(playlists, existing)
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan publishJob, len(playlists))
	results := make(chan publishDone, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go e.publishWorker(ctx, &wg, limiter, prog, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, pl := range playlists {
			select {
			case <-ctx.Done():
				return
			case jobs <- publishJob{index: i, playlist: pl, stale: stale[i]}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	received := make([]bool, len(playlists))
	completed := 0
	for done := range results {
		completed++
		received[done.index] = true
		result.Outcomes[done.index] = done.outcome

		if done.outcome.Err != nil {
			result.Failed++
			e.sendProgress(prog, publishFailedUpdate(completed, len(playlists), done.outcome))
			e.logger.Error("failed to publish playlist", "profile", done.outcome.Profile, "error", done.outcome.Err)
		} else {
			result.Published++
			e.sendProgress(prog, publishedUpdate(completed, len(playlists), done.outcome))
		}
	}

	for i, ok := range received {
		if ok {
			continue
		}
		err := cmp.Or(ctx.Err(), context.Canceled)
		result.Outcomes[i] = newOutcome(playlists[i])
		result.Outcomes[i].setErr(err)
		result.Failed++
	}
	result.FinishedAt = time.Now()

	if opts.ExportDir != "" {
		manifestPath := filepath.Join(opts.ExportDir, "manifest.json")
		if err := formatter.WriteManifest(result, manifestPath); err != nil {
			return result, fmt.Errorf("publish completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = manifestPath
	}

	return result, nil
}

// publishWorker publishes playlists from the jobs channel.
func (e *PlaylistEngine) publishWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	prog chan<- ProgressUpdate,
	jobs <-chan publishJob,
	results chan<- publishDone,
	opts PublishOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- publishDone{index: job.index, outcome: e.publishOne(ctx, limiter, prog, job, opts)}
	}
}

// publishOne exports, cleans up and creates a single playlist.
func (e *PlaylistEngine) publishOne(
	ctx context.Context,
	limiter *rate.Limiter,
	prog chan<- ProgressUpdate,
	j publishJob,
	opts PublishOpts,
) PublishOutcome {
	pl := j.playlist
	outcome := newOutcome(pl)
	logger := e.logger.With("profile", pl.Profile)

	if opts.ExportDir != "" {
		path, err := formatter.WriteExport(pl, opts.ExportFormat, opts.ExportDir)
		if err != nil {
			outcome.setErr(fmt.Errorf("export failed: %w", err))
			return outcome
		}
		outcome.File = path
	}

	if pl.Len() == 0 {
		outcome.setErr(fmt.Errorf("%w: no tracks satisfied the profile", shared.ErrEmptyPool))
		return outcome
	}

	if opts.DryRun {
		outcome.DryRun = true
		return outcome
	}

	for i, old := range j.stale {
		if err := limiter.Wait(ctx); err != nil {
			outcome.setErr(err)
			return outcome
		}
		if err := e.library.DeletePlaylist(ctx, old.ID); err != nil {
			logger.Warn("failed to delete existing playlist", "name", old.Name, "id", old.ID, "error", err)
			continue
		}
		outcome.Deleted = append(outcome.Deleted, old.Name)
		e.sendProgress(prog, cleanupUpdate(i+1, len(j.stale), old))
	}

	if err := limiter.Wait(ctx); err != nil {
		outcome.setErr(err)
		return outcome
	}

	created, err := e.library.CreatePlaylist(ctx, pl.Name, pl.TrackIDs())
	if err != nil {
		outcome.setErr(err)
		return outcome
	}

	outcome.RemoteID = created.ID
	logger.Info("published playlist", "name", pl.Name, "id", created.ID, "tracks", pl.Len(), "replaced", len(outcome.Deleted))
	return outcome
}

func newOutcome(pl models.Playlist) PublishOutcome {
	return PublishOutcome{Profile: pl.Profile, Name: pl.Name, TrackCount: pl.Len()}
}

func (o *PublishOutcome) setErr(err error) {
	o.Err = err
	o.Error = err.Error()
}

// claimStale maps each playlist index to the existing server playlists it replaces.
func claimStale(playlists []models.Playlist, existing []models.LibraryPlaylist) map[int][]models.LibraryPlaylist {
	bases := make([]string, len(playlists))
	for i, pl := range playlists {
		bases[i] = strings.ToLower(strings.TrimSpace(cmp.Or(pl.Profile, pl.Name)))
	}

	claims := make(map[int][]models.LibraryPlaylist)
	for _, old := range existing {
		name := strings.ToLower(strings.TrimSpace(old.Name))
		owner := -1
		for i, base := range bases {
			if base == "" || !strings.HasPrefix(name, base) {
				continue
			}
			if owner < 0 || len(base) > len(bases[owner]) {
				owner = i
			}
		}
		if owner >= 0 {
			claims[owner] = append(claims[owner], old)
		}
	}
	return claims
}
