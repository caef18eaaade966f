package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/daylist/internal/models"
	"golang.org/x/time/rate"
)

const (
	defaultPoolSize     = 500
	defaultPoolMaxStale = 3
	minGenreBatch       = 10
)

// DefaultPoolGenres are fetched alongside random batches when no profile names any genre.
var DefaultPoolGenres = []string{
	"rock", "pop", "electronic", "hip hop", "jazz", "classical",
	"folk", "dance", "indie", "alternative", "funk", "soul",
}

// PoolOptions configures [FetchPool].
type PoolOptions struct {
	Size      int           // Target number of unique tracks
	BatchSize int           // Songs per request, at most [MaxRandomSongs]
	Genres    []string      // Per-genre batches; when set, half the target comes from genre batches
	MaxStale  int           // Consecutive random batches adding nothing new before giving up
	Limiter   *rate.Limiter // Optional; waited on before every request
	Logger    *log.Logger   // Optional
}

// PoolResult is the deduplicated pool with request statistics.
type PoolResult struct {
	Tracks   []models.Track
	Requests int
	Fetched  int // Songs received, duplicates included
}

// FetchPool builds a deduplicated candidate pool from lib.
//
// Random batches are requested until half the target (or the whole target when no genres are given)
// is reached or MaxStale consecutive batches add nothing new. Each genre then gets one batch.
// A failed genre batch is logged and skipped. The pool is returned sorted by track ID.
func FetchPool(ctx context.Context, lib Library, opts PoolOptions) (*PoolResult, error) {
	size := cmp.Or(max(opts.Size, 0), defaultPoolSize)
	batch := min(cmp.Or(max(opts.BatchSize, 0), MaxRandomSongs), MaxRandomSongs)
	maxStale := cmp.Or(max(opts.MaxStale, 0), defaultPoolMaxStale)

	res := &PoolResult{}
	seen := make(map[string]bool, size)
	add := func(tracks []models.Track) int {
		res.Fetched += len(tracks)
		added := 0
		for _, t := range tracks {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			res.Tracks = append(res.Tracks, t)
			added++
		}
		return added
	}

	wait := func() error {
		if opts.Limiter == nil {
			return nil
		}
		return opts.Limiter.Wait(ctx)
	}

	randomTarget := size
	if len(opts.Genres) > 0 {
		randomTarget = max(size/2, 1)
	}

	for stale := 0; len(res.Tracks) < randomTarget && stale < maxStale; {
		if err := wait(); err != nil {
			return nil, err
		}

		tracks, err := lib.RandomSongs(ctx, min(batch, randomTarget-len(res.Tracks)), "")
		res.Requests++
		if err != nil {
			return nil, fmt.Errorf("failed to fetch random songs: %w", err)
		}

		if added := add(tracks); added == 0 {
			stale++
		} else {
			stale = 0
		}
		if opts.Logger != nil {
			opts.Logger.Debug("fetched random batch", "received", len(tracks), "pool", len(res.Tracks))
		}
	}

	if len(opts.Genres) > 0 {
		perGenre := min(max((size-randomTarget)/len(opts.Genres), minGenreBatch), MaxRandomSongs)
		for _, genre := range opts.Genres {
			if err := wait(); err != nil {
				return nil, err
			}

			tracks, err := lib.RandomSongs(ctx, perGenre, genre)
			res.Requests++
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if opts.Logger != nil {
					opts.Logger.Warn("failed to fetch genre batch", "genre", genre, "error", err)
				}
				continue
			}

			added := add(tracks)
			if opts.Logger != nil {
				opts.Logger.Debug("fetched genre batch", "genre", genre, "received", len(tracks), "new", added)
			}
		}
	}

	slices.SortFunc(res.Tracks, func(a, b models.Track) int { return cmp.Compare(a.ID, b.ID) })
	return res, nil
}
