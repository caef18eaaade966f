package tasks

import (
	"fmt"

	"github.com/desertthunder/daylist/internal/models"
	"github.com/desertthunder/daylist/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Ping Phase = iota
	FetchPool
	Filter
	Generate
	Record
	Cleanup
	Publish
)

func (p Phase) String() string {
	switch p {
	case Ping:
		return "ping"
	case FetchPool:
		return "fetch_pool"
	case Filter:
		return "filter"
	case Generate:
		return "generate"
	case Record:
		return "record"
	case Cleanup:
		return "cleanup"
	case Publish:
		return "publish"
	default:
		return ""
	}
}

func pingUpdate(library string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Ping,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Connecting to %s...", library),
	}
}

func connectedUpdate(info *services.ServerInfo) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Ping,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Connected: %s %s (API %s)", info.Type, info.ServerVersion, info.APIVersion),
		Data:    info,
	}
}

func fetchPoolUpdate(size int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPool,
		Step:    0,
		Total:   size,
		Message: fmt.Sprintf("Fetching up to %d tracks...", size),
	}
}

func cachedPoolUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPool,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Loaded %d cached tracks", count),
	}
}

func fetchedPoolUpdate(res *FetchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPool,
		Step:    len(res.Pool) + res.NonSongs,
		Total:   len(res.Pool) + res.NonSongs,
		Message: fmt.Sprintf("Fetched %d unique tracks in %d requests", len(res.Pool)+res.NonSongs, res.Requests),
	}
}

func filterUpdate(nonSongs, kept int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Filter,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Filtered out %d non-songs, %d tracks remain", nonSongs, kept),
	}
}

func generateUpdate(step, total int, res GenerateResult) ProgressUpdate {
	pl := res.Report.Playlist
	return ProgressUpdate{
		Phase:   Generate,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %d tracks (quality %.3f, %d eligible)", step, total, pl.Name, pl.Len(), pl.Quality, res.Report.Eligible),
		Data:    pl,
	}
}

func recordUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Record,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Recorded %s", step, total, name),
	}
}

func cleanupUpdate(step, total int, stale models.LibraryPlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Cleanup,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Deleted existing playlist: %s", stale.Name),
		Data:    stale,
	}
}

func publishedUpdate(step, total int, outcome PublishOutcome) ProgressUpdate {
	verb := "✓"
	if outcome.DryRun {
		verb = "(dry run)"
	}
	return ProgressUpdate{
		Phase:   Publish,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s (%d tracks)", step, total, verb, outcome.Name, outcome.TrackCount),
		Data:    outcome,
	}
}

func publishFailedUpdate(step, total int, outcome PublishOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Publish,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, outcome.Name, outcome.Err),
		Data:    outcome,
	}
}
