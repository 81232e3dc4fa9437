package tasks

import (
	"fmt"

	"github.com/desertthunder/sp2yt/internal/models"
)

// ProgressUpdate represents a progress event during a conversion.
//
// The CLI renders the transcript from these updates.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Phase-specific payload
}

// Phase identifies what an update reports.
type Phase int

const (
	FetchSource Phase = iota
	SourceFetched
	SearchTrack
	TrackMatched
	TrackUncertain
	TrackSkipped
	TrackNotFound
	QuotaExhausted
	CreatePlaylist
	PlaylistCreated
	InsertVideo
	InsertFailed
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case SourceFetched:
		return "source_fetched"
	case SearchTrack:
		return "search_track"
	case TrackMatched:
		return "track_matched"
	case TrackUncertain:
		return "track_uncertain"
	case TrackSkipped:
		return "track_skipped"
	case TrackNotFound:
		return "track_not_found"
	case QuotaExhausted:
		return "quota_exhausted"
	case CreatePlaylist:
		return "create_playlist"
	case PlaylistCreated:
		return "playlist_created"
	case InsertVideo:
		return "insert_video"
	case InsertFailed:
		return "insert_failed"
	default:
		return ""
	}
}

func fetchSourceUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching Spotify playlist %s...", id),
	}
}

func sourceFetchedUpdate(export *models.PlaylistExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SourceFetched,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist: %s (%d tracks)", export.Playlist.Name, export.Playlist.TrackCount),
		Data:    export,
	}
}

func searchTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching: %s", tr.Label()),
		Data:    tr,
	}
}

func matchUpdate(step, total int, m models.Match, skipped bool) ProgressUpdate {
	u := ProgressUpdate{Step: step, Total: total, Data: m}
	switch {
	case skipped:
		u.Phase = TrackSkipped
		u.Message = fmt.Sprintf("Skipped uncertain match: %s", m.Video.Title)
	case m.Uncertain():
		u.Phase = TrackUncertain
		u.Message = fmt.Sprintf("Uncertain match: %s", m.Video.Title)
	default:
		u.Phase = TrackMatched
		u.Message = fmt.Sprintf("Found: %s", m.Video.Title)
	}
	return u
}

func notFoundUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackNotFound,
		Step:    step,
		Total:   total,
		Message: "Not found",
		Data:    tr,
	}
}

func quotaUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QuotaExhausted,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("YouTube quota exhausted, remaining tracks will not be searched: %v", err),
	}
}

func createPlaylistUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating YouTube playlist: %s", title),
	}
}

func playlistCreatedUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlaylistCreated,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s", pl.ID),
		Data:    pl,
	}
}

func insertUpdate(step, total int, m models.Match) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Added: %s", m.Track.Label()),
		Data:    m,
	}
}

func insertFailedUpdate(step, total int, m models.Match, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to add %s: %v", m.Track.Label(), err),
		Data:    m,
	}
}
