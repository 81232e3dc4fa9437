package models

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	youtubeWatchURL    = "https://www.youtube.com/watch?v="
	youtubePlaylistURL = "https://www.youtube.com/playlist?list="
)

// Model defines the base interface for persisted records.
type Model interface {
	ID() string
	CreatedAt() time.Time
	Validate() error
}

// Repository defines the data access operations for a persisted model.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, limit int) ([]T, error)
	Delete(ctx context.Context, id string) error
}

// Playlist represents a playlist on either service.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
	URL         string `json:"url,omitempty"`
}

// PlaylistExport represents a source playlist with all of its playable tracks.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// Track is one source track.
//
// Number is the 1-based position of the item in the source playlist. Items without
// a playable track are dropped, so numbers may have gaps.
type Track struct {
	Number     int      `json:"number"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	DurationMS int      `json:"duration_ms"`
	ISRC       string   `json:"isrc,omitempty"`
	URL        string   `json:"url,omitempty"`
}

// AllArtists joins every credited artist with ", ".
func (t Track) AllArtists() string {
	if len(t.Artists) == 0 {
		return t.Artist
	}
	return strings.Join(t.Artists, ", ")
}

// Label returns "Artist - Title".
func (t Track) Label() string {
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}

// SearchQuery returns the query used to look the track up on YouTube.
func (t Track) SearchQuery() string {
	return strings.TrimSpace(t.Artist + " " + t.Title)
}

// Video is a YouTube video returned by search.
type Video struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Channel string `json:"channel,omitempty"`
}

// URL returns the watch page of the video.
func (v Video) URL() string {
	return youtubeWatchURL + v.ID
}

// PlaylistURL returns the public page of a YouTube playlist.
func PlaylistURL(id string) string {
	return youtubePlaylistURL + id
}

// Confidence grades how well a video title agrees with a track.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Match pairs a track with the video chosen for it.
type Match struct {
	Track      Track      `json:"track"`
	Video      Video      `json:"video"`
	Confidence Confidence `json:"confidence"`
}

// Uncertain reports whether the match was accepted without title agreement.
func (m Match) Uncertain() bool {
	return m.Confidence != ConfidenceHigh
}

// RunStatus is the terminal state of a conversion run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunDryRun    RunStatus = "dry_run"
	RunCanceled  RunStatus = "canceled"
	RunFailed    RunStatus = "failed"
)

// Run records one conversion.
type Run struct {
	RunID       string     `json:"id"`
	SourceID    string     `json:"source_id"`
	SourceName  string     `json:"source_name"`
	SourceOwner string     `json:"source_owner"`
	SourceTotal int        `json:"source_total"`
	PlaylistID  string     `json:"playlist_id,omitempty"`
	PlaylistURL string     `json:"playlist_url,omitempty"`
	Privacy     string     `json:"privacy"`
	Status      RunStatus  `json:"status"`
	Matched     int        `json:"matched"`
	NotFound    int        `json:"not_found"`
	Added       int        `json:"added"`
	Failed      int        `json:"failed"`
	Created     time.Time  `json:"created_at"`
	Matches     []RunMatch `json:"matches,omitempty"`
}

func (r *Run) ID() string           { return r.RunID }
func (r *Run) CreatedAt() time.Time { return r.Created }

// Validate checks the fields required to persist a run.
func (r *Run) Validate() error {
	switch {
	case r.RunID == "":
		return fmt.Errorf("run id is required")
	case r.SourceID == "":
		return fmt.Errorf("source id is required")
	case r.Status == "":
		return fmt.Errorf("status is required")
	}
	return nil
}

// RunMatch is the outcome for one track within a run. VideoID is empty when no video was found.
type RunMatch struct {
	Position    int        `json:"position"`
	TrackNumber int        `json:"track_number"`
	TrackTitle  string     `json:"track_title"`
	TrackArtist string     `json:"track_artist"`
	VideoID     string     `json:"video_id,omitempty"`
	VideoTitle  string     `json:"video_title,omitempty"`
	Confidence  Confidence `json:"confidence,omitempty"`
}

// Found reports whether a video was matched.
func (m RunMatch) Found() bool {
	return m.VideoID != ""
}
