package services

import (
	"context"

	"github.com/desertthunder/sp2yt/internal/models"
)

// Service is implemented by every provider.
type Service interface {
	// Name returns the name of the service (e.g., "Spotify", "YouTube")
	Name() string
}

// Source reads playlists from a provider.
type Source interface {
	Service

	// ExportPlaylist fetches playlist metadata and every playable track, following pagination.
	ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error)
}

// Destination searches for videos and builds playlists on a provider.
type Destination interface {
	Service

	// Search returns up to maxResults videos for query, best match first.
	Search(ctx context.Context, query string, maxResults int) ([]models.Video, error)

	// CreatePlaylist creates an empty playlist with the given privacy status.
	CreatePlaylist(ctx context.Context, title, description, privacy string) (*models.Playlist, error)

	// AddVideo appends a video to the end of a playlist.
	AddVideo(ctx context.Context, playlistID, videoID string) error
}
