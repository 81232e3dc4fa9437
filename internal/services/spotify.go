// Spotify implementation of [Source]
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
)

const spotifyPlaylistURL = "https://open.spotify.com/playlist/"

// SpotifyService reads playlists from the Spotify Web API.
type SpotifyService struct {
	client *spotify.Client
}

// NewSpotifyService creates a [SpotifyService] over an authorized HTTP client.
func NewSpotifyService(httpClient *http.Client, opts ...spotify.ClientOption) *SpotifyService {
	return &SpotifyService{client: spotify.New(httpClient, opts...)}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetPlaylist retrieves playlist metadata. TrackCount is the total declared by Spotify.
func (s *SpotifyService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: empty playlist id", shared.ErrInvalidInput)
	}

	sp, err := s.client.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, spotifyError(err, playlistID)
	}

	url := sp.ExternalURLs["spotify"]
	if url == "" {
		url = spotifyPlaylistURL + string(sp.ID)
	}

	return &models.Playlist{
		ID:          string(sp.ID),
		Name:        sp.Name,
		Description: sp.Description,
		Owner:       sp.Owner.DisplayName,
		TrackCount:  int(sp.Tracks.Total),
		Public:      sp.IsPublic,
		URL:         url,
	}, nil
}

// ExportPlaylist retrieves playlist metadata and every track, following next pages.
//
// Items without a track (episodes, removed or unavailable items) are skipped; the remaining
// tracks keep their 1-based position in the playlist as [models.Track.Number].
func (s *SpotifyService) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	playlist, err := s.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(100))
	if err != nil {
		return nil, spotifyError(err, playlistID)
	}

	var tracks []models.Track
	position := 0
	for {
		for _, item := range page.Items {
			position++
			if item.Track.Track == nil {
				continue
			}
			tracks = append(tracks, convertSpotifyTrack(position, item.Track.Track))
		}

		err := s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, spotifyError(err, playlistID)
		}
	}

	return &models.PlaylistExport{Playlist: *playlist, Tracks: tracks}, nil
}

func convertSpotifyTrack(number int, ft *spotify.FullTrack) models.Track {
	track := models.Track{
		Number:     number,
		ID:         string(ft.ID),
		Title:      ft.Name,
		Album:      ft.Album.Name,
		DurationMS: int(ft.Duration),
		ISRC:       ft.ExternalIDs["isrc"],
		URL:        ft.ExternalURLs["spotify"],
	}

	for _, artist := range ft.Artists {
		track.Artists = append(track.Artists, artist.Name)
	}
	if len(track.Artists) > 0 {
		track.Artist = track.Artists[0]
	}
	return track
}

// spotifyError maps SDK errors onto shared sentinels.
func spotifyError(err error, playlistID string) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: spotify: %s", shared.ErrAuthFailed, apiErr.Message)
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			return fmt.Errorf("%w: spotify: %s", shared.ErrServiceUnavailable, apiErr.Message)
		}
		return fmt.Errorf("%w: spotify (status %d): %s", shared.ErrAPIRequest, apiErr.Status, apiErr.Message)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: spotify: %v", shared.ErrAPIRequest, err)
}
