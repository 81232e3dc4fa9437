// YouTube Data API v3 implementation of [Destination]
package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"slices"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
)

const (
	// musicCategoryID is the YouTube video category for Music.
	musicCategoryID   = "10"
	defaultMaxResults = 5
)

// Quota and rate reasons reported in googleapi error items.
var quotaReasons = []string{"quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded", "dailyLimitExceeded"}

// YouTubeService searches videos and writes playlists through the YouTube Data API.
type YouTubeService struct {
	svc *youtube.Service
}

// NewYouTubeService creates a [YouTubeService]. Pass option.WithHTTPClient with an authorized client.
func NewYouTubeService(ctx context.Context, opts ...option.ClientOption) (*YouTubeService, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &YouTubeService{svc: svc}, nil
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Search runs search.list restricted to videos in the Music category.
func (y *YouTubeService) Search(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	resp, err := y.svc.Search.List([]string{"id", "snippet"}).
		Q(query).
		MaxResults(int64(maxResults)).
		Type("video").
		VideoCategoryId(musicCategoryID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, youtubeError(err, "search")
	}

	videos := make([]models.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}

		video := models.Video{ID: item.Id.VideoId}
		if item.Snippet != nil {
			// snippet titles arrive HTML-escaped ("&amp;", "&#39;")
			video.Title = html.UnescapeString(item.Snippet.Title)
			video.Channel = item.Snippet.ChannelTitle
		}
		videos = append(videos, video)
	}
	return videos, nil
}

// CreatePlaylist runs playlists.insert with the snippet and status parts.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, title, description, privacy string) (*models.Playlist, error) {
	if privacy == "" {
		privacy = "private"
	}
	if err := shared.ValidatePrivacy(privacy); err != nil {
		return nil, err
	}

	created, err := y.svc.Playlists.Insert([]string{"snippet", "status"}, &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: description,
		},
		Status: &youtube.PlaylistStatus{PrivacyStatus: privacy},
	}).Context(ctx).Do()
	if err != nil {
		return nil, youtubeError(err, "create playlist")
	}

	playlist := &models.Playlist{
		ID:          created.Id,
		Name:        title,
		Description: description,
		Public:      privacy == "public",
		URL:         models.PlaylistURL(created.Id),
	}
	if created.Snippet != nil && created.Snippet.Title != "" {
		playlist.Name = created.Snippet.Title
	}
	return playlist, nil
}

// AddVideo runs playlistItems.insert for a single video.
func (y *YouTubeService) AddVideo(ctx context.Context, playlistID, videoID string) error {
	if playlistID == "" || videoID == "" {
		return fmt.Errorf("%w: playlist and video ids are required", shared.ErrInvalidInput)
	}

	_, err := y.svc.PlaylistItems.Insert([]string{"snippet"}, &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return youtubeError(err, "add video "+videoID)
	}
	return nil
}

// youtubeError maps googleapi errors onto shared sentinels.
func youtubeError(err error, op string) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: youtube %s: %v", shared.ErrAPIRequest, op, err)
	}

	for _, item := range apiErr.Errors {
		if slices.Contains(quotaReasons, item.Reason) {
			return fmt.Errorf("%w: youtube %s: %s", shared.ErrQuotaExceeded, op, item.Reason)
		}
	}

	switch apiErr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: youtube %s: %s", shared.ErrAuthFailed, op, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: youtube %s: %s", shared.ErrPlaylistNotFound, op, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: youtube %s: %s", shared.ErrQuotaExceeded, op, apiErr.Message)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: youtube %s: %s", shared.ErrServiceUnavailable, op, apiErr.Message)
	}
	return fmt.Errorf("%w: youtube %s (status %d): %s", shared.ErrAPIRequest, op, apiErr.Code, apiErr.Message)
}
