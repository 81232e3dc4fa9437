package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/desertthunder/sp2yt/internal/shared"
)

func newYouTubeServer(t *testing.T, handler http.HandlerFunc) *YouTubeService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewYouTubeService(context.Background(),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)
	return svc
}

// requestParts returns the part parameter whether sent repeated or comma separated.
func requestParts(r *http.Request) []string {
	return strings.Split(strings.Join(r.URL.Query()["part"], ","), ",")
}

func writeAPIError(w http.ResponseWriter, code int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error": {"code": %d, "message": "%s", "errors": [{"domain": "youtube", "reason": %q, "message": "%s"}]}}`,
		code, reason, reason, reason)
}

func TestYouTubeService(t *testing.T) {
	ctx := context.Background()

	t.Run("Search", func(t *testing.T) {
		svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/search"), "unexpected path %s", r.URL.Path)

			q := r.URL.Query()
			assert.Equal(t, "Daft Punk Get Lucky", q.Get("q"))
			assert.Equal(t, "3", q.Get("maxResults"))
			assert.Equal(t, "video", q.Get("type"))
			assert.Equal(t, "10", q.Get("videoCategoryId"))
			assert.ElementsMatch(t, []string{"id", "snippet"}, requestParts(r))

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"items": [
				{"id": {"kind": "youtube#video", "videoId": "v1"}, "snippet": {"title": "Daft Punk - Get Lucky (Official Audio) ft. Pharrell Williams &amp; Nile Rodgers", "channelTitle": "Daft Punk"}},
				{"id": {"kind": "youtube#channel", "channelId": "c1"}, "snippet": {"title": "channel"}},
				{"id": {"kind": "youtube#video", "videoId": "v2"}, "snippet": {"title": "Get Lucky cover", "channelTitle": "Someone"}}
			]}`)
		})

		videos, err := svc.Search(ctx, "Daft Punk Get Lucky", 3)
		require.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, "v1", videos[0].ID)
		assert.Equal(t, "Daft Punk - Get Lucky (Official Audio) ft. Pharrell Williams & Nile Rodgers", videos[0].Title)
		assert.Equal(t, "Daft Punk", videos[0].Channel)
		assert.Equal(t, "https://www.youtube.com/watch?v=v1", videos[0].URL())
	})

	t.Run("Search defaults max results", func(t *testing.T) {
		svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"items": []}`)
		})

		videos, err := svc.Search(ctx, "anything", 0)
		require.NoError(t, err)
		assert.Empty(t, videos)
	})

	t.Run("Search quota exceeded", func(t *testing.T) {
		svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusForbidden, "quotaExceeded")
		})

		_, err := svc.Search(ctx, "anything", 5)
		assert.ErrorIs(t, err, shared.ErrQuotaExceeded)
	})

	t.Run("Search empty query", func(t *testing.T) {
		svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := svc.Search(ctx, "", 5)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/playlists"), "unexpected path %s", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.ElementsMatch(t, []string{"snippet", "status"}, requestParts(r))

			var body struct {
				Snippet struct {
					Title       string `json:"title"`
					Description string `json:"description"`
				} `json:"snippet"`
				Status struct {
					PrivacyStatus string `json:"privacyStatus"`
				} `json:"status"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Road Trip (from Spotify)", body.Snippet.Title)
			assert.Equal(t, "Converted from Spotify playlist: Road Trip", body.Snippet.Description)
			assert.Equal(t, "private", body.Status.PrivacyStatus)

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": "PLnew", "snippet": {"title": "Road Trip (from Spotify)"}, "status": {"privacyStatus": "private"}}`)
		})

		playlist, err := svc.CreatePlaylist(ctx, "Road Trip (from Spotify)", "Converted from Spotify playlist: Road Trip", "")
		require.NoError(t, err)
		assert.Equal(t, "PLnew", playlist.ID)
		assert.Equal(t, "https://www.youtube.com/playlist?list=PLnew", playlist.URL)
		assert.False(t, playlist.Public)
	})

	t.Run("CreatePlaylist invalid privacy", func(t *testing.T) {
		svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := svc.CreatePlaylist(ctx, "t", "d", "friends-only")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("AddVideo", func(t *testing.T) {
		var got struct {
			Snippet struct {
				PlaylistID string `json:"playlistId"`
				ResourceID struct {
					Kind    string `json:"kind"`
					VideoID string `json:"videoId"`
				} `json:"resourceId"`
			} `json:"snippet"`
		}

		svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/playlistItems"), "unexpected path %s", r.URL.Path)
			assert.Equal(t, []string{"snippet"}, requestParts(r))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": "item1"}`)
		})

		require.NoError(t, svc.AddVideo(ctx, "PL1", "v1"))
		assert.Equal(t, "PL1", got.Snippet.PlaylistID)
		assert.Equal(t, "youtube#video", got.Snippet.ResourceID.Kind)
		assert.Equal(t, "v1", got.Snippet.ResourceID.VideoID)
	})

	t.Run("AddVideo errors", func(t *testing.T) {
		tests := []struct {
			name   string
			code   int
			reason string
			want   error
		}{
			{"not found", http.StatusNotFound, "playlistNotFound", shared.ErrPlaylistNotFound},
			{"forbidden", http.StatusForbidden, "forbidden", shared.ErrAPIRequest},
			{"unauthorized", http.StatusUnauthorized, "authError", shared.ErrAuthFailed},
			{"rate limited", http.StatusForbidden, "rateLimitExceeded", shared.ErrQuotaExceeded},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
					writeAPIError(w, tt.code, tt.reason)
				})
				assert.ErrorIs(t, svc.AddVideo(ctx, "PL1", "v1"), tt.want)
			})
		}
	})

	t.Run("AddVideo missing ids", func(t *testing.T) {
		svc := newYouTubeServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		assert.ErrorIs(t, svc.AddVideo(ctx, "", "v1"), shared.ErrInvalidInput)
	})
}
