// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/sp2yt/internal/models"
)

// MockSource is a test double for [services.Source]
type MockSource struct {
	Export *models.PlaylistExport
	Err    error
	Calls  []string
}

func (m *MockSource) Name() string { return "mock source" }

func (m *MockSource) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	m.Calls = append(m.Calls, playlistID)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Export, nil
}

// MockDestination is a test double for [services.Destination].
//
// Results are keyed by lowercased query. SearchErrs take precedence over Results.
type MockDestination struct {
	Results    map[string][]models.Video
	SearchErrs map[string]error
	CreateErr  error
	AddErrs    map[string]error
	PlaylistID string

	mu          sync.Mutex
	Searches    []string
	Created     []CreatedPlaylist
	AddedVideos []string
}

// CreatedPlaylist records a CreatePlaylist call.
type CreatedPlaylist struct {
	Title, Description, Privacy string
}

func (m *MockDestination) Name() string { return "mock destination" }

func (m *MockDestination) Search(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Searches = append(m.Searches, query)
	key := strings.ToLower(query)
	if err, ok := m.SearchErrs[key]; ok {
		return nil, err
	}

	videos := m.Results[key]
	if len(videos) > maxResults {
		videos = videos[:maxResults]
	}
	return videos, nil
}

func (m *MockDestination) CreatePlaylist(ctx context.Context, title, description, privacy string) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Created = append(m.Created, CreatedPlaylist{title, description, privacy})
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	id := m.PlaylistID
	if id == "" {
		id = "PLmock"
	}
	return &models.Playlist{ID: id, Name: title, Description: description, URL: models.PlaylistURL(id)}, nil
}

func (m *MockDestination) AddVideo(ctx context.Context, playlistID, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.AddErrs[videoID]; ok {
		return err
	}
	m.AddedVideos = append(m.AddedVideos, videoID)
	return nil
}

// SampleExport returns a three track playlist with a gap at position 2.
func SampleExport() *models.PlaylistExport {
	return &models.PlaylistExport{
		Playlist: models.Playlist{ID: "sp123", Name: "Road Trip", Owner: "Alex", TrackCount: 4, Public: true},
		Tracks: []models.Track{
			{Number: 1, ID: "t1", Title: "Get Lucky", Artist: "Daft Punk", Artists: []string{"Daft Punk", "Pharrell Williams"}, Album: "Random Access Memories", DurationMS: 369000},
			{Number: 3, ID: "t3", Title: "Midnight City", Artist: "M83", Artists: []string{"M83"}, Album: "Hurry Up, We're Dreaming", DurationMS: 243000},
			{Number: 4, ID: "t4", Title: "Obscure B-Side", Artist: "Nobody", Artists: []string{"Nobody"}, Album: "Demo", DurationMS: 120000},
		},
	}
}

// SampleResults returns search results for [SampleExport]: one high, one low and one missing.
func SampleResults() map[string][]models.Video {
	return map[string][]models.Video{
		"daft punk get lucky": {
			{ID: "v1", Title: "Daft Punk - Get Lucky (Official Audio)", Channel: "Daft Punk"},
			{ID: "v1b", Title: "Get Lucky live", Channel: "Fan"},
		},
		"m83 midnight city": {
			{ID: "v3", Title: "Best driving songs compilation", Channel: "Mixes"},
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
