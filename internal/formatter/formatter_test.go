package formatter

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
	th "github.com/desertthunder/sp2yt/internal/testing"
)

func sampleReport() *models.Report {
	export := th.SampleExport()
	tracks := export.Tracks
	return &models.Report{
		Source:      export.Playlist,
		Destination: &models.Playlist{ID: "PL1", Name: "Road Trip (from Spotify)", URL: models.PlaylistURL("PL1")},
		Privacy:     "private",
		Status:      models.RunCompleted,
		Matches: []models.Match{
			{Track: tracks[0], Video: models.Video{ID: "v1", Title: "Daft Punk - Get Lucky"}, Confidence: models.ConfidenceHigh},
			{Track: tracks[1], Video: models.Video{ID: "v3", Title: "compilation"}, Confidence: models.ConfidenceLow},
		},
		NotFound:  []models.Track{tracks[2]},
		Added:     2,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"report.json":     FormatJSON,
		"out/REPORT.CSV":  FormatCSV,
		"notes.md":        FormatMarkdown,
		"notes.markdown":  FormatMarkdown,
		"report.txt":      FormatText,
		"report":          FormatText,
		"report.whatever": FormatText,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestExporters(t *testing.T) {
	report := sampleReport()

	t.Run("ReportToJSON", func(t *testing.T) {
		data, err := ReportToJSON(report)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "private", decoded["privacy"])
		assert.Equal(t, "completed", decoded["status"])
		assert.Len(t, decoded["matches"], 2)
		assert.Len(t, decoded["not_found"], 1)
	})

	t.Run("ReportToCSV", func(t *testing.T) {
		data, err := ReportToCSV(report)
		require.NoError(t, err)

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)

		assert.Equal(t, "Number", records[0][0])
		assert.Equal(t, []string{"1", "Get Lucky", "Daft Punk, Pharrell Williams", "Random Access Memories", "6:09", "matched", "v1", "Daft Punk - Get Lucky", "https://www.youtube.com/watch?v=v1", "high"}, records[1])
		assert.Equal(t, "3", records[2][0])
		assert.Equal(t, "low", records[2][9])
		assert.Equal(t, []string{"4", "Obscure B-Side", "Nobody", "Demo", "2:00", "not_found", "", "", "", ""}, records[3])
	})

	t.Run("ReportToMarkdown", func(t *testing.T) {
		data, err := ReportToMarkdown(report)
		require.NoError(t, err)
		out := string(data)

		assert.True(t, strings.HasPrefix(out, "# Road Trip\n"))
		assert.Contains(t, out, "**Visibility**: Public")
		assert.Contains(t, out, "[Road Trip (from Spotify)](https://www.youtube.com/playlist?list=PL1)")
		assert.Contains(t, out, "3. M83 - Midnight City [4:03] → [compilation](https://www.youtube.com/watch?v=v3) _(uncertain)_")
		assert.Contains(t, out, "4. Nobody - Obscure B-Side [2:00] → not found")
	})

	t.Run("ReportToText", func(t *testing.T) {
		data, err := ReportToText(report)
		require.NoError(t, err)
		out := string(data)

		assert.Contains(t, out, "Playlist: Road Trip\n")
		assert.Contains(t, out, "YouTube playlist: https://www.youtube.com/playlist?list=PL1 (private)")
		assert.Contains(t, out, "Converted: 2\n")
		assert.Contains(t, out, "Not found: 1\n")
		assert.Contains(t, out, "1. Daft Punk - Get Lucky -> https://www.youtube.com/watch?v=v1 (high)")
		assert.Contains(t, out, "4. Nobody - Obscure B-Side -> not found")
	})

	t.Run("skipped rows", func(t *testing.T) {
		r := sampleReport()
		r.Skipped = []models.Match{r.Matches[1]}
		r.Matches = r.Matches[:1]

		data, err := ReportToText(r)
		require.NoError(t, err)
		assert.Contains(t, string(data), "3. M83 - Midnight City -> skipped")
		assert.Contains(t, string(data), "Not found: 2\n")
	})

	t.Run("Render unknown", func(t *testing.T) {
		_, err := Render(report, Format("yaml"))
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.csv")

	format, err := WriteReport(sampleReport(), path)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	th.AssertFileExists(t, path)
	assert.Contains(t, th.MustReadFile(t, path), "Number,Title,Artist")
}
