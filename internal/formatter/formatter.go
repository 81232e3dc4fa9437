// package formatter renders conversion reports as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// FormatFromPath picks a format from the file extension. Unknown extensions are plain text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Render encodes report in format.
func Render(report *models.Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ReportToJSON(report)
	case FormatCSV:
		return ReportToCSV(report)
	case FormatMarkdown:
		return ReportToMarkdown(report)
	case FormatText:
		return ReportToText(report)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteReport writes report to path in the format implied by its extension.
func WriteReport(report *models.Report, path string) (Format, error) {
	format := FormatFromPath(path)
	data, err := Render(report, format)
	if err != nil {
		return format, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return format, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return format, fmt.Errorf("failed to write report: %w", err)
	}
	return format, nil
}

// ReportToJSON encodes the full report with two-space indentation.
func ReportToJSON(report *models.Report) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// row is one line of the tabular formats, in source order.
type row struct {
	track      models.Track
	status     string
	video      models.Video
	confidence models.Confidence
}

func rows(report *models.Report) []row {
	var out []row
	for _, m := range report.Matches {
		out = append(out, row{track: m.Track, status: "matched", video: m.Video, confidence: m.Confidence})
	}
	for _, m := range report.Skipped {
		out = append(out, row{track: m.Track, status: "skipped", video: m.Video, confidence: m.Confidence})
	}
	for _, t := range report.NotFound {
		out = append(out, row{track: t, status: "not_found"})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].track.Number < out[j].track.Number
	})
	return out
}

// ReportToCSV writes one record per source track with columns:
// Number, Title, Artist, Album, Duration, Status, VideoID, VideoTitle, VideoURL, Confidence
func ReportToCSV(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Number", "Title", "Artist", "Album", "Duration", "Status", "VideoID", "VideoTitle", "VideoURL", "Confidence"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range rows(report) {
		var videoURL string
		if r.video.ID != "" {
			videoURL = r.video.URL()
		}

		record := []string{
			strconv.Itoa(r.track.Number),
			r.track.Title,
			r.track.AllArtists(),
			r.track.Album,
			shared.FormatDuration(r.track.DurationMS),
			r.status,
			r.video.ID,
			r.video.Title,
			videoURL,
			string(r.confidence),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportToMarkdown renders the report as a Markdown document.
func ReportToMarkdown(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", report.Source.Name)
	if report.Source.Owner != "" {
		fmt.Fprintf(&buf, "**Owner**: %s\n", report.Source.Owner)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n", report.Source.TrackCount)
	fmt.Fprintf(&buf, "**Visibility**: %s\n", shared.VisibilityString(report.Source.Public))
	if report.Destination != nil {
		fmt.Fprintf(&buf, "**YouTube playlist**: [%s](%s) (%s)\n", report.Destination.Name, report.Destination.URL, report.Privacy)
	}
	fmt.Fprintf(&buf, "**Converted**: %d\n", report.Converted())
	fmt.Fprintf(&buf, "**Not found**: %d\n\n", len(report.Missing()))

	buf.WriteString("## Tracks\n\n")
	for _, r := range rows(report) {
		line := fmt.Sprintf("%d. %s [%s]", r.track.Number, r.track.Label(), shared.FormatDuration(r.track.DurationMS))
		switch r.status {
		case "matched":
			line += fmt.Sprintf(" → [%s](%s)", r.video.Title, r.video.URL())
			if r.confidence == models.ConfidenceLow {
				line += " _(uncertain)_"
			}
		case "skipped":
			line += " → skipped (uncertain match)"
		default:
			line += " → not found"
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes(), nil
}

// ReportToText renders the report as plain text.
func ReportToText(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", report.Source.Name)
	if report.Source.Owner != "" {
		fmt.Fprintf(&buf, "Owner: %s\n", report.Source.Owner)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n", report.Source.TrackCount)
	if report.Destination != nil {
		fmt.Fprintf(&buf, "YouTube playlist: %s (%s)\n", report.Destination.URL, report.Privacy)
	}
	fmt.Fprintf(&buf, "Converted: %d\n", report.Converted())
	fmt.Fprintf(&buf, "Not found: %d\n\n", len(report.Missing()))

	for _, r := range rows(report) {
		switch r.status {
		case "matched":
			fmt.Fprintf(&buf, "%d. %s -> %s (%s)\n", r.track.Number, r.track.Label(), r.video.URL(), r.confidence)
		case "skipped":
			fmt.Fprintf(&buf, "%d. %s -> skipped (%s)\n", r.track.Number, r.track.Label(), r.video.URL())
		default:
			fmt.Fprintf(&buf, "%d. %s -> not found\n", r.track.Number, r.track.Label())
		}
	}
	return buf.Bytes(), nil
}
