package ui

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/tasks"
)

// Transcript writes conversion progress as marker lines.
type Transcript struct {
	w       io.Writer
	palette *Palette
	showBar bool

	bar      *progressbar.ProgressBar
	deferred []string
}

// NewTranscript creates a [Transcript]. When showBar is set, the insert phase is drawn as a
// progress bar and per-video lines are held back until it finishes.
func NewTranscript(w io.Writer, palette *Palette, showBar bool) *Transcript {
	if palette == nil {
		palette = PlainPalette()
	}
	return &Transcript{w: w, palette: palette, showBar: showBar}
}

// Consume renders updates until progress is closed.
func (t *Transcript) Consume(progress <-chan tasks.ProgressUpdate) {
	for update := range progress {
		t.Render(update)
	}
}

// Render writes one update.
func (t *Transcript) Render(u tasks.ProgressUpdate) {
	switch u.Phase {
	case tasks.FetchSource:
		fmt.Fprintf(t.w, "\n%s %s\n", t.palette.Title("[*]"), u.Message)
	case tasks.SourceFetched:
		if export, ok := u.Data.(*models.PlaylistExport); ok {
			t.header(export)
		}
	case tasks.SearchTrack:
		fmt.Fprintf(t.w, "\n%s %s\n", t.palette.Title("[*]"), u.Message)
	case tasks.TrackMatched:
		fmt.Fprintf(t.w, "  %s %s\n", t.palette.OK("[+]"), u.Message)
	case tasks.TrackUncertain, tasks.TrackSkipped:
		fmt.Fprintf(t.w, "  %s %s\n", t.palette.Warn("[!]"), u.Message)
	case tasks.TrackNotFound:
		fmt.Fprintf(t.w, "  %s %s\n", t.palette.Err("[-]"), u.Message)
	case tasks.QuotaExhausted:
		fmt.Fprintf(t.w, "\n%s %s\n", t.palette.Err("[!]"), u.Message)
	case tasks.CreatePlaylist:
		fmt.Fprintf(t.w, "\n%s %s\n", t.palette.Title("[*]"), u.Message)
	case tasks.PlaylistCreated:
		fmt.Fprintf(t.w, "%s %s\n", t.palette.OK("[+]"), u.Message)
	case tasks.InsertVideo:
		t.insert(u, fmt.Sprintf("  %s %s", t.palette.OK("[+]"), u.Message))
	case tasks.InsertFailed:
		t.insert(u, fmt.Sprintf("  %s %s", t.palette.Err("[-]"), u.Message))
	}
}

func (t *Transcript) header(export *models.PlaylistExport) {
	pl := export.Playlist
	fmt.Fprintf(t.w, "\n%s\n", t.palette.Title("Playlist: "+pl.Name))
	if pl.Owner != "" {
		fmt.Fprintf(t.w, "Owner: %s\n", pl.Owner)
	}
	fmt.Fprintf(t.w, "Total tracks: %d\n\n", pl.TrackCount)

	for _, track := range export.Tracks {
		fmt.Fprintf(t.w, "%3d. %s\n", track.Number, track.Label())
	}
}

func (t *Transcript) insert(u tasks.ProgressUpdate, line string) {
	if !t.showBar {
		fmt.Fprintln(t.w, line)
		return
	}

	if t.bar == nil {
		fmt.Fprintln(t.w)
		t.bar = progressbar.NewOptions(u.Total,
			progressbar.OptionSetWriter(t.w),
			progressbar.OptionSetDescription("Adding videos"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
		)
	}

	if u.Phase == tasks.InsertFailed {
		t.deferred = append(t.deferred, line)
	}
	_ = t.bar.Add(1)

	if u.Step >= u.Total {
		t.finishBar()
	}
}

// Close finishes a progress bar left open by an interrupted insert phase.
func (t *Transcript) Close() {
	if t.bar != nil {
		t.finishBar()
	}
}

func (t *Transcript) finishBar() {
	_ = t.bar.Finish()
	t.bar = nil
	fmt.Fprintln(t.w)
	for _, line := range t.deferred {
		fmt.Fprintln(t.w, line)
	}
	t.deferred = nil
}
