package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// HistoryList prints recorded conversions, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	runs, release, err := r.history(ctx)
	if err != nil {
		return err
	}
	defer release()

	list, err := runs.List(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}

	if len(list) == 0 {
		return r.writePlain("No conversions recorded yet.\n")
	}

	for _, run := range list {
		r.writePlain("%s  %s  %s (%s)\n", shortID(run.RunID), humanize.Time(run.Created), run.SourceName, run.Status)
		r.writePlain("          matched %d, not found %d, added %s of %s\n",
			run.Matched, run.NotFound, humanize.Comma(int64(run.Added)), humanize.Comma(int64(run.SourceTotal)))
		if run.PlaylistURL != "" {
			r.writePlain("          %s\n", run.PlaylistURL)
		}
	}
	return nil
}

// HistoryShow prints one run with its per-track outcome. The id may be a unique prefix.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	runs, release, err := r.history(ctx)
	if err != nil {
		return err
	}
	defer release()

	run, err := runs.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(run, true)
	}

	r.writePlainHeader(run.SourceName)
	r.writePlain("Run: %s\n", run.RunID)
	r.writePlain("When: %s (%s)\n", run.Created.Local().Format("2006-01-02 15:04"), humanize.Time(run.Created))
	if run.SourceOwner != "" {
		r.writePlain("Owner: %s\n", run.SourceOwner)
	}
	r.writePlain("Status: %s\n", run.Status)
	if run.PlaylistURL != "" {
		r.writePlain("YouTube playlist: %s (%s)\n", run.PlaylistURL, run.Privacy)
	}
	r.writePlain("Matched: %d  Not found: %d  Added: %d  Failed: %d\n\n", run.Matched, run.NotFound, run.Added, run.Failed)

	for _, m := range run.Matches {
		r.writePlain("%3d. %s - %s", m.TrackNumber, m.TrackArtist, m.TrackTitle)
		switch {
		case m.Found():
			r.writePlain(" -> %s (%s)\n", models.Video{ID: m.VideoID}.URL(), m.Confidence)
		case m.VideoTitle != "":
			r.writePlain(" -> skipped (%s)\n", m.VideoTitle)
		default:
			r.writePlain(" -> not found\n")
		}
	}
	return nil
}

// HistoryDelete removes one run.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	runs, release, err := r.history(ctx)
	if err != nil {
		return err
	}
	defer release()

	run, err := runs.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := runs.Delete(ctx, run.RunID); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted run %s (%s)\n", shortID(run.RunID), run.SourceName)
}
