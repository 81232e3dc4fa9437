package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sp2yt/internal/formatter"
	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
	"github.com/desertthunder/sp2yt/internal/tasks"
	"github.com/desertthunder/sp2yt/internal/ui"
)

const playlistPrompt = "Enter Spotify playlist URL (or playlist ID)"

// convertOptions are the per-invocation settings of the convert command.
type convertOptions struct {
	ref        string
	privacy    string
	yes        bool
	dryRun     bool
	noHistory  bool
	exportPath string
	engine     tasks.Options
}

func (r *Runner) convertOptions(cmd *cli.Command) (convertOptions, error) {
	config := r.cfg().Convert
	opts := convertOptions{
		ref:        cmd.StringArg("playlist"),
		privacy:    cmd.String("privacy"),
		yes:        cmd.Bool("yes"),
		dryRun:     cmd.Bool("dry-run"),
		noHistory:  cmd.Bool("no-history"),
		exportPath: cmd.String("export"),
		engine:     tasks.OptionsFromConfig(config),
	}

	if opts.privacy == "" {
		opts.privacy = config.Privacy
	}
	if err := shared.ValidatePrivacy(opts.privacy); err != nil {
		return opts, err
	}

	if cmd.IsSet("max-results") {
		n := cmd.Int("max-results")
		if n < 1 || n > 50 {
			return opts, fmt.Errorf("%w: --max-results must be between 1 and 50", shared.ErrInvalidArgument)
		}
		opts.engine.MaxResults = n
	}
	opts.engine.SkipUncertain = cmd.Bool("skip-uncertain")
	return opts, nil
}

// Convert fetches a Spotify playlist, finds each track on YouTube and builds a new YouTube playlist.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.convertOptions(cmd)
	if err != nil {
		return err
	}
	return r.convert(ctx, opts)
}

func (r *Runner) convert(ctx context.Context, opts convertOptions) error {
	r.writePlainHeader("Spotify to YouTube Playlist Converter")

	if opts.ref == "" {
		ref, err := r.prompter.Ask(ctx, playlistPrompt)
		if errors.Is(err, shared.ErrCanceled) {
			r.writePlain("Canceled.\n")
			return nil
		}
		if err != nil {
			return err
		}
		if ref == "" {
			return fmt.Errorf("%w: playlist URL or ID", shared.ErrMissingArgument)
		}
		opts.ref = ref
	}

	transcript := ui.NewTranscript(r.output, r.palette, r.showBar)
	defer transcript.Close()

	source, err := r.spotifySource(ctx)
	if err != nil {
		r.writePlain("%s Failed to fetch playlist.\n", r.palette.Err("[-]"))
		return err
	}

	engine, err := r.newEngine(source, nil, opts.engine)
	if err != nil {
		return err
	}

	var export *models.PlaylistExport
	err = r.withProgress(transcript, func(progress chan<- tasks.ProgressUpdate) error {
		export, err = engine.Fetch(ctx, opts.ref, progress)
		return err
	})
	if err != nil {
		r.writePlain("%s Failed to fetch playlist.\n", r.palette.Err("[-]"))
		return err
	}
	r.writePlainln("%s Successfully fetched %d tracks!", r.palette.OK("[+]"), len(export.Tracks))

	r.writePlainln("%s Authenticating with YouTube...", r.palette.Title("[*]"))
	dest, err := r.youtubeDestination(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrMissingClientSecrets) {
			r.printClientSecretsHelp()
		}
		r.writePlain("%s YouTube authentication failed.\n", r.palette.Err("[-]"))
		return err
	}
	r.writePlain("%s YouTube authentication successful!\n", r.palette.OK("[+]"))
	engine.SetDestination(dest)

	r.writePlain("\n")
	r.writePlainHeader("Searching YouTube for tracks...")

	var matched *tasks.MatchResult
	err = r.withProgress(transcript, func(progress chan<- tasks.ProgressUpdate) error {
		matched, err = engine.Match(ctx, export.Tracks, progress)
		return err
	})
	if err != nil {
		return err
	}

	r.writePlainln("%s Found: %d tracks", r.palette.OK("[+]"), len(matched.Matches))
	r.writePlain("%s Not found: %d tracks\n", r.palette.Err("[-]"), len(matched.NotFound))
	if len(matched.Skipped) > 0 {
		r.writePlain("%s Skipped uncertain: %d tracks\n", r.palette.Warn("[!]"), len(matched.Skipped))
	}

	report := &models.Report{
		Source:    export.Playlist,
		Privacy:   opts.privacy,
		Matches:   matched.Matches,
		Skipped:   matched.Skipped,
		NotFound:  matched.NotFound,
		CreatedAt: time.Now().UTC(),
	}

	if len(matched.Matches) == 0 {
		r.writePlainln("%s No YouTube matches found. Exiting.", r.palette.Err("[-]"))
		return fmt.Errorf("%w: %s", shared.ErrNoMatches, export.Playlist.Name)
	}

	if opts.dryRun {
		report.Status = models.RunDryRun
		r.writePlainln("Dry run: no playlist created.")
		return r.finish(ctx, report, opts)
	}

	if !opts.yes {
		r.writePlain("\n")
		confirmed, err := r.prompter.Confirm(ctx, fmt.Sprintf("Create YouTube playlist with %d videos? (y/n): ", len(matched.Matches)))
		if errors.Is(err, shared.ErrCanceled) {
			confirmed = false
		} else if err != nil {
			return err
		}
		if !confirmed {
			report.Status = models.RunCanceled
			r.writePlain("Canceled. No playlist created.\n")
			return r.finish(ctx, report, opts)
		}
	}

	var playlist *models.Playlist
	err = r.withProgress(transcript, func(progress chan<- tasks.ProgressUpdate) error {
		playlist, err = engine.Create(ctx, export.Playlist.Name, opts.privacy, progress)
		return err
	})
	if err != nil {
		r.writePlain("%s Failed to create playlist.\n", r.palette.Err("[-]"))
		report.Status = models.RunFailed
		if finishErr := r.finish(ctx, report, opts); finishErr != nil {
			r.logger.Warn("failed to record run", "error", finishErr)
		}
		return err
	}
	r.writePlain("   Playlist ID: %s\n", playlist.ID)
	r.writePlain("   URL: %s\n", playlist.URL)
	report.Destination = playlist

	r.writePlainln("Adding %d videos to playlist...", len(matched.Matches))
	var inserted *tasks.InsertResult
	err = r.withProgress(transcript, func(progress chan<- tasks.ProgressUpdate) error {
		inserted, err = engine.Insert(ctx, playlist.ID, matched.Matches, progress)
		return err
	})
	transcript.Close()
	if inserted != nil {
		report.Added = inserted.Added
		report.Failed = inserted.Failed
	}
	if err != nil {
		report.Status = models.RunFailed
		if finishErr := r.finish(ctx, report, opts); finishErr != nil {
			r.logger.Warn("failed to record run", "error", finishErr)
		}
		return err
	}

	r.writePlainln("%s Successfully added %d videos", r.palette.OK("[+]"), inserted.Added)
	if inserted.Failed > 0 {
		r.writePlain("%s Failed to add %d videos\n", r.palette.Warn("[!]"), inserted.Failed)
	}
	if inserted.QuotaExceeded {
		r.writePlain("%s YouTube quota exhausted; rerun later to add the rest.\n", r.palette.Warn("[!]"))
	}

	report.Status = models.RunCompleted
	r.printSummary(report)
	return r.finish(ctx, report, opts)
}

// printSummary writes the closing block of a completed conversion.
func (r *Runner) printSummary(report *models.Report) {
	r.writePlain("\n")
	r.writePlainHeader("CONVERSION COMPLETE!")
	if converted := report.Converted(); converted == len(report.Matches) {
		r.writePlain("%s Converted: %d tracks\n", r.palette.OK("[+]"), converted)
	} else {
		r.writePlain("%s Converted: %d of %d matched tracks\n", r.palette.OK("[+]"), converted, len(report.Matches))
	}
	r.writePlain("%s Not found: %d tracks\n", r.palette.Err("[-]"), len(report.Missing()))

	r.writePlainln("%s Your YouTube playlist:", r.palette.Title("[*]"))
	r.writePlain("   %s\n", report.Destination.URL)

	if missing := report.Missing(); len(missing) > 0 {
		r.writePlainln("%s Tracks not found on YouTube:", r.palette.Warn("[!]"))
		for _, track := range missing {
			r.writePlain("   - %s\n", track.Label())
		}
	}
}

// finish exports the report and records the run.
func (r *Runner) finish(ctx context.Context, report *models.Report, opts convertOptions) error {
	if opts.exportPath != "" {
		format, err := formatter.WriteReport(report, opts.exportPath)
		if err != nil {
			return err
		}
		r.logger.Info("report exported", "path", opts.exportPath, "format", format)
		r.writePlain("\nReport written to %s\n", opts.exportPath)
	}

	if opts.noHistory {
		return nil
	}

	runs, release, err := r.history(ctx)
	if err != nil {
		r.logger.Warn("history unavailable, run not recorded", "error", err)
		return nil
	}
	defer release()

	run := report.ToRun(shared.GenerateID())
	if err := runs.Create(ctx, run); err != nil {
		r.logger.Warn("failed to record run", "error", err)
		return nil
	}
	r.logger.Debug("run recorded", "id", run.RunID, "status", run.Status)
	return nil
}
