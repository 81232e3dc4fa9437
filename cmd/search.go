package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sp2yt/internal/shared"
	"github.com/desertthunder/sp2yt/internal/tasks"
)

// Search prints the raw YouTube results for a query. All arguments are joined into one query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	opts := tasks.OptionsFromConfig(r.cfg().Convert)
	if cmd.IsSet("max-results") {
		opts.MaxResults = cmd.Int("max-results")
	}

	dest, err := r.youtubeDestination(ctx)
	if err != nil {
		return err
	}

	engine, err := r.newEngine(nil, dest, opts)
	if err != nil {
		return err
	}

	r.logger.Debug("searching YouTube", "query", query, "max", opts.MaxResults)
	videos, err := engine.Search(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, true)
	}

	if len(videos) == 0 {
		return r.writePlain("No results for %q\n", query)
	}

	r.writePlain("Found %d results for %q:\n\n", len(videos), query)
	for i, v := range videos {
		r.writePlain("%d. %s\n", i+1, v.Title)
		if v.Channel != "" {
			r.writePlain("   Channel: %s\n", v.Channel)
		}
		r.writePlain("   URL: %s\n", v.URL())
	}
	return nil
}
