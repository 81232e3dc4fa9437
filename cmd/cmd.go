// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are accepted before any command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   defaultConfigPath,
		},
		&cli.StringFlag{
			Name:  "env",
			Usage: "Path to a .env file with credentials",
			Value: defaultEnvPath,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
	}
}

// newApp builds the root command.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "sp2yt",
		Usage:    "Convert a Spotify playlist into a YouTube playlist",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   r.configure,
		Commands: r.register(),
	}
}

// convertCommand runs the full conversion pipeline.
func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a Spotify playlist to a YouTube playlist",
		ArgsUsage: "[playlist URL, URI or ID]",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "playlist"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Create the playlist without asking",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Stop after matching; no playlist is created",
			},
			&cli.StringFlag{
				Name:  "privacy",
				Usage: "Playlist privacy: private, public or unlisted (default from config)",
			},
			&cli.BoolFlag{
				Name:  "skip-uncertain",
				Usage: "Leave out matches whose title agrees with neither track nor artist",
			},
			&cli.IntFlag{
				Name:  "max-results",
				Usage: "Search results requested per track (default from config)",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"o"},
				Usage:   "Write the conversion report to a .json, .csv, .md or .txt file",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record the run in the history database",
			},
		},
		Action: r.Convert,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize access and cache tokens",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authorize Spotify (or verify client credentials)",
				Action: r.AuthSpotify,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Authorize YouTube using client_secret.json",
				Action:  r.AuthYouTube,
			},
		},
	}
}

// searchCommand prints raw YouTube search results.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search YouTube the way convert does and print the results",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-results",
				Usage: "Number of results (default from config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// historyCommand inspects recorded conversions.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past conversions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded conversions, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs (0 for all)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one conversion track by track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Delete one conversion record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the history database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
