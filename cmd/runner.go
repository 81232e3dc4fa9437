package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/repositories"
	"github.com/desertthunder/sp2yt/internal/services"
	"github.com/desertthunder/sp2yt/internal/shared"
	"github.com/desertthunder/sp2yt/internal/tasks"
	"github.com/desertthunder/sp2yt/internal/ui"
)

const (
	defaultConfigPath = "config.toml"
	defaultEnvPath    = ".env"
	authTimeout       = 2 * time.Minute
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	prompter    ui.Prompter
	palette     *ui.Palette
	showBar     bool
	source      services.Source
	dest        services.Destination
	runs        models.Repository[*models.Run]
	openBrowser func(string) error
	authTimeout time.Duration
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Source, Destination and Runs replace the services built from the config.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	Prompter    ui.Prompter
	Source      services.Source
	Destination services.Destination
	Runs        models.Repository[*models.Run]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = defaultConfigPath
	}

	palette := ui.PlainPalette()
	terminal := ui.IsTerminal(opts.Output)
	if terminal {
		palette = ui.DefaultPalette
	}

	if opts.Prompter == nil {
		opts.Prompter = ui.NewPrompter(opts.Input, opts.Output, palette)
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		logger:      opts.Logger,
		output:      opts.Output,
		prompter:    opts.Prompter,
		palette:     palette,
		showBar:     terminal,
		source:      opts.Source,
		dest:        opts.Destination,
		runs:        opts.Runs,
		openBrowser: shared.OpenBrowser,
		authTimeout: authTimeout,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		convertCommand, authCommand, searchCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure applies the global flags. The config is resolved only when none was injected.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	switch {
	case cmd.Bool("verbose"):
		shared.SetLogLevel(r.logger, log.DebugLevel)
	case cmd.Bool("quiet"):
		shared.SetLogLevel(r.logger, log.ErrorLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config != nil {
		return ctx, nil
	}

	config, err := shared.Resolve(r.configPath, cmd.String("env"))
	if err != nil {
		return ctx, err
	}
	if err := config.Validate(); err != nil {
		return ctx, err
	}

	r.logger.Debug("configuration loaded", "path", r.configPath)
	r.config = config
	return ctx, nil
}

func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// history returns the run repository and a function releasing it.
func (r *Runner) history(ctx context.Context) (models.Repository[*models.Run], func(), error) {
	if r.runs != nil {
		return r.runs, func() {}, nil
	}

	db, err := shared.OpenDatabase(ctx, r.cfg().Database)
	if err != nil {
		return nil, nil, err
	}

	return repositories.NewRunRepository(db), func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
	}, nil
}

// newEngine builds a [tasks.ConversionEngine] from the convert config.
func (r *Runner) newEngine(source services.Source, dest services.Destination, opts tasks.Options) (*tasks.ConversionEngine, error) {
	return tasks.NewConversionEngine(source, dest, opts, r.logger)
}

// withProgress runs fn while t renders its updates.
func (r *Runner) withProgress(t *ui.Transcript, fn func(progress chan<- tasks.ProgressUpdate) error) error {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		t.Consume(progress)
	}()

	err := fn(progress)
	close(progress)
	<-done
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
