package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymx/internal/repositories"
	"github.com/desertthunder/ymx/internal/services"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/tasks"
	"github.com/desertthunder/ymx/internal/ui"
	"github.com/urfave/cli/v3"
)

// SourceFactory builds an authenticated source catalog for a configured user.
type SourceFactory func(ctx context.Context, config *shared.Config, user *shared.UserConfig) (services.SourceCatalog, error)

// DestinationFactory builds an authenticated destination catalog for a configured user.
type DestinationFactory func(ctx context.Context, config *shared.Config, user *shared.UserConfig, logger *log.Logger) (services.DestinationCatalog, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	logger      *log.Logger
	input       *bufio.Reader
	output      io.Writer
	source      SourceFactory
	destination DestinationFactory
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config flag when a command needs it.
type RunnerOpts struct {
	Config      *shared.Config
	Logger      *log.Logger
	Input       io.Reader
	Output      io.Writer
	Source      SourceFactory
	Destination DestinationFactory
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Source == nil {
		opts.Source = yandexSource
	}
	if opts.Destination == nil {
		opts.Destination = spotifyDestination
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		logger:      opts.Logger,
		input:       bufio.NewReader(opts.Input),
		output:      opts.Output,
		source:      opts.Source,
		destination: opts.Destination,
		openBrowser: opts.OpenBrowser,
	}
}

// SetLogger replaces the logger used by subsequent actions.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before applies the --log-level flag.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if level := cmd.String("log-level"); level != "" {
		if err := shared.SetLogLevel(r.logger, level); err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

// loadConfig returns the injected config or reads and validates the file at path.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	if r.config == nil {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s (run `ymx setup` to create one)", shared.ErrMissingConfig, path)
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		r.config = config
	}

	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	return r.config, nil
}

// readLine reads one trimmed line of input. A final line without a newline is returned as is.
func (r *Runner) readLine() (string, error) {
	line, err := r.input.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", shared.ErrInputClosed
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// chooseUser returns the named user, or prompts for one when name is empty. Invalid choices re-prompt.
func (r *Runner) chooseUser(config *shared.Config, name string) (*shared.UserConfig, error) {
	if name != "" {
		return config.User(name)
	}

	names := config.UserNames()
	for {
		r.writePlain("Available users:\n")
		for i, n := range names {
			r.writePlain("%d. %s\n", i+1, n)
		}
		r.writePlain("Choose a user (enter the number): ")

		line, err := r.readLine()
		if err != nil {
			return nil, err
		}

		idx, ok := menuIndex(line, len(names))
		if !ok {
			r.writePlain("%s\n", ui.Styles.Warn("Invalid choice"))
			continue
		}
		return &config.Users[idx-1], nil
	}
}

// session is the per-user wiring shared by the transfer actions.
type session struct {
	user   string
	engine *tasks.Engine
	close  func()
}

type sessionOpts struct {
	headless   string
	reportPath string
}

// openSession authenticates both catalogs for user and builds the transfer engine.
//
// Authentication failures are returned and end the run. A history database that cannot be opened is logged and skipped.
func (r *Runner) openSession(ctx context.Context, config *shared.Config, user *shared.UserConfig, opts sessionOpts) (*session, error) {
	logger := shared.WithLogger(r.logger, "user", user.Name)

	source, err := r.source(ctx, config, user)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize source catalog for %s: %w", user.Name, err)
	}
	dest, err := r.destination(ctx, config, user, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize destination catalog for %s: %w", user.Name, err)
	}

	var resolver tasks.Resolver
	if opts.headless != "" {
		if resolver, err = tasks.NewHeadlessResolver(opts.headless); err != nil {
			return nil, err
		}
	} else {
		resolver = tasks.NewPromptResolver(r.input, r.output, dest)
	}

	reportPath := opts.reportPath
	if reportPath == "" {
		reportPath = config.ReportPath
	}

	engine := tasks.NewEngine(source, dest, nil, resolver, logger)
	engine.User = user.Name
	engine.ChunkSize = config.ChunkSize
	engine.Reporter = tasks.NewSessionReporter(tasks.FileReporter{Path: reportPath})
	engine.Progress = r.progress

	s := &session{user: user.Name, engine: engine, close: func() {}}

	db, err := shared.OpenHistory(config.Database)
	if err != nil {
		logger.Warn("transfer history disabled", "error", err)
	} else if db != nil {
		engine.Recorder = repositories.NewTransferRepository(db)
		s.close = func() { db.Close() }
	}
	return s, nil
}

// progress prints transfer milestones. Per-track updates go to the debug log.
func (r *Runner) progress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.MatchTracks, tasks.FetchPlaylists:
		r.logger.Debug(update.Message, "phase", update.Phase)
	case tasks.TransferPlaylist:
		r.writePlain("%s\n", ui.Styles.OK(update.Message))
	default:
		r.writePlain("%s\n", ui.Styles.Help(update.Message))
	}
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("%s\n", ui.Styles.Title(title))
}
