package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dadrock/internal/repositories"
	"github.com/desertthunder/dadrock/internal/services"
	"github.com/desertthunder/dadrock/internal/shared"
	"github.com/desertthunder/dadrock/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	fetchers   tasks.FetcherFactory
	locker     *tasks.ChannelLocker
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB              // Opened from Config.Database on first use when nil
	Fetchers   tasks.FetcherFactory // Defaults to the YouTube Data API
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Fetchers == nil {
		opts.Fetchers = youtubeFetchers(opts.Config)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		fetchers:   opts.Fetchers,
		locker:     tasks.NewChannelLocker(opts.Config.Sync.LockDir),
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// youtubeFetchers builds page fetchers against the YouTube Data API using the configured endpoint and pacing.
func youtubeFetchers(config *shared.Config) tasks.FetcherFactory {
	return func(ctx context.Context, apiKey string) (services.PageFetcher, error) {
		svc, err := services.NewYouTubeService(ctx, apiKey, services.YouTubeOptions{
			Endpoint:          config.Credentials.YouTube.Endpoint,
			RequestsPerSecond: config.Sync.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, syncCommand, serveCommand, videosCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// store opens the catalog database on first use and runs pending migrations.
func (r *Runner) store() (*repositories.VideoRepository, error) {
	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		r.db = db
	}
	return repositories.NewVideoRepository(r.db), nil
}

// engine builds a sync engine over store using the configured defaults.
func (r *Runner) engine(store *repositories.VideoRepository) *tasks.SyncEngine {
	return tasks.NewSyncEngine(store, r.fetchers, tasks.SyncOptions{
		DefaultChannelID: r.config.Sync.ChannelID,
		DefaultAPIKey:    r.config.Credentials.YouTube.APIKey,
		Timeout:          r.config.Sync.Timeout(),
		Locker:           r.locker,
		Logger:           r.logger,
	})
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
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
