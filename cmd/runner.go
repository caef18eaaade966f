package main

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/daylist/internal/profile"
	"github.com/desertthunder/daylist/internal/repositories"
	"github.com/desertthunder/daylist/internal/services"
	"github.com/desertthunder/daylist/internal/shared"
	"github.com/desertthunder/daylist/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The library client and the database are created on first use so commands that need neither
// (profiles, setup config) work without credentials.
type Runner struct {
	config     *shared.Config
	configPath string
	library    services.Library
	db         *sql.DB
	ownsDB     bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Library    services.Library
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	OpenURL    func(string) error
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		library:    opts.Library,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		openURL:    opts.OpenURL,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, libraryCommand, generateCommand, cacheCommand, historyCommand, profilesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure loads the config file named by --config, applies environment overrides and sets the log level.
//
// A missing config file keeps the defaults.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmp.Or(cmd.String("config"), r.configPath, defaultConfigPath)

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}
	r.config.ApplyEnv()

	level := shared.ParseLogLevel(r.config.Logging.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// close releases the database when the runner opened it.
func (r *Runner) close(ctx context.Context, cmd *cli.Command) error {
	if r.db != nil && r.ownsDB {
		r.ownsDB = false
		return r.db.Close()
	}
	return nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// ensureLibrary returns the configured music server client, creating it from the Subsonic credentials.
func (r *Runner) ensureLibrary() (services.Library, error) {
	if r.library != nil {
		return r.library, nil
	}

	creds := r.config.Credentials.Subsonic
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	r.library = services.NewSubsonicService(creds, r.httpClient)
	return r.library, nil
}

// ensureDB opens the configured database and runs migrations.
func (r *Runner) ensureDB() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db, r.ownsDB = db, true
	return db, nil
}

// loadProfiles reads the profile file named by --profiles (or the config), narrowed to --profile when set.
func (r *Runner) loadProfiles(cmd *cli.Command) ([]profile.TasteProfile, error) {
	path := cmp.Or(cmd.String("profiles"), r.config.Generation.ProfilesPath)

	profiles, err := profile.Load(path)
	if err != nil {
		return nil, err
	}

	name := cmd.String("profile")
	if name == "" {
		return profiles, nil
	}

	p, ok := profile.Find(profiles, name)
	if !ok {
		return nil, fmt.Errorf("%w: profile %q not found in %s", shared.ErrInvalidArgument, name, path)
	}
	return []profile.TasteProfile{p}, nil
}

// newEngine wires a PlaylistEngine. The cache and history are attached when withStore is set.
func (r *Runner) newEngine(library services.Library, withStore bool) (*tasks.PlaylistEngine, error) {
	if !withStore {
		return tasks.NewPlaylistEngine(library, nil, nil, r.logger), nil
	}

	db, err := r.ensureDB()
	if err != nil {
		return nil, err
	}

	cacher := repositories.NewTrackCacheAdapter(repositories.NewTrackRepository(db))
	recorder := repositories.NewHistoryRecorder(repositories.NewGeneratedPlaylistRepository(db))
	return tasks.NewPlaylistEngine(library, cacher, recorder, r.logger), nil
}

// fetchOpts builds pool fetch options from the config and the --pool-size flag.
func (r *Runner) fetchOpts(cmd *cli.Command) tasks.FetchOpts {
	gen := r.config.Generation
	return tasks.FetchOpts{
		PoolSize:  cmp.Or(cmd.Int("pool-size"), gen.PoolSize),
		BatchSize: gen.BatchSize,
		RateLimit: gen.RateLimit,
	}
}

// logProgress logs progress updates until the channel is closed, then signals done.
func (r *Runner) logProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for update := range progress {
		logger := shared.WithLogger(r.logger, "phase", update.Phase)
		if update.Total > 0 {
			logger.Info(update.Message, "step", update.Step, "total", update.Total)
		} else {
			logger.Info(update.Message)
		}
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
