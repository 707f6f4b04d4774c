// Package commands implements the goslm subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/willibrandon/goslm/cmd/goslm/cli"
	"github.com/willibrandon/goslm/cmd/goslm/config"
	"github.com/willibrandon/goslm/cmd/goslm/output"
	"github.com/willibrandon/goslm/cmd/goslm/version"
	"github.com/willibrandon/goslm/observability"
	"github.com/willibrandon/goslm/settings"
	"github.com/willibrandon/goslm/settingsstore"
	"github.com/willibrandon/goslm/solution"
)

// session is everything one command invocation works with: the merged
// configuration, the solution and a manager for the configured backend.
type session struct {
	ctx     context.Context
	console *output.Console
	opts    *cli.GlobalOptions
	cfg     *config.Config
	logger  observability.Logger
	start   time.Time

	solutionPath string
	sol          *solution.Solution

	backend string
	manager settings.Manager

	span    trace.Span
	tp      *sdktrace.TracerProvider
	closers []func() error
}

// openSession loads configuration, applies the global flags on top of it,
// finds the solution and opens the configured backend. The caller must
// call finish.
func openSession(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, command string) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := opts.ValidateFormat(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		cfg.Backend = strings.ToLower(opts.Backend)
	}
	if opts.SettingsDSN != "" {
		cfg.SettingsDSN = opts.SettingsDSN
	}
	if opts.Verbosity != "" {
		cfg.Verbosity = opts.Verbosity
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	verbosity, err := output.ParseVerbosity(cfg.Verbosity)
	if err != nil {
		return nil, err
	}
	console.SetVerbosity(verbosity)

	level, err := observability.ParseLogLevel(cfg.Verbosity)
	if err != nil {
		return nil, err
	}

	s := &session{
		ctx:     ctx,
		console: console,
		opts:    opts,
		cfg:     cfg,
		logger:  observability.NewLogger(console.Err(), level).ForContext("Command", command),
		start:   time.Now(),
		backend: cfg.Backend,
	}

	if cfg.Tracing.Exporter != "none" {
		tc := observability.DefaultTracerConfig()
		tc.ServiceVersion = version.Version
		tc.ExporterType = cfg.Tracing.Exporter
		tc.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
		tc.SamplingRate = cfg.Tracing.SamplingRate

		tp, err := observability.SetupTracing(ctx, tc)
		if err != nil {
			return nil, err
		}
		s.tp = tp
	}

	s.solutionPath, err = findSolution(opts.Solution)
	if err != nil {
		return nil, s.finish(err)
	}
	s.ctx, s.span = observability.StartCommandSpan(ctx, command, s.solutionPath)

	console.Detail("Solution: %s", s.solutionPath)
	console.Detail("Backend: %s", s.backend)

	s.manager, err = s.openManager(s.backend)
	if err != nil {
		return nil, s.finish(err)
	}
	return s, nil
}

// finish ends the command span, releases the backend and flushes metrics
// and traces. It returns err joined with anything that failed on the way.
func (s *session) finish(err error) error {
	if s.span != nil {
		observability.EndSpanWithError(s.span, err)
	}

	errs := []error{err}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil

	if s.cfg.MetricsFile != "" {
		if werr := observability.WriteMetricsFile(s.cfg.MetricsFile); werr != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", werr))
		}
	}
	errs = append(errs, observability.ShutdownTracing(context.Background(), s.tp))

	s.console.Debug("Finished in %d ms", output.MeasureElapsed(s.start))
	return errors.Join(errs...)
}

// openManager binds a manager of the given backend to the session's solution
func (s *session) openManager(backend string) (settings.Manager, error) {
	var (
		m   settings.Manager
		err error
	)

	switch backend {
	case config.BackendXML:
		m, err = settings.NewXMLManager(settings.XMLManagerConfig{
			SolutionPath: s.solutionPath,
			Logger:       s.logger,
		})
	case config.BackendSettings:
		store, serr := openSettingsStore(s.cfg.SettingsDSN)
		if serr != nil {
			return nil, serr
		}
		s.closers = append(s.closers, store.Close)
		m, err = settings.NewStoreManager(settings.StoreManagerConfig{
			SolutionID: solution.SolutionIDForPath(s.solutionPath),
			Store:      store,
			Logger:     s.logger,
		})
	case config.BackendMemory:
		m, err = settings.NewStoreManager(settings.StoreManagerConfig{
			SolutionID: solution.SolutionIDForPath(s.solutionPath),
			Store:      settingsstore.NewMemoryStore(),
			Logger:     s.logger,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q (use %s)", backend, strings.Join(config.Backends(), ", "))
	}
	if err != nil {
		return nil, err
	}

	return settings.Instrument(s.ctx, m, backend, s.logger), nil
}

// openSettingsStore opens the settings database, creating the directory of
// a sqlite file when needed
func openSettingsStore(dsn string) (*settingsstore.DBStore, error) {
	if !strings.HasPrefix(dsn, settingsstore.MySQLScheme) && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create settings directory: %w", err)
			}
		}
	}
	return settingsstore.OpenDB(dsn)
}

// findSolution resolves --solution, which may name a .sln file or a
// directory to search, or detects the solution in the working directory.
func findSolution(given string) (string, error) {
	searchDir := ""
	if given != "" {
		info, err := os.Stat(given)
		if err == nil && info.IsDir() {
			searchDir = given
		} else {
			if err := solution.ValidateSolutionFile(given); err != nil {
				return "", err
			}
			return filepath.Abs(given)
		}
	}

	result, err := solution.NewDetector(searchDir).DetectSolution()
	if err != nil {
		return "", err
	}
	if !result.Found {
		dir := searchDir
		if dir == "" {
			dir = "the current directory"
		}
		return "", fmt.Errorf("no solution file found in %s; use --solution to specify one", dir)
	}
	if result.Ambiguous {
		return "", fmt.Errorf("found more than one solution file, use --solution to pick one: %s",
			strings.Join(result.FoundFiles, ", "))
	}
	return result.SolutionPath, nil
}

// solution parses the session's solution file on first use
func (s *session) solution() (*solution.Solution, error) {
	if s.sol == nil {
		sol, err := solution.ParseSolution(s.solutionPath)
		if err != nil {
			return nil, err
		}
		s.sol = sol
	}
	return s.sol, nil
}

// profileOrActive returns name, or the active profile when name is empty
func (s *session) profileOrActive(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	return s.manager.ActiveProfile()
}

// resolveProjects turns project GUIDs or names into IDs. A GUID is taken as
// is, so priorities can be recorded for projects the solution file does not
// list; a name must match a project of the solution.
func (s *session) resolveProjects(refs []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		if id, err := uuid.Parse(ref); err == nil {
			ids = append(ids, id)
			continue
		}

		sol, err := s.solution()
		if err != nil {
			return nil, err
		}
		p, err := sol.ResolveProject(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// projectNames maps project IDs to names. A solution that cannot be parsed
// yields an empty map; the IDs are still shown.
func (s *session) projectNames() map[uuid.UUID]string {
	names := map[uuid.UUID]string{}
	sol, err := s.solution()
	if err != nil {
		s.logger.Warn("Cannot read project names from {Solution}: {Error}", s.solutionPath, err)
		return names
	}
	for _, p := range sol.Projects {
		names[p.ID] = p.Name
	}
	return names
}

func (s *session) solutionName() string {
	return filepath.Base(s.solutionPath)
}

func toProjectPriority(id uuid.UUID, name string, p settings.LoadPriority) output.ProjectPriority {
	return output.ProjectPriority{
		ID:       id.String(),
		Name:     name,
		Priority: p.String(),
		Code:     uint32(p),
	}
}
