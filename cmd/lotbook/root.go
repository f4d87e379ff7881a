package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lotbook/internal/catalog"
	"github.com/hammamikhairi/lotbook/internal/config"
	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/engine"
	"github.com/hammamikhairi/lotbook/internal/logger"
	"github.com/hammamikhairi/lotbook/internal/storage"
)

// rootOptions are the persistent flags. Set flags override the environment.
type rootOptions struct {
	envFile  string
	store    string
	dataDir  string
	logLevel string
	logFile  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lotbook",
		Short: "Track recipe trial lots and compare them",
		Long: `lotbook keeps the trial lots of each dish (recipe, cooking notes and
taste evaluation) and shows what changed between a lot and its baseline:
ingredients added, removed or re-measured, steps reworded, and the ratings
that moved the most.

Examples:
  lotbook seed
  lotbook lots curry-rice --search かぼちゃ
  lotbook diff CR-2023-003
  lotbook diff CR-2023-003 --baseline CR-2023-002 --top 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	f.StringVar(&opts.store, "store", "", "store backend: badger or memory (env "+config.EnvStore+")")
	f.StringVar(&opts.dataDir, "data-dir", "", "badger data directory (env "+config.EnvDataDir+")")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: off, normal or verbose (env "+config.EnvLogLevel+")")
	f.StringVar(&opts.logFile, "log-file", "", "file to write logs to, or \"stderr\" (env "+config.EnvLogFile+")")

	cmd.AddCommand(
		newDishesCmd(opts),
		newLotsCmd(opts),
		newDiffCmd(opts),
		newEvaluateCmd(opts),
		newTextCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
		newSeedCmd(opts),
		newBrowseCmd(opts),
	)
	return cmd
}

// app holds the wired dependencies of one command run.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	dishes  domain.DishSource
	writer  domain.DishWriter
	lots    domain.LotStore
	closers []func() error
}

// openApp loads configuration, applies flag overrides and opens the store.
// The in-memory store starts with the built-in sample lots.
func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}
	if opts.store != "" {
		cfg.Store = opts.store
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if opts.logLevel != "" {
		if cfg.LogLevel, err = logger.ParseLevel(opts.logLevel); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	logOut, closeLog := openLogOutput(cfg.LogFile)
	if closeLog != nil {
		a.closers = append(a.closers, closeLog)
	}
	a.log = logger.New(cfg.LogLevel, logOut)

	switch cfg.Store {
	case config.StoreMemory:
		src := catalog.NewMemorySource(a.log.Named("catalog"))
		store := storage.NewMemoryStore(a.log.Named("store"))
		if _, err := src.Seed(ctx, store, nil); err != nil {
			a.Close()
			return nil, err
		}
		a.dishes, a.writer, a.lots = src, src, store

	case config.StoreBadger:
		db, err := storage.OpenBadger(cfg.DataDir, a.log.Named("badger"))
		if err != nil {
			a.Close()
			return nil, err
		}
		gcCtx, stopGC := context.WithCancel(ctx)
		gcDone := db.StartGC(gcCtx, cfg.GCInterval)
		a.dishes, a.writer, a.lots = db, db, db
		a.closers = append(a.closers, db.Close, func() error {
			stopGC()
			<-gcDone
			return nil
		})
	}
	a.log.Debug("store=%s data-dir=%s top-n=%d max-cells=%d", cfg.Store, cfg.DataDir, cfg.TopN, cfg.MaxCells)
	return a, nil
}

// engine builds a comparison engine from the config plus extra options.
func (a *app) engine(opts ...engine.Option) *engine.Engine {
	base := []engine.Option{
		engine.WithTopN(a.cfg.TopN),
		engine.WithMaxCells(a.cfg.MaxCells),
	}
	if a.cfg.AllAttributes {
		base = append(base, engine.WithAllAttributes())
	}
	return engine.New(a.dishes, a.lots, a.log.Named("engine"), append(base, opts...)...)
}

// Close releases the store and log file, in reverse order of opening.
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// openLogOutput opens the log destination. Anything other than "stderr"
// is a file path whose directory is created on demand.
func openLogOutput(path string) (io.Writer, func() error) {
	if path == "" || path == "stderr" {
		return os.Stderr, nil
	}
	fallback := func(err error) (io.Writer, func() error) {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fallback(err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fallback(err)
	}
	return f, f.Close
}

// withApp runs fn with an opened app and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
