package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/adapters/notify"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/adapters/roster"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/adapters/storage"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/application/planner"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/application/scheduler"
)

var (
	// Global flags
	cfgFile    string
	rosterFile string
	dbPath     string
	verbose    bool
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "lineup",
	Short: "Squad lineup optimizer and rotation planner",
	Long: `lineup plans a starting lineup for every upcoming fixture.

Each fixture is solved as an assignment problem over agent×role scores that
combine readiness (condition, sharpness, fatigue), importance-weighted
utility, continuity with the previous lineup and a shadow price for future,
more important fixtures. The plan for one fixture feeds the readiness of
the next.

Commands:
  plan       Compute the lineups for the roster's fixtures
  confirm    Lock the saved lineup of a fixture
  override   Force an agent into a role for a fixture
  history    Show saved runs and lineups`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults + env)")
	rootCmd.PersistentFlags().StringVar(&rosterFile, "roster", "roster.yaml", "roster/fixtures YAML file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set log level to debug")
	rootCmd.PersistentFlags().StringVar(&logFormat, "format", "", "log format: text|json (overrides config)")
}

// loadConfig carga la configuración y aplica los flags globales.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if dbPath != "" {
		cfg.Storage.DSN = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setupLogger(cfg.Log)
	return cfg, nil
}

// app agrupa las dependencias construidas para un subcomando.
type app struct {
	cfg     *config.Config
	planner *planner.Planner
	console *notify.Console
	store   *storage.SQLiteStorage
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("failed to close storage", "err", err)
		}
	}
}

// newApp construye el grafo de dependencias. La salida legible va a out.
func newApp(cfg *config.Config, schedCfg scheduler.Config, out io.Writer, table, explain bool) (*app, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage %q: %w", cfg.Storage.DSN, err)
	}
	a := &app{
		cfg:     cfg,
		console: notify.NewConsole(out, table, explain),
		store:   store,
	}

	source := roster.NewFileSource(rosterFile)
	sched := scheduler.New(schedCfg)
	a.planner = planner.New(sched, source, store, a.console)
	return a, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stderr: stdout queda para las tablas
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
