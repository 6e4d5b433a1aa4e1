// Package cli implements the neoscope command-line interface.
package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/neoscope/internal/config"
	"github.com/agenthands/neoscope/internal/core"
	"github.com/agenthands/neoscope/internal/core/extraction"
	"github.com/agenthands/neoscope/internal/logger"
	"github.com/agenthands/neoscope/internal/metrics"
)

// App carries the global flags and the state resolved from them before a
// subcommand runs.
type App struct {
	configPath string
	neoFile    string
	cadFile    string
	strict     bool
	logLevel   string

	Config *config.Config
	Logger *zap.SugaredLogger
}

// NewRootCmd builds the neoscope command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "neoscope",
		Short: "Explore close approaches of near-Earth objects",
		Long: `neoscope loads a catalog of near-Earth objects (CSV) and their close
approaches to Earth (JSON), links them, and answers filtered queries.

Examples:
  neoscope inspect --name Eros --verbose
  neoscope query --date 2020-01-01 --max-distance 0.1
  neoscope query --hazardous --limit 0 --outfile hazards.json
  neoscope serve`,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.configPath, "config", "config/config.toml", "Path to the TOML config file")
	pf.StringVar(&app.neoFile, "neofile", "", "Path to the NEO CSV file (overrides config)")
	pf.StringVar(&app.cadFile, "cadfile", "", "Path to the close approach JSON file (overrides config)")
	pf.BoolVar(&app.strict, "strict", false, "Fail when a close approach references an unknown NEO")
	pf.StringVar(&app.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		app.inspectCommand(),
		app.queryCommand(),
		app.exportCommand(),
		app.serveCommand(),
	)

	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup resolves configuration in increasing precedence: defaults, config
// file, environment, flags.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.ApplyEnv(); err != nil {
		return errors.Wrap(err, "failed to apply environment")
	}

	if cmd.Flag("neofile").Changed {
		cfg.Data.NEOs = a.neoFile
	}
	if cmd.Flag("cadfile").Changed {
		cfg.Data.Approaches = a.cadFile
	}
	if cmd.Flag("strict").Changed {
		cfg.Linkage.Strict = a.strict
	}
	if cmd.Flag("log-level").Changed {
		cfg.Log.Level = a.logLevel
	}
	a.Config = cfg

	if a.Logger == nil {
		a.Logger, err = logger.New(cfg.Log)
		if err != nil {
			return errors.Wrap(err, "failed to build logger")
		}
	}
	return nil
}

// loadDatabase extracts both data files and links them.
func (a *App) loadDatabase() (*core.Database, error) {
	ext := extraction.NewExtractor(logger.Component(a.Logger, "extraction"))

	neos, err := ext.LoadNEOs(a.Config.Data.NEOs)
	if err != nil {
		return nil, errors.WithHint(err, "set --neofile or [data] neos in the config file")
	}
	approaches, err := ext.LoadApproaches(a.Config.Data.Approaches)
	if err != nil {
		return nil, errors.WithHint(err, "set --cadfile or [data] approaches in the config file")
	}

	db, err := core.Link(neos, approaches,
		core.WithStrictLinkage(a.Config.Linkage.Strict),
		core.WithLogger(logger.Component(a.Logger, "store")),
	)
	if err != nil {
		return nil, err
	}

	metrics.RecordStore(len(db.NEOs()), len(db.Approaches()), len(db.Orphans()))
	return db, nil
}
