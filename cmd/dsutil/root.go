package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/config"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/data"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/logging"
)

// app carries the state shared by every subcommand once the root command
// has loaded configuration.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:               "dsutil",
		Short:             "Tabular data preparation utilities",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file (environment variables override it)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.scaffoldCmd(),
		a.validateCmd(),
		a.profileCmd(),
		a.outliersCmd(),
		a.encodeCmd(),
		a.splitCmd(),
		a.prepareCmd(),
		a.plotCmd(),
		a.trainCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	a.cfg = cfg
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

func (a *app) load(path string) (*frame.Table, error) {
	return data.LoadCSV(path, a.loadOptions()...)
}

func (a *app) loadOptions() []data.LoadOption {
	return []data.LoadOption{
		data.WithDelimiter(a.cfg.CSV.DelimiterRune()),
		data.WithNullValues(a.cfg.CSV.NullValues...),
	}
}

// write saves t to path, or to stdout when path is empty.
func (a *app) write(path string, t *frame.Table) error {
	if path == "" {
		return data.WriteCSV(a.stdout, t)
	}
	if err := data.SaveCSV(path, t); err != nil {
		return err
	}
	a.logger.Info("Table written",
		zap.String("path", path),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumCols()))
	return nil
}
