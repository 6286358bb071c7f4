package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/logging"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli holds what PersistentPreRunE resolved for the running command.
type cli struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "Fine-grained reactive runtime playground",
		Long: `reactor drives a fine-grained reactive runtime from the terminal.

  • demo    run the counter page from a script
  • bench   time propagation through memo grids
  • serve   run the page behind a live inspector`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (YAML, JSON or TOML)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.Int("flush-budget", reactive.DefaultFlushBudget, "max computations per flush (0 for no limit)")

	rootCmd.AddCommand(
		demoCmd(c),
		benchCmd(c),
		serveCmd(c),
		versionCmd(),
	)
	return rootCmd
}

// load resolves configuration and logging for cmd.
func (c *cli) load(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := loader.Load(c.configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
		Prefix: "reactor",
	})
	if err != nil {
		return errors.New("R050").Wrap(err)
	}

	c.cfg = cfg
	c.logger = logger
	if path := cfg.Path(); path != "" {
		logger.Debug("config loaded", "path", path)
	}
	return nil
}

// runtime returns a Runtime configured from c.
func (c *cli) runtime(opts ...reactive.Option) *reactive.Runtime {
	opts = append([]reactive.Option{
		reactive.WithLogger(c.logger),
		reactive.WithFlushBudget(c.cfg.Runtime.FlushBudget),
	}, opts...)
	return reactive.NewRuntime(opts...)
}
