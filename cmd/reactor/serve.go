package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/pkg/demo"
	"github.com/vango-dev/reactor/pkg/inspect"
	"github.com/vango-dev/reactor/pkg/metrics"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/tracing"
	"github.com/vango-dev/reactor/pkg/view"
)

type serveOptions struct {
	script string
	tick   time.Duration
}

func serveCmd(c *cli) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the counter page behind a live inspector",
		Long: `Mount the counter page, optionally run a script against it, and serve
the inspector:

  GET /metrics       Prometheus metrics
  GET /api/flushes   recent flush reports
  GET /api/view      the page as text
  GET /ws            live flush stream

With --tick the counter is incremented on every tick.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, c, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("addr", "", "inspector listen address (default from config)")
	cmd.Flags().String("namespace", "", "Prometheus namespace (default from config)")
	cmd.Flags().StringVar(&opts.script, "script", "", "script to run before serving")
	cmd.Flags().DurationVar(&opts.tick, "tick", time.Second, "increment interval, 0 to disable")
	return cmd
}

func runServe(ctx context.Context, c *cli, opts serveOptions, out io.Writer) error {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(
		metrics.WithNamespace(c.cfg.Metrics.Namespace),
		metrics.WithRegistry(reg),
	)
	srv := inspect.New(inspect.Config{
		Address:  c.cfg.Inspect.Addr,
		History:  c.cfg.Inspect.History,
		Gatherer: reg,
		Logger:   c.logger,
	})

	rt := c.runtime(
		reactive.WithFlushObserver(collector),
		reactive.WithFlushObserver(tracing.NewObserver(tracing.WithContext(ctx))),
		reactive.WithFlushObserver(srv),
	)
	app, err := demo.New(rt, demoConfig(c))
	if err != nil {
		return err
	}
	defer app.Close()

	publish := func() {
		srv.PublishView(view.String(app.View()))
	}
	publish()

	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			return err
		}
		err = demo.RunScript(app, f, out)
		f.Close()
		if err != nil {
			return err
		}
		publish()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx)
	}()
	c.logger.Info("inspector starting", "address", c.cfg.Inspect.Addr, "tick", opts.tick)

	var ticks <-chan time.Time
	if opts.tick > 0 {
		ticker := time.NewTicker(opts.tick)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return <-errCh
		case err := <-errCh:
			return err
		case <-ticks:
			if err := app.Increment(); err != nil {
				c.logger.Warn("tick failed", "error", err)
			}
			publish()
		}
	}
}
