// Package bench times change propagation through grids of memos.
//
// A grid of width w and height h is one source signal feeding w chains of h
// memos, each chain ending in an effect. Every iteration writes the source
// once and measures the flush that follows.
package bench

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vango-dev/reactor/internal/logging"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// ErrMismatch is returned when an effect observed a value other than the
// one the grid should produce.
var ErrMismatch = errors.New("bench: effect observed a stale value")

// Config selects the grids to run.
type Config struct {
	Widths     []int
	Heights    []int
	Iterations int

	// Logger is handed to each runtime. Default: discards everything.
	Logger *slog.Logger
}

// DefaultConfig mirrors the usual 1..1000 sweep.
func DefaultConfig() Config {
	return Config{
		Widths:     []int{1, 10, 100, 1_000},
		Heights:    []int{1, 10, 100, 1_000},
		Iterations: 100,
	}
}

// Result is the timing of one grid.
type Result struct {
	Width  int
	Height int

	// Nodes is the number of live nodes in the grid.
	Nodes int

	// Runs is the number of memo and effect runs per update.
	Runs int

	Metrics *tachymeter.Metrics
}

// Name returns the row label of r.
func (r Result) Name() string {
	return fmt.Sprintf("propagate: %d * %d", r.Width, r.Height)
}

// Run times every width/height combination in cfg.
func Run(cfg Config) ([]Result, error) {
	var results []Result
	for _, w := range cfg.Widths {
		for _, h := range cfg.Heights {
			r, err := Propagate(w, h, cfg.Iterations, cfg.Logger)
			if err != nil {
				return results, err
			}
			results = append(results, r)
		}
	}
	return results, nil
}

// Propagate builds one grid and times iters source writes.
func Propagate(w, h, iters int, logger *slog.Logger) (Result, error) {
	if w <= 0 || h <= 0 || iters <= 0 {
		return Result{}, fmt.Errorf("bench: invalid grid %dx%d with %d iterations", w, h, iters)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	var runs int
	rt := reactive.NewRuntime(
		reactive.WithLogger(logger),
		reactive.WithFlushBudget(0),
		reactive.WithFlushObserver(reactive.FlushObserverFunc(func(r reactive.FlushReport) {
			runs = r.Runs()
		})),
	)
	root := rt.NewScope(nil)
	defer root.Dispose()

	var (
		src  *reactive.Signal[int]
		seen = make([]int, w)
		err  error
	)
	root.Run(func() {
		err = build(rt, w, h, seen, &src)
	})
	if err != nil {
		return Result{}, err
	}

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := src.Set(src.Peek() + 1); err != nil {
			return Result{}, err
		}
		tach.AddTime(time.Since(start))
	}

	want := src.Peek() + h
	for col, got := range seen {
		if got != want {
			return Result{}, fmt.Errorf("%w: column %d saw %d, want %d", ErrMismatch, col, got, want)
		}
	}

	return Result{
		Width:   w,
		Height:  h,
		Nodes:   rt.Stats().Nodes,
		Runs:    runs,
		Metrics: tach.Calc(),
	}, nil
}

func build(rt *reactive.Runtime, w, h int, seen []int, src **reactive.Signal[int]) error {
	s, err := reactive.NewSignal(rt, 1, reactive.Label("source"))
	if err != nil {
		return err
	}
	*src = s

	for col := 0; col < w; col++ {
		col := col
		var last reactive.Getter[int] = s
		for row := 0; row < h; row++ {
			prev := last
			m, err := reactive.NewMemo(rt, func() int { return prev.Get() + 1 })
			if err != nil {
				return err
			}
			last = m
		}

		tail := last
		_, err := reactive.NewEffect(rt, func() error {
			seen[col] = tail.Get()
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Render writes results as a table to w.
func Render(w io.Writer, title string, results []Result) {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"benchmark", "nodes", "runs/update", "avg", "min", "p75", "p99", "max", "updates/s"})

	for _, r := range results {
		calc := r.Metrics
		tbl.AppendRow(table.Row{
			r.Name(),
			humanize.Comma(int64(r.Nodes)),
			humanize.Comma(int64(r.Runs)),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
			humanize.Comma(int64(perSecond(calc.Time.Avg))),
		})
	}
	tbl.Render()
}

func perSecond(avg time.Duration) float64 {
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}
