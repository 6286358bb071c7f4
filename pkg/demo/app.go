// Package demo rebuilds the counter demo page on the reactive runtime.
//
// The page has a counter with reset and increment buttons, a button that
// shifts itself by ten pixels per click, a derived "double" readout, a
// static list, a dynamic list of independent counters, two progress bars
// and a small form with one controlled and one uncontrolled field. A
// TextHost stands in for the browser: effects push values into it and it
// renders the result as text.
package demo

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vango-dev/reactor/pkg/binding"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/reconcile"
	"github.com/vango-dev/reactor/pkg/view"
)

// ErrUnknownCounter is returned when an action names a counter that is not
// in the dynamic list.
var ErrUnknownCounter = errors.New("demo: unknown counter")

// Counter is the per-key state of the dynamic list.
type Counter struct {
	ID    uint64
	Count *reactive.Signal[int]
}

// Submission is the result of submitting the form.
type Submission struct {
	Name  string
	Email string
}

// App is the demo page.
type App struct {
	rt     *reactive.Runtime
	scope  *reactive.Scope
	cfg    Config
	logger *slog.Logger
	host   *TextHost

	count      *reactive.Signal[int]
	x          *reactive.Signal[int]
	double     *reactive.Memo[int]
	isEven     *reactive.Memo[bool]
	left       *reactive.Memo[string]
	background *reactive.Memo[string]

	counters *reactive.Signal[[]uint64]
	seq      *reconcile.Sequence
	list     *reconcile.List[uint64, *Counter]

	name        *reactive.Signal[string]
	nameField   *binding.Controlled[string]
	email       *binding.Uncontrolled[string]
	submissions []Submission
}

// New mounts the demo page in a new root scope of rt.
func New(rt *reactive.Runtime, cfg Config) (*App, error) {
	cfg = cfg.withDefaults()
	a := &App{
		rt:     rt,
		scope:  rt.NewScope(nil),
		cfg:    cfg,
		logger: cfg.Logger,
		host:   newTextHost(cfg.ProgressMax),
	}

	var err error
	a.scope.Run(func() {
		err = a.mount()
	})
	if err != nil {
		a.scope.Dispose()
		return nil, fmt.Errorf("demo: mount: %w", err)
	}
	return a, nil
}

// mount creates every node of the page in the current scope.
func (a *App) mount() error {
	steps := []func() error{
		a.mountCounter,
		a.mountColumns,
		a.mountStatic,
		a.mountDynamic,
		a.mountProgress,
		a.mountForm,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) mountCounter() error {
	var err error
	if a.count, err = reactive.NewSignal(a.rt, 0, reactive.Label("count")); err != nil {
		return err
	}
	if a.double, err = reactive.NewMemo(a.rt, func() int {
		return a.count.Get() * 2
	}, reactive.Label("double")); err != nil {
		return err
	}
	if a.isEven, err = reactive.NewMemo(a.rt, func() bool {
		return a.count.Get()%2 == 0
	}, reactive.Label("is-even")); err != nil {
		return err
	}
	if _, err = reactive.NewEffect(a.rt, func() error {
		a.host.addClass = ""
		if a.isEven.Get() {
			a.host.addClass = "red"
		}
		return nil
	}, reactive.Label("add-class")); err != nil {
		return err
	}
	_, err = reactive.NewEffect(a.rt, func() error {
		a.host.countText = "current count: " + strconv.Itoa(a.double.Get())
		return nil
	}, reactive.Label("count-text"))
	return err
}

func (a *App) mountColumns() error {
	var err error
	if a.x, err = reactive.NewSignal(a.rt, 0, reactive.Label("x")); err != nil {
		return err
	}
	if a.left, err = reactive.NewMemo(a.rt, func() string {
		return fmt.Sprintf("%dpx", a.x.Get()+160)
	}, reactive.Label("left")); err != nil {
		return err
	}
	if a.background, err = reactive.NewMemo(a.rt, func() string {
		return fmt.Sprintf("rgb(%d, 100, 100)", a.x.Get()%255)
	}, reactive.Label("background")); err != nil {
		return err
	}
	_, err = reactive.NewEffect(a.rt, func() error {
		a.host.columnStyle = fmt.Sprintf("position: absolute; left: %s; background-color: %s; --colums: %d",
			a.left.Get(), a.background.Get(), a.x.Get())
		return nil
	}, reactive.Label("column-style"))
	return err
}

func (a *App) mountStatic() error {
	a.host.static = make([]string, a.cfg.StaticElements)
	for i := range a.host.static {
		a.host.static[i] = strconv.Itoa(i)
	}
	return nil
}

func (a *App) mountProgress() error {
	bars := []reactive.Getter[int]{a.count, a.double}
	for i, src := range bars {
		i, src := i, src
		_, err := reactive.NewEffect(a.rt, func() error {
			a.host.progress[i] = strconv.Itoa(src.Get())
			return nil
		}, reactive.Label("progress-"+strconv.Itoa(i)))
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) mountForm() error {
	var err error
	if a.name, err = reactive.NewSignal(a.rt, "", reactive.Label("name")); err != nil {
		return err
	}
	if a.nameField, err = binding.NewControlled(a.rt, a.name, binding.SinkFunc[string](func(v string) {
		a.host.nameValue = v
	})); err != nil {
		return err
	}
	a.email = binding.NewUncontrolled[string](a.rt)
	a.MountEmail()
	return nil
}

// Close disposes every node of the page.
func (a *App) Close() {
	a.scope.Dispose()
}

// Runtime returns the runtime the page is mounted in.
func (a *App) Runtime() *reactive.Runtime {
	return a.rt
}

// Host returns the materialized page.
func (a *App) Host() *TextHost {
	return a.host
}

// View returns the materialized page as a view tree.
func (a *App) View() *view.Node {
	return a.host.View()
}

// Count returns the counter value.
func (a *App) Count() int {
	return a.count.Peek()
}

// Double returns the derived double of the counter.
func (a *App) Double() int {
	return a.double.Peek()
}

// X returns the column offset.
func (a *App) X() int {
	return a.x.Peek()
}

// Submissions returns every successful form submission.
func (a *App) Submissions() []Submission {
	return append([]Submission(nil), a.submissions...)
}

// act runs fn as one tick: every write it makes is flushed once, after fn
// returns.
func (a *App) act(name string, fn func() error) error {
	var err error
	if berr := a.rt.Batch(func() { err = fn() }); berr != nil {
		return berr
	}
	if err != nil {
		return err
	}
	a.logger.Debug("demo action", "action", name)
	return nil
}

// Reset sets the counter back to zero.
func (a *App) Reset() error {
	return a.act("reset", func() error {
		return a.count.Set(0)
	})
}

// Increment adds one to the counter.
func (a *App) Increment() error {
	return a.act("increment", func() error {
		return a.count.Update(func(n int) int { return n + 1 })
	})
}

// AddColumns shifts the columns button ten pixels to the right.
func (a *App) AddColumns() error {
	return a.act("add-columns", func() error {
		return a.x.Update(func(n int) int { return n + 10 })
	})
}
