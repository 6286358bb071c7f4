package demo

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactor/pkg/binding"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/view"
)

func newApp(t *testing.T, opts ...reactive.Option) (*App, *[]reactive.FlushReport) {
	t.Helper()
	var reports []reactive.FlushReport
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]reactive.Option{
		reactive.WithLogger(quiet),
		reactive.WithFlushObserver(reactive.FlushObserverFunc(func(r reactive.FlushReport) {
			reports = append(reports, r)
		})),
	}, opts...)
	rt := reactive.NewRuntime(opts...)

	cfg := DefaultConfig()
	cfg.Logger = quiet
	app, err := New(rt, cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, &reports
}

const initialView = `app
  button "Reset to Zero: "
  button class="red" "Add 1"
  button style="position: absolute; left: 160px; background-color: rgb(0, 100, 100); --colums: 0" "Add columns"
  p "current count: 0"
  ul
    li #0 "0"
    li #1 "1"
    li #2 "2"
    li #3 "3"
    li #4 "4"
  div
    button "Add Counter"
    ul
      li #0
        button "Increment: 1"
        button "Remove"
      li #1
        button "Increment: 2"
        button "Remove"
      li #2
        button "Increment: 3"
        button "Remove"
  progress max="100" value="0"
  progress max="100" value="0"
  form
    input name="name" value=""
    input name="email" value=""
    button "Submit"
`

func TestInitialView(t *testing.T) {
	app, reports := newApp(t)
	assert.Equal(t, initialView, view.String(app.View()))
	assert.Empty(t, *reports, "mounting should not need a flush")
}

func TestIncrementIsOneTick(t *testing.T) {
	app, reports := newApp(t)

	require.NoError(t, app.Increment())
	assert.Equal(t, 1, app.Count())
	assert.Equal(t, 2, app.Double())

	require.Len(t, *reports, 1)
	rep := (*reports)[0]
	assert.Equal(t, 2, rep.MemoRuns)
	assert.Equal(t, 4, rep.EffectRuns)
	assert.Empty(t, rep.Errors)

	out := view.String(app.View())
	assert.Contains(t, out, `  button "Add 1"`)
	assert.Contains(t, out, `p "current count: 2"`)
	assert.Contains(t, out, `progress max="100" value="1"`)
	assert.Contains(t, out, `progress max="100" value="2"`)
}

func TestResetAtZeroShortCircuits(t *testing.T) {
	app, reports := newApp(t)

	require.NoError(t, app.Reset())
	require.Len(t, *reports, 1)
	rep := (*reports)[0]
	assert.Equal(t, 2, rep.ShortCircuits, "double and is-even keep their values")
	assert.Equal(t, 1, rep.EffectRuns, "only the bar bound directly to count reruns")
}

func TestAddColumns(t *testing.T) {
	app, _ := newApp(t)

	require.NoError(t, app.AddColumns())
	require.NoError(t, app.AddColumns())
	assert.Equal(t, 20, app.X())
	assert.Contains(t, view.String(app.View()),
		`style="position: absolute; left: 180px; background-color: rgb(20, 100, 100); --colums: 20"`)
}

func TestDynamicListKeepsCounterState(t *testing.T) {
	app, _ := newApp(t)

	require.NoError(t, app.IncrementCounter(0))
	require.NoError(t, app.IncrementCounter(0))
	require.NoError(t, app.RemoveCounter(1))

	id, err := app.AddCounter()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)

	assert.Equal(t, []uint64{0, 2, 3}, app.CounterIDs())
	assert.Equal(t, []Row{
		{Key: 0, Label: "Increment: 3"},
		{Key: 2, Label: "Increment: 3"},
		{Key: 3, Label: "Increment: 4"},
	}, app.Host().Rows())

	v, err := app.CounterValue(0)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	assert.Equal(t, []string{"Remove 1 (from 1)", "Insert 3 (at 2)"},
		app.Host().Applied[3:], "first three steps mount the initial rows")
}

func TestRemovedCounterIsDisposed(t *testing.T) {
	app, _ := newApp(t)

	before := app.Runtime().Stats()
	require.NoError(t, app.RemoveCounter(2))
	after := app.Runtime().Stats()

	// counter signal and its row effect
	assert.Equal(t, before.Nodes-2, after.Nodes)

	_, err := app.CounterValue(2)
	require.ErrorIs(t, err, ErrUnknownCounter)
	require.ErrorIs(t, app.IncrementCounter(2), ErrUnknownCounter)
	require.ErrorIs(t, app.RemoveCounter(2), ErrUnknownCounter)
}

func TestFormSubmit(t *testing.T) {
	app, _ := newApp(t)

	require.NoError(t, app.TypeName("Ada"))
	require.NoError(t, app.TypeEmail("ada@example.com"))
	assert.Equal(t, "Ada", app.Host().NameField())

	sub, err := app.Submit()
	require.NoError(t, err)
	assert.Equal(t, Submission{Name: "Ada", Email: "ada@example.com"}, sub)

	app.UnmountEmail()
	_, err = app.Submit()
	require.ErrorIs(t, err, binding.ErrMissingBinding)
	assert.Len(t, app.Submissions(), 1)

	app.MountEmail()
	_, err = app.Submit()
	require.NoError(t, err)
	assert.Len(t, app.Submissions(), 2)
}

func TestCloseDisposesEverything(t *testing.T) {
	app, _ := newApp(t)
	require.NotZero(t, app.Runtime().Stats().Nodes)

	app.Close()
	st := app.Runtime().Stats()
	assert.Zero(t, st.Nodes)
	assert.Zero(t, st.Edges)
}

func TestRunScript(t *testing.T) {
	app, _ := newApp(t)

	script := strings.NewReader(`
# counter
inc
inc
columns
add
bump 3
remove 0
name Grace
email grace@example.com
submit
unmount-email
submit
bump 0
`)
	var out bytes.Buffer
	require.NoError(t, RunScript(app, script, &out))

	assert.Equal(t, `added counter 3
submitted name="Grace" email="grace@example.com"
error: uncontrolled read: binding: missing binding
error: demo: unknown counter: 0
`, out.String())
	assert.Equal(t, 2, app.Count())
	assert.Equal(t, 10, app.X())

	v, err := app.CounterValue(3)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestRunScriptRejectsUnknownCommand(t *testing.T) {
	app, _ := newApp(t)

	err := RunScript(app, strings.NewReader("inc\nfly\n"), io.Discard)
	require.ErrorIs(t, err, ErrInvalidScript)
	var le *LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Line)
	assert.Equal(t, `line 2: unknown command "fly"`, err.Error())

	err = RunScript(app, strings.NewReader("bump x\n"), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid counter id "x"`)
}

func TestRenderCommand(t *testing.T) {
	app, _ := newApp(t)

	var out bytes.Buffer
	require.NoError(t, RunScript(app, strings.NewReader("render\n"), &out))
	assert.Equal(t, initialView, out.String())
}
