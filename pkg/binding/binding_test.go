package binding

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactor/pkg/reactive"
)

type fakeField struct {
	value  string
	writes int
}

func (f *fakeField) SetValue(v string) {
	f.value = v
	f.writes++
}

func (f *fakeField) Value() string {
	return f.value
}

func newRuntime(t *testing.T) (*reactive.Runtime, *reactive.Scope) {
	t.Helper()
	rt := reactive.NewRuntime(reactive.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	root := rt.NewScope(nil)
	t.Cleanup(root.Dispose)
	return rt, root
}

func TestRef(t *testing.T) {
	r := NewRef[int]()
	assert.False(t, r.Attached())
	_, err := r.Get()
	require.ErrorIs(t, err, ErrMissingBinding)

	r.Attach(42)
	got, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	r.Detach()
	assert.False(t, r.Attached())
}

func TestControlledPushesAndReceives(t *testing.T) {
	rt, root := newRuntime(t)

	root.Run(func() {
		name, err := reactive.NewSignal(rt, "Ada")
		require.NoError(t, err)
		field := &fakeField{}

		c, err := NewControlled(rt, name, field)
		require.NoError(t, err)
		assert.Equal(t, "Ada", field.value)

		require.NoError(t, name.Set("Grace"))
		assert.Equal(t, "Grace", field.value)

		require.NoError(t, c.Input("Linus"))
		assert.Equal(t, "Linus", name.Peek())
		assert.Equal(t, "Linus", field.value)
		assert.Equal(t, 3, field.writes)

		c.Dispose()
		require.NoError(t, name.Set("Ken"))
		assert.Equal(t, "Linus", field.value)
	})
}

func TestControlledWriteVisibleToUntrackedReadInSameTick(t *testing.T) {
	rt, root := newRuntime(t)

	root.Run(func() {
		name, err := reactive.NewSignal(rt, "old")
		require.NoError(t, err)
		field := &fakeField{}
		c, err := NewControlled(rt, name, field)
		require.NoError(t, err)

		var read, pushed string
		require.NoError(t, rt.Batch(func() {
			require.NoError(t, c.Input("new"))
			read = c.Value()
			pushed = field.value
		}))

		assert.Equal(t, "new", read, "untracked read sees the raw write")
		assert.Equal(t, "old", pushed, "sink is only refreshed by the flush")
		assert.Equal(t, "new", field.value)
	})
}

func TestUncontrolledReadsOnDemand(t *testing.T) {
	rt, root := newRuntime(t)

	root.Run(func() {
		email := NewUncontrolled[string](rt)
		_, err := email.Value()
		require.ErrorIs(t, err, ErrMissingBinding)

		field := &fakeField{value: "a@example.com"}
		email.Ref().Attach(field)

		got, err := email.Value()
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", got)

		field.value = "b@example.com"
		got, err = email.Value()
		require.NoError(t, err)
		assert.Equal(t, "b@example.com", got)
	})
}

func TestUncontrolledReadDoesNotSubscribe(t *testing.T) {
	rt, root := newRuntime(t)

	root.Run(func() {
		backing, err := reactive.NewSignal(rt, "x")
		require.NoError(t, err)
		u := NewUncontrolled[string](rt)
		u.Ref().Attach(SourceFunc[string](backing.Get))

		runs := 0
		_, err = reactive.NewEffect(rt, func() error {
			runs++
			_, err := u.Value()
			return err
		})
		require.NoError(t, err)

		require.NoError(t, backing.Set("y"))
		assert.Equal(t, 1, runs)
	})
}
