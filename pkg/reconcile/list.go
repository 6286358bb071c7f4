package reconcile

import (
	"github.com/vango-dev/reactor/pkg/reactive"
)

// List is a keyed collection kept in sync with a tracked key sequence.
type List[K comparable, S any] struct {
	rt     *reactive.Runtime
	owner  *reactive.Scope
	rec    *Reconciler[K, S]
	snap   Snapshot[K, S]
	effect *reactive.Effect
}

// For creates an effect that tracks each, reconciles the keys it returns
// against the previous snapshot and hands the resulting plan to apply.
//
// Entry scopes are children of the scope current when For is called, not of
// the effect's run, so per-key state survives every re-run of the effect.
// apply runs untracked and is skipped when the plan changes nothing.
func For[K comparable, S any](
	rt *reactive.Runtime,
	each func() []K,
	factory Factory[K, S],
	apply func(Plan[K], Snapshot[K, S]) error,
) (*List[K, S], error) {
	parent := rt.CurrentScope()
	if parent == nil {
		return nil, &reactive.Error{Op: "for", Err: reactive.ErrNoActiveScope}
	}
	if parent.Disposed() {
		return nil, &reactive.Error{Op: "for", Node: parent.ID(), Err: reactive.ErrUseAfterDispose}
	}

	l := &List[K, S]{rt: rt, owner: rt.NewScope(parent)}
	l.rec = New(rt, l.owner, factory)

	eff, err := reactive.NewEffect(rt, func() error {
		keys := each()
		var (
			plan Plan[K]
			next Snapshot[K, S]
			err  error
		)
		rt.Untrack(func() {
			plan, next, err = l.rec.Reconcile(l.snap, keys)
		})
		if err != nil {
			return err
		}
		l.snap = next
		if plan.Empty() {
			return nil
		}
		rt.Untrack(func() {
			err = apply(plan, next)
		})
		return err
	}, reactive.Label("for"))
	l.effect = eff
	return l, err
}

// Snapshot returns the current entries.
func (l *List[K, S]) Snapshot() Snapshot[K, S] {
	return l.snap
}

// Dispose stops tracking and disposes every entry.
func (l *List[K, S]) Dispose() {
	if l.effect != nil {
		l.effect.Dispose()
	}
	l.owner.Dispose()
	l.snap = Snapshot[K, S]{}
}
