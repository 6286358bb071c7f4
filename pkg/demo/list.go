package demo

import (
	"fmt"
	"slices"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/reconcile"
)

// mountDynamic creates the keyed counter list. Counters 0..InitialLength-1
// exist up front; every counter starts at its id plus one.
func (a *App) mountDynamic() error {
	n := uint64(a.cfg.InitialLength)
	initial := make([]uint64, 0, n)
	for id := uint64(0); id < n; id++ {
		initial = append(initial, id)
	}
	a.seq = reconcile.NewSequence(n)

	var err error
	if a.counters, err = reactive.NewSignal(a.rt, initial, reactive.Label("counters")); err != nil {
		return err
	}
	a.list, err = reconcile.For(a.rt, a.counters.Get, a.newCounter, a.applyCounters)
	return err
}

func (a *App) newCounter(id uint64, _ *reactive.Scope) (*Counter, error) {
	count, err := reactive.NewSignal(a.rt, int(id)+1, reactive.Label(fmt.Sprintf("counter-%d", id)))
	if err != nil {
		return nil, err
	}
	return &Counter{ID: id, Count: count}, nil
}

// applyCounters materializes a plan. Each inserted row gets an effect,
// owned by the counter's entry scope, that keeps its label current.
func (a *App) applyCounters(plan reconcile.Plan[uint64], snap reconcile.Snapshot[uint64, *Counter]) error {
	var mountErr error
	a.host.applyPlan(plan, func(key uint64) *Row {
		row := &Row{Key: key}
		i := snap.IndexOf(key)
		entry := snap.At(i)
		entry.Scope().Run(func() {
			_, err := reactive.NewEffect(a.rt, func() error {
				row.Label = counterLabel(entry.State.Count.Get())
				return nil
			}, reactive.Label(fmt.Sprintf("row-%d", key)))
			mountErr = err
		})
		return row
	})
	return mountErr
}

// CounterValue returns the current value of counter id.
func (a *App) CounterValue(id uint64) (int, error) {
	c, ok := a.list.Snapshot().Lookup(id)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCounter, id)
	}
	return c.Count.Peek(), nil
}

// CounterIDs returns the ids of the dynamic list in display order.
func (a *App) CounterIDs() []uint64 {
	return a.list.Snapshot().Keys()
}

// AddCounter appends a new counter and returns its id.
func (a *App) AddCounter() (uint64, error) {
	id := a.seq.Next()
	err := a.act("add-counter", func() error {
		return a.counters.Update(func(ids []uint64) []uint64 {
			return append(slices.Clone(ids), id)
		})
	})
	return id, err
}

// IncrementCounter adds one to counter id.
func (a *App) IncrementCounter(id uint64) error {
	return a.act("increment-counter", func() error {
		c, ok := a.list.Snapshot().Lookup(id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownCounter, id)
		}
		return c.Count.Update(func(n int) int { return n + 1 })
	})
}

// RemoveCounter drops counter id from the list, disposing its state.
func (a *App) RemoveCounter(id uint64) error {
	return a.act("remove-counter", func() error {
		if _, ok := a.list.Snapshot().Lookup(id); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownCounter, id)
		}
		return a.counters.Update(func(ids []uint64) []uint64 {
			return slices.DeleteFunc(slices.Clone(ids), func(v uint64) bool { return v == id })
		})
	})
}
