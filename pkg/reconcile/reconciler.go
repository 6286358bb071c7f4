package reconcile

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// ErrDuplicateKey is returned when a new key sequence contains the same key
// more than once.
var ErrDuplicateKey = errors.New("reconcile: duplicate key")

// Factory creates the per-key state for a new key. It runs untracked with
// scope as the current scope, so any signal or effect it creates is owned by
// the entry and disposed when the key is dropped.
type Factory[K comparable, S any] func(key K, scope *reactive.Scope) (S, error)

// Reconciler creates and disposes per-key state for a keyed collection.
type Reconciler[K comparable, S any] struct {
	rt      *reactive.Runtime
	parent  *reactive.Scope
	factory Factory[K, S]
}

// New returns a Reconciler whose entry scopes are children of parent.
func New[K comparable, S any](rt *reactive.Runtime, parent *reactive.Scope, factory Factory[K, S]) *Reconciler[K, S] {
	return &Reconciler[K, S]{rt: rt, parent: parent, factory: factory}
}

// Reconcile computes the plan that turns prev into keys and the resulting
// snapshot. Surviving keys keep their state and scope; dropped keys have
// their scope disposed. On error prev is left untouched and nothing is
// disposed except scopes created during this call.
func (r *Reconciler[K, S]) Reconcile(prev Snapshot[K, S], keys []K) (Plan[K], Snapshot[K, S], error) {
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			return Plan[K]{}, prev, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
	}

	next := make([]Entry[K, S], 0, len(keys))
	var created []*reactive.Scope
	for _, k := range keys {
		if i, ok := prev.index[k]; ok {
			next = append(next, prev.entries[i])
			continue
		}
		e, err := r.create(k)
		if e.scope != nil {
			created = append(created, e.scope)
		}
		if err != nil {
			for i := len(created) - 1; i >= 0; i-- {
				created[i].Dispose()
			}
			return Plan[K]{}, prev, fmt.Errorf("reconcile: create %v: %w", k, err)
		}
		next = append(next, e)
	}

	plan := diff(prev.Keys(), keys, seen)
	for _, e := range prev.entries {
		if _, ok := seen[e.Key]; !ok && e.scope != nil {
			e.scope.Dispose()
		}
	}
	return plan, newSnapshot(next), nil
}

// create builds fresh state for key in its own scope.
func (r *Reconciler[K, S]) create(key K) (Entry[K, S], error) {
	scope := r.rt.NewScope(r.parent)
	e := Entry[K, S]{Key: key, scope: scope}
	var err error
	r.rt.Untrack(func() {
		scope.Run(func() {
			e.State, err = r.factory(key, scope)
		})
	})
	return e, err
}

// Dispose releases every entry of snap.
func Dispose[K comparable, S any](snap Snapshot[K, S]) {
	for i := len(snap.entries) - 1; i >= 0; i-- {
		if s := snap.entries[i].scope; s != nil {
			s.Dispose()
		}
	}
}

// diff emits removals (highest index first) followed by one step per
// position of next, simulated against the shrinking working list.
func diff[K comparable](prev, next []K, keep map[K]struct{}) Plan[K] {
	var plan Plan[K]

	for i := len(prev) - 1; i >= 0; i-- {
		if _, ok := keep[prev[i]]; !ok {
			plan.Steps = append(plan.Steps, Step[K]{Op: OpRemove, Key: prev[i], From: i, To: -1})
		}
	}

	work := make([]K, 0, len(next))
	known := make(map[K]struct{}, len(prev))
	for _, k := range prev {
		if _, ok := keep[k]; ok {
			work = append(work, k)
			known[k] = struct{}{}
		}
	}

	for to, k := range next {
		if _, ok := known[k]; !ok {
			plan.Steps = append(plan.Steps, Step[K]{Op: OpInsert, Key: k, From: -1, To: to})
			work = slices.Insert(work, to, k)
			continue
		}
		from := slices.Index(work, k)
		if from == to {
			plan.Steps = append(plan.Steps, Step[K]{Op: OpKeep, Key: k, From: from, To: to})
			continue
		}
		plan.Steps = append(plan.Steps, Step[K]{Op: OpMove, Key: k, From: from, To: to})
		work = slices.Delete(work, from, from+1)
		work = slices.Insert(work, to, k)
	}
	return plan
}
