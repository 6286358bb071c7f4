package reconcile

import "github.com/vango-dev/reactor/pkg/reactive"

// Entry is one keyed item of a snapshot.
type Entry[K comparable, S any] struct {
	Key   K
	State S
	scope *reactive.Scope
}

// Scope returns the scope that owns the entry's reactive state.
func (e Entry[K, S]) Scope() *reactive.Scope {
	return e.scope
}

// Snapshot is an immutable ordered sequence of keyed entries.
// The zero value is an empty snapshot.
type Snapshot[K comparable, S any] struct {
	entries []Entry[K, S]
	index   map[K]int
}

func newSnapshot[K comparable, S any](entries []Entry[K, S]) Snapshot[K, S] {
	index := make(map[K]int, len(entries))
	for i, e := range entries {
		index[e.Key] = i
	}
	return Snapshot[K, S]{entries: entries, index: index}
}

// Len returns the number of entries.
func (s Snapshot[K, S]) Len() int {
	return len(s.entries)
}

// At returns the entry at position i.
func (s Snapshot[K, S]) At(i int) Entry[K, S] {
	return s.entries[i]
}

// Keys returns the keys in order.
func (s Snapshot[K, S]) Keys() []K {
	keys := make([]K, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in order.
func (s Snapshot[K, S]) Entries() []Entry[K, S] {
	return append([]Entry[K, S](nil), s.entries...)
}

// Lookup returns the state stored for key.
func (s Snapshot[K, S]) Lookup(key K) (S, bool) {
	i, ok := s.index[key]
	if !ok {
		var zero S
		return zero, false
	}
	return s.entries[i].State, true
}

// IndexOf returns the position of key, or -1.
func (s Snapshot[K, S]) IndexOf(key K) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	return -1
}
