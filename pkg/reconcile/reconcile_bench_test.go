package reconcile

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/vango-dev/reactor/pkg/reactive"
)

func benchKeys(n int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	return keys
}

func BenchmarkDiffSameKeys(b *testing.B) {
	keys := benchKeys(1000)
	keep := make(map[int]struct{}, len(keys))
	for _, k := range keys {
		keep[k] = struct{}{}
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = diff(keys, keys, keep)
	}
}

func BenchmarkDiffReverse(b *testing.B) {
	prev := benchKeys(1000)
	next := slices.Clone(prev)
	slices.Reverse(next)
	keep := make(map[int]struct{}, len(prev))
	for _, k := range prev {
		keep[k] = struct{}{}
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = diff(prev, next, keep)
	}
}

func BenchmarkReconcileAppendRemove(b *testing.B) {
	rt := reactive.NewRuntime(reactive.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	root := rt.NewScope(nil)
	defer root.Dispose()

	rec := New(rt, root, func(key int, _ *reactive.Scope) (int, error) {
		return key, nil
	})
	keys := benchKeys(100)
	_, snap, err := rec.Reconcile(Snapshot[int, int]{}, keys)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		// drop the head, append a fresh key
		next := append(slices.Clone(keys[1:]), len(keys)+i)
		_, snap, err = rec.Reconcile(snap, next)
		if err != nil {
			b.Fatal(err)
		}
		keys = next
	}
}
