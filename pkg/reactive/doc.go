// Package reactive provides the fine-grained reactive runtime for reactor.
//
// A Runtime owns every reactive node: signals (mutable cells), memos
// (cached derivations) and effects (side-effecting subscribers). Reading a
// signal or memo while a computation runs records it as a dependency of that
// computation; writing a signal schedules every dependent for a glitch-free
// flush.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	rt := reactive.NewRuntime()
//	root := rt.NewScope(nil)
//	root.Run(func() {
//	    count, _ := reactive.NewSignal(rt, 0)
//	    double, _ := reactive.NewMemo(rt, func() int { return count.Get() * 2 })
//	    _, _ = reactive.NewEffect(rt, func() error {
//	        fmt.Println("double is", double.Get())
//	        return nil
//	    })
//	    count.Set(3) // flushes before Set returns to the caller
//	})
//
// # Batching
//
// Writes performed inside Batch are coalesced into a single flush:
//
//	rt.Batch(func() {
//	    first.Set("John")
//	    last.Set("Doe")
//	})
//
// # Flush Order
//
// A write marks the signal's direct subscribers dirty and every transitive
// dependent as check-pending. The flush drains memos before effects, lowest
// height first. A check-pending node brings its memo sources up to date and
// only runs if one of them actually produced a new value, so every affected
// node runs at most once and never observes a half-updated graph.
//
// # Scopes
//
// Every node belongs to a Scope. Disposing a scope disposes its child
// scopes, its nodes and its cleanup callbacks. Using a node after its scope
// was disposed fails with ErrUseAfterDispose.
//
// # Threading
//
// A Runtime is single-threaded. All reads, writes and flushes must happen
// on the goroutine that drives the runtime. Flush observers receive copies
// of each FlushReport and may hand them to other goroutines.
package reactive
