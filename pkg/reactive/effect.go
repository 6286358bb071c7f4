package reactive

// Effect is a computation run for its side effects.
//
// An effect runs once on creation and again, during a flush, whenever one of
// the signals or memos it read changes. Anything the body creates, and any
// cleanup it registers with Runtime.OnCleanup, is disposed before the next
// run.
type Effect struct {
	rt *Runtime
	id NodeID
}

// NewEffect creates an effect in the runtime's current scope and runs it.
// A failure of the first run is delivered to the error handler like any
// other run. The returned error reports a creation failure or an aborted
// flush triggered by the first run.
func NewEffect(rt *Runtime, f func() error, opts ...NodeOption) (*Effect, error) {
	n, err := rt.newNode(kindEffect, opts)
	if err != nil {
		return nil, err
	}
	n.compute = func() (any, error) {
		return nil, f()
	}
	n.runScope = rt.NewScope(n.owner)

	if _, err := rt.execute(n); err != nil {
		rt.fail(n, err)
	}
	return &Effect{rt: rt, id: n.id}, rt.settle()
}

// ID returns the effect's node identifier.
func (e *Effect) ID() NodeID {
	return e.id
}

// Dispose stops the effect and disposes everything its last run created.
func (e *Effect) Dispose() {
	e.rt.disposeNode(e.id)
}

// Disposed reports whether the effect has been removed from the runtime.
func (e *Effect) Disposed() bool {
	_, ok := e.rt.nodes[e.id]
	return !ok
}
