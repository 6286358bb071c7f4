package reactive

// Memo is a cached derivation of other signals and memos.
//
// The compute function runs eagerly on creation and again whenever a source
// changes. When the new result equals the cached one, subscribers are not
// re-run. Like an effect, each run owns what it creates, and that is
// disposed before the next run.
type Memo[T any] struct {
	rt *Runtime
	id NodeID
}

// NewMemo creates a memo in the runtime's current scope.
// If the first run of f panics, the memo is discarded and the failure is
// returned as an *EffectError.
func NewMemo[T any](rt *Runtime, f func() T, opts ...NodeOption) (*Memo[T], error) {
	n, err := rt.newNode(kindMemo, opts)
	if err != nil {
		return nil, err
	}
	n.compute = func() (any, error) {
		return f(), nil
	}
	n.runScope = rt.NewScope(n.owner)
	v, err := rt.execute(n)
	if err != nil {
		rt.disposeNode(n.id)
		return nil, &EffectError{Node: n.id, Label: n.label, Err: err}
	}
	n.value = v
	return &Memo[T]{rt: rt, id: n.id}, rt.settle()
}

// WithEquals replaces the equality used to decide whether a recomputed value
// changed.
func (m *Memo[T]) WithEquals(fn func(a, b T) bool) *Memo[T] {
	if n, ok := m.rt.nodes[m.id]; ok && fn != nil {
		n.equals = typedEquals(fn)
	}
	return m
}

// ID returns the memo's node identifier.
func (m *Memo[T]) ID() NodeID {
	return m.id
}

// Read returns the memo's value, recomputing first if a source changed.
func (m *Memo[T]) Read() (T, error) {
	v, err := m.rt.read(m.id, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

// Get is Read that panics with *Error on failure.
func (m *Memo[T]) Get() T {
	v, err := m.Read()
	if err != nil {
		panic(err)
	}
	return v
}

// Peek returns the up-to-date value without tracking it.
func (m *Memo[T]) Peek() T {
	v, err := m.rt.read(m.id, false)
	if err != nil {
		panic(err)
	}
	return as[T](v)
}

// Version returns how many times the memo's value has changed.
func (m *Memo[T]) Version() uint64 {
	if n, ok := m.rt.nodes[m.id]; ok {
		return n.version
	}
	return 0
}
