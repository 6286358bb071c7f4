package reactive

// Getter is the read side of a signal or memo.
type Getter[T any] interface {
	// Get returns the current value and tracks it as a dependency.
	// It panics with *Error if the node was disposed or read cyclically.
	Get() T
	// Read is Get returning the failure instead of panicking.
	Read() (T, error)
	// Peek returns the current value without tracking it.
	Peek() T
	// ID returns the node identifier.
	ID() NodeID
}

// Setter is the write side of a signal.
type Setter[T any] interface {
	Set(v T) error
	Update(fn func(T) T) error
}

// Signal is a mutable reactive cell.
//
// A Signal is a handle: the value lives in the Runtime's node table and is
// removed when the owning scope is disposed.
type Signal[T any] struct {
	rt *Runtime
	id NodeID
}

// NewSignal creates a signal holding initial in the runtime's current scope.
func NewSignal[T any](rt *Runtime, initial T, opts ...NodeOption) (*Signal[T], error) {
	n, err := rt.newNode(kindSignal, opts)
	if err != nil {
		return nil, err
	}
	n.value = initial
	return &Signal[T]{rt: rt, id: n.id}, nil
}

// CreateSignal creates a signal and returns separate read and write handles.
func CreateSignal[T any](rt *Runtime, initial T, opts ...NodeOption) (Getter[T], Setter[T], error) {
	s, err := NewSignal(rt, initial, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}

// ID returns the signal's node identifier.
func (s *Signal[T]) ID() NodeID {
	return s.id
}

// Read returns the current value, tracking it as a dependency.
func (s *Signal[T]) Read() (T, error) {
	v, err := s.rt.read(s.id, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

// Get returns the current value, tracking it as a dependency.
func (s *Signal[T]) Get() T {
	v, err := s.Read()
	if err != nil {
		panic(err)
	}
	return v
}

// Peek returns the current value without tracking it.
func (s *Signal[T]) Peek() T {
	v, err := s.rt.read(s.id, false)
	if err != nil {
		panic(err)
	}
	return as[T](v)
}

// Set stores v and schedules every subscriber. Equal values are not
// filtered; every Set bumps the version.
func (s *Signal[T]) Set(v T) error {
	return s.rt.write(s.id, func(any) any { return v })
}

// Update stores fn(current) and schedules every subscriber.
func (s *Signal[T]) Update(fn func(T) T) error {
	return s.rt.write(s.id, func(old any) any { return fn(as[T](old)) })
}

// Version returns the number of writes the signal has received.
// It returns 0 for a disposed signal.
func (s *Signal[T]) Version() uint64 {
	if n, ok := s.rt.nodes[s.id]; ok {
		return n.version
	}
	return 0
}

// Disposed reports whether the signal has been removed from the runtime.
func (s *Signal[T]) Disposed() bool {
	_, ok := s.rt.nodes[s.id]
	return !ok
}
