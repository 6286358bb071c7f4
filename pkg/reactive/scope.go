package reactive

import "slices"

// Scope is an ownership group for reactive nodes. Disposing a scope
// disposes its child scopes, then its own nodes, then runs its cleanups,
// each in reverse creation order.
type Scope struct {
	rt       *Runtime
	id       NodeID
	parent   *Scope
	children []*Scope
	nodes    []NodeID
	cleanups []func()
	disposed bool
}

// NewScope creates a scope. With a nil parent the scope is a root and must
// be disposed explicitly; otherwise it is disposed together with parent.
func (rt *Runtime) NewScope(parent *Scope) *Scope {
	s := &Scope{rt: rt, id: rt.ids.next(), parent: parent}
	if parent != nil {
		if parent.disposed {
			s.disposed = true
			return s
		}
		parent.children = append(parent.children, s)
	}
	return s
}

// ID returns the scope's identifier.
func (s *Scope) ID() NodeID {
	return s.id
}

// Parent returns the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Disposed reports whether Dispose has been called.
func (s *Scope) Disposed() bool {
	return s.disposed
}

// Run makes s the current scope while fn runs, so nodes created by fn are
// owned by s. The current observer is left unchanged.
func (s *Scope) Run(fn func()) {
	rt := s.rt
	prev := rt.scope
	rt.scope = s
	defer func() { rt.scope = prev }()
	fn()
}

// OnCleanup registers fn to run when s is disposed.
func (s *Scope) OnCleanup(fn func()) error {
	if s.disposed {
		return opError("cleanup", s.id, ErrUseAfterDispose)
	}
	if fn != nil {
		s.cleanups = append(s.cleanups, fn)
	}
	return nil
}

// Dispose tears down everything s owns and detaches it from its parent.
// Calling Dispose more than once is a no-op. It is safe to call from inside
// a running effect, including one owned by s.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.reset()
	if p := s.parent; p != nil && !p.disposed {
		if i := slices.Index(p.children, s); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
}

// reset disposes the contents of s but leaves s usable.
func (s *Scope) reset() {
	children := s.children
	s.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	nodes := s.nodes
	s.nodes = nil
	for i := len(nodes) - 1; i >= 0; i-- {
		s.rt.disposeNode(nodes[i])
	}

	cleanups := s.cleanups
	s.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		s.runCleanup(cleanups[i])
	}
}

func (s *Scope) runCleanup(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.rt.logger.Error("reactive cleanup panicked", "scope", s.id, "panic", r)
		}
	}()
	fn()
}
