package reactive

import (
	"errors"
	"fmt"
)

// ErrNoActiveScope is returned when a signal, memo or effect is created
// while no scope is current. Create nodes inside Scope.Run.
var ErrNoActiveScope = errors.New("reactive: no active scope")

// ErrUseAfterDispose is returned when a node or scope is used after the
// scope that owns it has been disposed.
var ErrUseAfterDispose = errors.New("reactive: use after dispose")

// ErrCyclicDependency is returned when a computation re-enters itself, or
// writes a signal it (transitively) depends on while it is running.
var ErrCyclicDependency = errors.New("reactive: cyclic dependency")

// ErrFlushBudgetExceeded is reported when a single flush runs more nodes
// than the runtime's flush budget allows. The remaining queue is dropped.
var ErrFlushBudgetExceeded = errors.New("reactive: flush budget exceeded")

// Error describes a failed runtime operation on a specific node.
type Error struct {
	Op   string // "read", "write", "create", ...
	Node NodeID // zero when no node was involved
	Err  error  // one of the sentinel errors above
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Node == 0 {
		return fmt.Sprintf("reactive: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("reactive: %s node %s: %v", e.Op, e.Node, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, id NodeID, err error) *Error {
	return &Error{Op: op, Node: id, Err: err}
}

// EffectError reports a failure inside a memo or effect body.
// It is delivered to the runtime's error handler and recorded in the
// FlushReport of the flush it happened in; the flush itself continues.
type EffectError struct {
	Node  NodeID
	Label string
	Err   error
}

// Error implements the error interface.
func (e *EffectError) Error() string {
	name := e.Node.String()
	if e.Label != "" {
		name = e.Label + "#" + name
	}
	return fmt.Sprintf("reactive: computation %s failed: %v", name, e.Err)
}

// Unwrap returns the error produced by the computation.
func (e *EffectError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking computation body.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// recovered converts a recovered panic value into an error. Errors thrown
// by Get on a disposed or cyclic node are passed through unchanged.
func recovered(r any) error {
	if err, ok := r.(error); ok {
		var rerr *Error
		if errors.As(err, &rerr) {
			return err
		}
	}
	return &PanicError{Value: r}
}
