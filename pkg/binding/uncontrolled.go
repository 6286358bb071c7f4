package binding

import (
	"fmt"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Source is the host's representation of a field that owns its own value.
type Source[T any] interface {
	Value() T
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func() T

// Value returns f().
func (f SourceFunc[T]) Value() T {
	return f()
}

// Uncontrolled reads a host field on demand instead of mirroring it in a
// signal. The host attaches the field through Ref once it is materialized.
type Uncontrolled[T any] struct {
	rt  *reactive.Runtime
	ref *Ref[Source[T]]
}

// NewUncontrolled creates an unattached binding.
func NewUncontrolled[T any](rt *reactive.Runtime) *Uncontrolled[T] {
	return &Uncontrolled[T]{rt: rt, ref: NewRef[Source[T]]()}
}

// Ref returns the mount registration the host attaches the field to.
func (u *Uncontrolled[T]) Ref() *Ref[Source[T]] {
	return u.ref
}

// Value reads the field untracked. It fails with ErrMissingBinding when the
// host has not attached the field yet.
func (u *Uncontrolled[T]) Value() (T, error) {
	src, err := u.ref.Get()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("uncontrolled read: %w", err)
	}
	return reactive.Untracked(u.rt, src.Value), nil
}
