package binding

import (
	"errors"
	"sync"
)

// ErrMissingBinding is returned when a Ref is read before the host has
// attached the external field it refers to.
var ErrMissingBinding = errors.New("binding: missing binding")

// Ref holds the host's handle for a materialized field.
// The host calls Attach once the field exists and Detach when it goes away.
//
// Ref[H] is safe for concurrent access.
type Ref[H any] struct {
	handle   H
	attached bool
	mu       sync.RWMutex
}

// NewRef creates an unattached Ref.
func NewRef[H any]() *Ref[H] {
	return &Ref[H]{}
}

// Attach records the host handle.
func (r *Ref[H]) Attach(handle H) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handle = handle
	r.attached = true
}

// Detach forgets the host handle.
func (r *Ref[H]) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero H
	r.handle = zero
	r.attached = false
}

// Attached reports whether a handle is currently attached.
func (r *Ref[H]) Attached() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.attached
}

// Get returns the attached handle or ErrMissingBinding.
func (r *Ref[H]) Get() (H, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.attached {
		var zero H
		return zero, ErrMissingBinding
	}
	return r.handle, nil
}
