package binding

import (
	"github.com/vango-dev/reactor/pkg/reactive"
)

// Sink is the host's representation of a field that displays a value.
type Sink[T any] interface {
	SetValue(v T)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc[T any] func(T)

// SetValue calls f(v).
func (f SinkFunc[T]) SetValue(v T) {
	f(v)
}

// Controlled keeps a host field in step with a signal. Every flush that
// changes the signal pushes the value to the sink; every host edit is
// written back through Input.
type Controlled[T any] struct {
	sig    *reactive.Signal[T]
	effect *reactive.Effect
}

// NewControlled binds sig to sink in the runtime's current scope. The sink
// receives the current value immediately.
func NewControlled[T any](rt *reactive.Runtime, sig *reactive.Signal[T], sink Sink[T]) (*Controlled[T], error) {
	eff, err := reactive.NewEffect(rt, func() error {
		v, err := sig.Read()
		if err != nil {
			return err
		}
		sink.SetValue(v)
		return nil
	}, reactive.Label("controlled"))
	if err != nil {
		return nil, err
	}
	return &Controlled[T]{sig: sig, effect: eff}, nil
}

// Input delivers a host-originated edit. It is an ordinary write: the value
// is stored at once and the sink is refreshed by the resulting flush.
func (c *Controlled[T]) Input(v T) error {
	return c.sig.Set(v)
}

// Value returns the bound signal's value without tracking it.
func (c *Controlled[T]) Value() T {
	return c.sig.Peek()
}

// Dispose stops pushing values to the sink.
func (c *Controlled[T]) Dispose() {
	c.effect.Dispose()
}
