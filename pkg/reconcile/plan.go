package reconcile

import (
	"fmt"
	"strings"
)

// Op is the kind of a plan step.
type Op uint8

const (
	OpRemove Op = iota + 1 // Drop the entry at From
	OpInsert               // Insert a new entry at To
	OpMove                 // Move an existing entry from From to To
	OpKeep                 // Entry already sits at To
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpRemove:
		return "Remove"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpKeep:
		return "Keep"
	default:
		return "Unknown"
	}
}

// Step is a single instruction for the host.
// Indices refer to the host's list as it stands when the step is applied.
type Step[K comparable] struct {
	Op   Op
	Key  K
	From int // -1 for Insert
	To   int // -1 for Remove
}

func (s Step[K]) String() string {
	switch s.Op {
	case OpRemove:
		return fmt.Sprintf("Remove %v (from %d)", s.Key, s.From)
	case OpInsert:
		return fmt.Sprintf("Insert %v (at %d)", s.Key, s.To)
	case OpMove:
		return fmt.Sprintf("Move %v (%d -> %d)", s.Key, s.From, s.To)
	case OpKeep:
		return fmt.Sprintf("Keep %v (at %d)", s.Key, s.To)
	default:
		return fmt.Sprintf("%s %v", s.Op, s.Key)
	}
}

// Plan is an ordered list of steps: removals first, then the new order.
type Plan[K comparable] struct {
	Steps []Step[K]
}

// Empty reports whether applying the plan would change nothing.
func (p Plan[K]) Empty() bool {
	for _, s := range p.Steps {
		if s.Op != OpKeep {
			return false
		}
	}
	return true
}

// Removed returns the keys dropped by the plan.
func (p Plan[K]) Removed() []K {
	return p.keys(OpRemove)
}

// Inserted returns the keys created by the plan.
func (p Plan[K]) Inserted() []K {
	return p.keys(OpInsert)
}

// Moved returns the surviving keys that change position.
func (p Plan[K]) Moved() []K {
	return p.keys(OpMove)
}

func (p Plan[K]) keys(op Op) []K {
	var out []K
	for _, s := range p.Steps {
		if s.Op == op {
			out = append(out, s.Key)
		}
	}
	return out
}

// String renders one step per line.
func (p Plan[K]) String() string {
	var b strings.Builder
	for i, s := range p.Steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Apply replays the plan against items, an ordered slice materialized from
// the previous snapshot, and returns the reordered slice. create is called
// for every inserted key.
func Apply[K comparable, T any](p Plan[K], items []T, create func(K) T) []T {
	out := append([]T(nil), items...)
	for _, s := range p.Steps {
		switch s.Op {
		case OpRemove:
			out = append(out[:s.From], out[s.From+1:]...)
		case OpInsert:
			out = insertAt(out, s.To, create(s.Key))
		case OpMove:
			item := out[s.From]
			out = append(out[:s.From], out[s.From+1:]...)
			out = insertAt(out, s.To, item)
		}
	}
	return out
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
