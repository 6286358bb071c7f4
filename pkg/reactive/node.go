package reactive

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// nodeKind distinguishes the three node flavours stored in the node table.
type nodeKind uint8

const (
	kindSignal nodeKind = iota
	kindMemo
	kindEffect
)

func (k nodeKind) String() string {
	switch k {
	case kindSignal:
		return "signal"
	case kindMemo:
		return "memo"
	case kindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// nodeState is the propagation state of a memo or effect.
//
// A write marks direct subscribers dirty and every node further downstream
// check. A check node only runs if one of its memo sources actually changed.
type nodeState uint8

const (
	stateClean nodeState = iota
	stateCheck
	stateDirty
)

// node is the single record kept for every signal, memo and effect.
// Handles (Signal, Memo, Effect) only carry the NodeID; all state lives here.
type node struct {
	id    NodeID
	kind  nodeKind
	label string

	// value and version are meaningful for signals and memos.
	value   any
	version uint64
	equals  func(a, b any) bool

	// compute runs the body of a memo or effect.
	compute func() (any, error)

	state    nodeState
	height   int
	queued   bool
	running  bool
	disposed bool

	// deps holds the sources read during the current (or last) run.
	// prevDeps holds the previous run's sources while a run is in progress.
	deps     mapset.Set[NodeID]
	prevDeps mapset.Set[NodeID]

	// owner is the scope the node was created in.
	owner *Scope

	// runScope owns whatever a memo or effect creates while running.
	// It is reset before every run and disposed with the node.
	runScope *Scope
}

func newIDSet() mapset.Set[NodeID] {
	return mapset.NewThreadUnsafeSet[NodeID]()
}

// sortedIDs returns the members of s in ascending order.
func sortedIDs(s mapset.Set[NodeID]) []NodeID {
	if s == nil {
		return nil
	}
	ids := s.ToSlice()
	slices.Sort(ids)
	return ids
}

// NodeOption configures a signal, memo or effect at creation.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	label string
}

// Label attaches a human-readable name used in logs and EffectErrors.
func Label(name string) NodeOption {
	return func(c *nodeConfig) {
		c.label = name
	}
}
