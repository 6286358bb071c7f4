// Package reconcile diffs keyed collections while preserving per-key
// reactive state.
//
// A Reconciler turns a previous Snapshot and a new ordered key sequence into
// a Plan and the next Snapshot. Keys present in both keep the exact same
// state value and scope; new keys get fresh state from the Factory, created
// untracked in a child scope; dropped keys have their scope disposed.
//
// A Plan lists every removal first, then one step per position of the new
// order. Applying the steps in order to a list materialized from the
// previous snapshot yields the new order without ever holding the same key
// twice:
//
//	old [a b c], new [c a]
//	Remove b (from 1)
//	Move   c (1 -> 0)
//	Keep   a (at 1)
//
// For wires a Reconciler into an effect so that a host receives a Plan
// whenever the tracked key sequence changes.
package reconcile
