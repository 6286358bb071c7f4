package reactive

import (
	"errors"
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Runtime owns every reactive node and the subscription edges between them.
//
// All state that would otherwise be ambient (the current observer, the
// current scope, batching depth) is held here and passed explicitly by
// handing the Runtime to constructors. A Runtime is not safe for concurrent
// use.
type Runtime struct {
	ids idAllocator

	// nodes is the authoritative table of live nodes.
	nodes map[NodeID]*node

	// subs maps a signal or memo to the computations that read it.
	subs map[NodeID]mapset.Set[NodeID]

	// observer is the computation currently collecting dependencies.
	// nil while untracked.
	observer *node

	// stack holds every computation currently executing, innermost last.
	stack []*node

	// scope receives nodes created right now.
	scope *Scope

	batchDepth int
	flushing   bool
	aborted    bool
	queue      nodeQueue
	budget     flushBudget

	flushes uint64
	report  *FlushReport

	logger    *slog.Logger
	onError   func(*EffectError)
	observers []FlushObserver
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for flush diagnostics and the default
// error handler.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithErrorHandler sets the function that receives failures from memo and
// effect bodies. The default handler logs them.
func WithErrorHandler(fn func(*EffectError)) Option {
	return func(rt *Runtime) {
		rt.onError = fn
	}
}

// WithFlushBudget limits how many computation runs a single flush may
// perform. Zero or a negative value disables the limit.
func WithFlushBudget(n int) Option {
	return func(rt *Runtime) {
		rt.budget.limit = n
	}
}

// WithFlushObserver registers an observer at construction time.
func WithFlushObserver(o FlushObserver) Option {
	return func(rt *Runtime) {
		if o != nil {
			rt.observers = append(rt.observers, o)
		}
	}
}

// NewRuntime creates an empty Runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		nodes:  make(map[NodeID]*node),
		subs:   make(map[NodeID]mapset.Set[NodeID]),
		logger: slog.Default(),
		budget: flushBudget{limit: DefaultFlushBudget},
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.onError == nil {
		rt.onError = rt.logError
	}
	return rt
}

// Observe registers an additional flush observer.
func (rt *Runtime) Observe(o FlushObserver) {
	if o != nil {
		rt.observers = append(rt.observers, o)
	}
}

// CurrentScope returns the scope new nodes are created in, or nil.
func (rt *Runtime) CurrentScope() *Scope {
	return rt.scope
}

// OnCleanup registers fn on the current scope. Inside an effect this runs
// before the effect's next run and when the effect is disposed.
func (rt *Runtime) OnCleanup(fn func()) error {
	if rt.scope == nil {
		return opError("cleanup", 0, ErrNoActiveScope)
	}
	return rt.scope.OnCleanup(fn)
}

// Stats returns a census of live nodes and edges.
func (rt *Runtime) Stats() Stats {
	st := Stats{Nodes: len(rt.nodes), Flushes: rt.flushes}
	for _, n := range rt.nodes {
		switch n.kind {
		case kindSignal:
			st.Signals++
		case kindMemo:
			st.Memos++
		case kindEffect:
			st.Effects++
		}
	}
	for _, s := range rt.subs {
		st.Edges += s.Cardinality()
	}
	return st
}

// Untrack runs fn without recording dependencies for the current
// computation.
func (rt *Runtime) Untrack(fn func()) {
	prev := rt.observer
	rt.observer = nil
	defer func() { rt.observer = prev }()
	fn()
}

// Untracked returns f() evaluated without dependency tracking.
func Untracked[T any](rt *Runtime, f func() T) T {
	var v T
	rt.Untrack(func() { v = f() })
	return v
}

// Batch runs fn and defers every flush it would trigger until fn returns.
// Nested batches flush once, when the outermost one ends. The returned error
// is non-nil only if that flush was aborted.
func (rt *Runtime) Batch(fn func()) error {
	rt.batchDepth++
	func() {
		defer func() { rt.batchDepth-- }()
		fn()
	}()
	return rt.settle()
}

// Flush drains the pending queue now. It returns the errors reported by
// computations during the flush, joined. Calling Flush from inside a running
// computation is a no-op: pending work is folded into the current flush.
func (rt *Runtime) Flush() error {
	if rt.flushing || len(rt.stack) > 0 {
		return nil
	}
	if rt.queue.Len() == 0 {
		return nil
	}
	rep := rt.flush()
	return errors.Join(rep.Errors...)
}

// settle flushes if nothing is holding the flush back.
func (rt *Runtime) settle() error {
	if rt.batchDepth > 0 || rt.flushing || len(rt.stack) > 0 || rt.queue.Len() == 0 {
		return nil
	}
	rep := rt.flush()
	if rep.Aborted {
		return opError("flush", 0, ErrFlushBudgetExceeded)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Node table
// -----------------------------------------------------------------------------

// newNode allocates a node in the current scope.
func (rt *Runtime) newNode(kind nodeKind, opts []NodeOption) (*node, error) {
	s := rt.scope
	if s == nil {
		return nil, opError("create", 0, ErrNoActiveScope)
	}
	if s.disposed {
		return nil, opError("create", s.id, ErrUseAfterDispose)
	}
	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	n := &node{
		id:     rt.ids.next(),
		kind:   kind,
		label:  cfg.label,
		equals: defaultEquals,
		owner:  s,
		deps:   newIDSet(),
	}
	rt.nodes[n.id] = n
	s.nodes = append(s.nodes, n.id)
	return n, nil
}

// lookup returns the live node for id.
func (rt *Runtime) lookup(op string, id NodeID) (*node, error) {
	n, ok := rt.nodes[id]
	if !ok {
		return nil, opError(op, id, ErrUseAfterDispose)
	}
	return n, nil
}

// disposeNode removes a node and every edge touching it.
// Safe to call while the node is queued or running.
func (rt *Runtime) disposeNode(id NodeID) {
	n, ok := rt.nodes[id]
	if !ok {
		return
	}
	delete(rt.nodes, id)
	n.disposed = true
	n.state = stateClean

	for _, d := range n.deps.ToSlice() {
		rt.unsubscribe(d, id)
	}
	if n.prevDeps != nil {
		for _, d := range n.prevDeps.ToSlice() {
			rt.unsubscribe(d, id)
		}
	}
	if subs, ok := rt.subs[id]; ok {
		for _, s := range subs.ToSlice() {
			if sn, ok := rt.nodes[s]; ok {
				sn.deps.Remove(id)
			}
		}
		delete(rt.subs, id)
	}
	if n.runScope != nil {
		n.runScope.Dispose()
	}
}

func (rt *Runtime) unsubscribe(source, sub NodeID) {
	if s, ok := rt.subs[source]; ok {
		s.Remove(sub)
		if s.Cardinality() == 0 {
			delete(rt.subs, source)
		}
	}
}

// -----------------------------------------------------------------------------
// Tracking
// -----------------------------------------------------------------------------

// track records source as a dependency of the current observer.
func (rt *Runtime) track(source NodeID) {
	obs := rt.observer
	if obs == nil || obs.disposed || obs.id == source {
		return
	}
	if !obs.deps.Add(source) {
		return
	}
	s, ok := rt.subs[source]
	if !ok {
		s = newIDSet()
		rt.subs[source] = s
	}
	s.Add(obs.id)
}

// read returns the current value of a signal or memo, bringing a stale memo
// up to date first. When tracked is true the read is recorded as a
// dependency of the current observer.
func (rt *Runtime) read(id NodeID, tracked bool) (any, error) {
	n, err := rt.lookup("read", id)
	if err != nil {
		return nil, err
	}
	if n.kind == kindMemo {
		if n.running {
			return nil, opError("read", id, ErrCyclicDependency)
		}
		if n.state != stateClean {
			rt.update(n)
			if err := rt.settle(); err != nil {
				return nil, err
			}
			if n.disposed {
				return nil, opError("read", id, ErrUseAfterDispose)
			}
		}
	}
	if tracked {
		rt.track(id)
	}
	return n.value, nil
}

// write stores a new value in a signal and schedules its subscribers.
func (rt *Runtime) write(id NodeID, update func(old any) any) error {
	n, err := rt.lookup("write", id)
	if err != nil {
		return err
	}
	if len(rt.stack) > 0 && rt.feedsRunning(id) {
		return opError("write", id, ErrCyclicDependency)
	}
	n.value = update(n.value)
	n.version++
	rt.markSubscribers(id)
	return rt.settle()
}

// feedsRunning reports whether any currently running computation depends,
// directly or through memos, on source. A running node counts only if it
// read the edge during its current run; edges left from its previous run
// are still in subs until the run ends.
func (rt *Runtime) feedsRunning(source NodeID) bool {
	seen := map[NodeID]struct{}{source: {}}
	frontier := []NodeID{source}
	for len(frontier) > 0 {
		id := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		subs, ok := rt.subs[id]
		if !ok {
			continue
		}
		for _, s := range subs.ToSlice() {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			sn, ok := rt.nodes[s]
			if !ok || rt.staleEdge(id, sn) {
				continue
			}
			if sn.running {
				return true
			}
			if sn.kind == kindMemo {
				frontier = append(frontier, s)
			}
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Marking
// -----------------------------------------------------------------------------

// staleEdge reports whether the subscription of sub to source is left over
// from sub's previous run.
func (rt *Runtime) staleEdge(source NodeID, sub *node) bool {
	return sub.running && !sub.deps.Contains(source)
}

// markSubscribers marks the direct subscribers of id dirty and everything
// downstream of them check.
func (rt *Runtime) markSubscribers(id NodeID) {
	subs, ok := rt.subs[id]
	if !ok {
		return
	}
	for _, s := range sortedIDs(subs) {
		sn, ok := rt.nodes[s]
		if !ok || sn.state == stateDirty || rt.staleEdge(id, sn) {
			continue
		}
		prev := sn.state
		sn.state = stateDirty
		rt.queue.push(sn)
		if prev == stateClean && sn.kind == kindMemo {
			rt.markCheck(s)
		}
	}
}

// markCheck marks every clean node downstream of id as check.
func (rt *Runtime) markCheck(id NodeID) {
	subs, ok := rt.subs[id]
	if !ok {
		return
	}
	for _, s := range sortedIDs(subs) {
		sn, ok := rt.nodes[s]
		if !ok || sn.state != stateClean || rt.staleEdge(id, sn) {
			continue
		}
		sn.state = stateCheck
		rt.queue.push(sn)
		if sn.kind == kindMemo {
			rt.markCheck(s)
		}
	}
}

// -----------------------------------------------------------------------------
// Flush
// -----------------------------------------------------------------------------

// flush drains the queue in (memos first, height, id) order.
func (rt *Runtime) flush() FlushReport {
	rt.flushing = true
	rt.aborted = false
	rt.flushes++
	rt.budget.reset()
	rep := &FlushReport{Seq: rt.flushes, Start: time.Now()}
	rt.report = rep

	for rt.queue.Len() > 0 {
		n := rt.queue.pop()
		if n.disposed || n.state == stateClean {
			rep.Skipped++
			continue
		}
		rt.update(n)
		if rt.aborted {
			rep.Aborted = true
			rep.Dropped = rt.queue.drain()
			rep.Errors = append(rep.Errors, opError("flush", n.id, ErrFlushBudgetExceeded))
			break
		}
	}

	rt.flushing = false
	rt.report = nil
	rep.Duration = time.Since(rep.Start)
	rep.LiveNodes = len(rt.nodes)

	if rep.Aborted {
		rt.logger.Warn("reactive flush aborted",
			"seq", rep.Seq,
			"budget", rt.budget.limit,
			"dropped", rep.Dropped,
		)
	} else {
		rt.logger.Debug("reactive flush",
			"seq", rep.Seq,
			"memos", rep.MemoRuns,
			"effects", rep.EffectRuns,
			"short_circuits", rep.ShortCircuits,
			"duration", rep.Duration,
		)
	}

	out := *rep
	out.Errors = append([]error(nil), rep.Errors...)
	for _, o := range rt.observers {
		o.OnFlush(out)
	}
	return out
}

// update brings a check or dirty node up to date. A check node first
// updates its memo sources and only runs if one of them changed.
func (rt *Runtime) update(n *node) {
	if n.running || n.disposed {
		return
	}
	if n.state == stateCheck {
		for _, d := range sortedIDs(n.deps) {
			dn, ok := rt.nodes[d]
			if !ok || dn.kind != kindMemo {
				continue
			}
			if dn.state != stateClean {
				rt.update(dn)
			}
			if n.state == stateDirty || rt.aborted {
				break
			}
		}
	}
	if n.state == stateDirty && !rt.aborted {
		rt.run(n)
	}
	n.state = stateClean
}

// run executes a memo or effect body once.
func (rt *Runtime) run(n *node) {
	if rt.flushing && !rt.budget.charge() {
		rt.aborted = true
		n.state = stateClean
		return
	}
	n.state = stateClean

	switch n.kind {
	case kindMemo:
		if rt.report != nil {
			rt.report.MemoRuns++
		}
		n.runScope.reset()
		v, err := rt.execute(n)
		if err != nil {
			rt.fail(n, err)
			return
		}
		if n.equals(n.value, v) {
			if rt.report != nil {
				rt.report.ShortCircuits++
			}
			return
		}
		n.value = v
		n.version++
		rt.markSubscribers(n.id)

	case kindEffect:
		if rt.report != nil {
			rt.report.EffectRuns++
		}
		n.runScope.reset()
		if _, err := rt.execute(n); err != nil {
			rt.fail(n, err)
		}
	}
}

// execute runs n's body with n as the current observer, rebuilding its
// dependency set from what the body reads. Panics are returned as errors.
func (rt *Runtime) execute(n *node) (v any, err error) {
	prevObserver, prevScope := rt.observer, rt.scope
	n.prevDeps = n.deps
	n.deps = newIDSet()
	n.running = true
	rt.observer = n
	rt.scope = n.runScope
	rt.stack = append(rt.stack, n)

	defer func() {
		if r := recover(); r != nil {
			v, err = nil, recovered(r)
		}
		rt.stack = rt.stack[:len(rt.stack)-1]
		rt.observer, rt.scope = prevObserver, prevScope
		n.running = false

		prev := n.prevDeps
		n.prevDeps = nil
		if n.disposed {
			return
		}
		for _, d := range prev.ToSlice() {
			if !n.deps.Contains(d) {
				rt.unsubscribe(d, n.id)
			}
		}
		n.height = rt.heightOf(n)
	}()

	return n.compute()
}

// heightOf is 1 + the greatest height among n's sources.
func (rt *Runtime) heightOf(n *node) int {
	h := 0
	for _, d := range n.deps.ToSlice() {
		if dn, ok := rt.nodes[d]; ok && dn.height > h {
			h = dn.height
		}
	}
	return h + 1
}

// fail reports a computation failure to the error handler and the current
// flush report.
func (rt *Runtime) fail(n *node, err error) {
	ee := &EffectError{Node: n.id, Label: n.label, Err: err}
	if rt.report != nil {
		rt.report.Errors = append(rt.report.Errors, ee)
	}
	if rt.onError != nil {
		rt.onError(ee)
	}
}

func (rt *Runtime) logError(ee *EffectError) {
	rt.logger.Error("reactive computation failed",
		"node", ee.Node,
		"label", ee.Label,
		"error", ee.Err,
	)
}
