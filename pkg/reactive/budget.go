package reactive

// DefaultFlushBudget is the maximum number of computation runs a single
// flush may perform before it is aborted.
const DefaultFlushBudget = 10000

// flushBudget limits runaway cascades where effects keep writing signals
// that re-trigger other effects within the same flush.
type flushBudget struct {
	limit int // 0 means unlimited
	used  int
}

// reset starts a new flush.
func (b *flushBudget) reset() {
	b.used = 0
}

// charge records one run. Returns false once the limit is exceeded.
func (b *flushBudget) charge() bool {
	if b.limit <= 0 {
		return true
	}
	b.used++
	return b.used <= b.limit
}
