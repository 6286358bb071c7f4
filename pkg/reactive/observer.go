package reactive

import "time"

// FlushReport summarises one flush of the scheduler.
type FlushReport struct {
	Seq           uint64        `json:"seq"`
	Start         time.Time     `json:"start"`
	Duration      time.Duration `json:"duration"`
	MemoRuns      int           `json:"memoRuns"`
	EffectRuns    int           `json:"effectRuns"`
	ShortCircuits int           `json:"shortCircuits"`
	Skipped       int           `json:"skipped"`
	Dropped       int           `json:"dropped"`
	LiveNodes     int           `json:"liveNodes"`
	Aborted       bool          `json:"aborted"`
	Errors        []error       `json:"-"`
}

// Runs returns the total number of memo and effect runs in the flush.
func (r FlushReport) Runs() int {
	return r.MemoRuns + r.EffectRuns
}

// FlushObserver receives a report after every flush.
// Observers are called on the runtime's goroutine and must not write
// signals. The report is a copy and may be retained.
type FlushObserver interface {
	OnFlush(FlushReport)
}

// FlushObserverFunc adapts a function to the FlushObserver interface.
type FlushObserverFunc func(FlushReport)

// OnFlush calls f(r).
func (f FlushObserverFunc) OnFlush(r FlushReport) {
	f(r)
}

// Stats is a point-in-time census of a Runtime.
type Stats struct {
	Nodes   int
	Signals int
	Memos   int
	Effects int
	Edges   int
	Flushes uint64
}
