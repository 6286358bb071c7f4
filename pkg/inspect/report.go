package inspect

import (
	"sync"
	"time"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Report is the JSON form of a reactive.FlushReport.
type Report struct {
	Seq           uint64    `json:"seq"`
	Start         time.Time `json:"start"`
	DurationNanos int64     `json:"durationNanos"`
	MemoRuns      int       `json:"memoRuns"`
	EffectRuns    int       `json:"effectRuns"`
	ShortCircuits int       `json:"shortCircuits"`
	Skipped       int       `json:"skipped"`
	Dropped       int       `json:"dropped"`
	LiveNodes     int       `json:"liveNodes"`
	Aborted       bool      `json:"aborted"`
	Errors        []string  `json:"errors,omitempty"`
}

func newReport(r reactive.FlushReport) Report {
	out := Report{
		Seq:           r.Seq,
		Start:         r.Start,
		DurationNanos: r.Duration.Nanoseconds(),
		MemoRuns:      r.MemoRuns,
		EffectRuns:    r.EffectRuns,
		ShortCircuits: r.ShortCircuits,
		Skipped:       r.Skipped,
		Dropped:       r.Dropped,
		LiveNodes:     r.LiveNodes,
		Aborted:       r.Aborted,
	}
	for _, err := range r.Errors {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}

// history is a fixed-size ring of recent reports.
type history struct {
	mu    sync.RWMutex
	buf   []Report
	next  int
	total int
}

func newHistory(size int) *history {
	return &history{buf: make([]Report, size)}
}

func (h *history) add(r Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = r
	h.next = (h.next + 1) % len(h.buf)
	h.total++
}

// list returns the stored reports, oldest first.
func (h *history) list() []Report {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := min(h.total, len(h.buf))
	out := make([]Report, 0, n)
	start := (h.next - n + len(h.buf)) % len(h.buf)
	for i := 0; i < n; i++ {
		out = append(out, h.buf[(start+i)%len(h.buf)])
	}
	return out
}
