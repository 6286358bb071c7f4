package demo

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/reactor/pkg/reconcile"
	"github.com/vango-dev/reactor/pkg/view"
)

// TextHost is the materialized side of the demo. Effects push committed
// values into it and the dynamic list applies reconciliation plans to its
// rows; View reads only this materialized state, never the signals.
type TextHost struct {
	addClass    string
	columnStyle string
	countText   string
	static      []string
	rows        []*Row
	progress    [2]string
	progressMax int
	nameValue   string
	emailValue  string

	// Applied records every plan step the host has executed.
	Applied []string
}

// Row is one materialized counter of the dynamic list.
type Row struct {
	Key   uint64
	Label string
}

func newTextHost(progressMax int) *TextHost {
	return &TextHost{progressMax: progressMax}
}

// Rows returns the materialized counter rows in display order.
func (h *TextHost) Rows() []Row {
	out := make([]Row, len(h.rows))
	for i, r := range h.rows {
		out[i] = *r
	}
	return out
}

// NameField returns what the controlled name input currently displays.
func (h *TextHost) NameField() string {
	return h.nameValue
}

// EmailField returns the uncontrolled email input's own value.
func (h *TextHost) EmailField() string {
	return h.emailValue
}

// applyPlan replays plan against the rows. mount is called for every
// inserted key and returns the new row.
func (h *TextHost) applyPlan(plan reconcile.Plan[uint64], mount func(key uint64) *Row) {
	for _, s := range plan.Steps {
		if s.Op != reconcile.OpKeep {
			h.Applied = append(h.Applied, s.String())
		}
	}
	h.rows = reconcile.Apply(plan, h.rows, mount)
}

// View returns the current materialized view.
func (h *TextHost) View() *view.Node {
	static := make([]*view.Node, len(h.static))
	for i, s := range h.static {
		static[i] = view.Keyed(strconv.Itoa(i), view.Leaf("li", s, nil))
	}

	rows := make([]*view.Node, len(h.rows))
	for i, r := range h.rows {
		rows[i] = view.Keyed(strconv.FormatUint(r.Key, 10), view.Subtree("li", nil,
			view.Leaf("button", r.Label, nil),
			view.Leaf("button", "Remove", nil),
		))
	}

	var addAttrs view.Attrs
	if h.addClass != "" {
		addAttrs = view.Attrs{"class": h.addClass}
	}
	limit := strconv.Itoa(h.progressMax)

	return view.Subtree("app", nil,
		view.Leaf("button", "Reset to Zero: ", nil),
		view.Leaf("button", "Add 1", addAttrs),
		view.Leaf("button", "Add columns", view.Attrs{"style": h.columnStyle}),
		view.Leaf("p", h.countText, nil),
		view.List("ul", nil, static...),
		view.Subtree("div", nil,
			view.Leaf("button", "Add Counter", nil),
			view.List("ul", nil, rows...),
		),
		view.Leaf("progress", "", view.Attrs{"max": limit, "value": h.progress[0]}),
		view.Leaf("progress", "", view.Attrs{"max": limit, "value": h.progress[1]}),
		view.Subtree("form", nil,
			view.Leaf("input", "", view.Attrs{"name": "name", "value": h.nameValue}),
			view.Leaf("input", "", view.Attrs{"name": "email", "value": h.emailValue}),
			view.Leaf("button", "Submit", nil),
		),
	)
}

func counterLabel(n int) string {
	return fmt.Sprintf("Increment: %d", n)
}
