package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/reactor/pkg/binding"
	"github.com/vango-dev/reactor/pkg/demo"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/reconcile"
)

// Category is the area a diagnostic belongs to.
type Category string

const (
	CategoryRuntime   Category = "runtime"
	CategoryReconcile Category = "reconcile"
	CategoryBinding   Category = "binding"
	CategoryDemo      Category = "demo"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// Diagnostic is a coded error with an explanation and a fix hint.
type Diagnostic struct {
	// Code is the registered identifier (e.g., "R003").
	Code string

	Category Category

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Node names the reactive node involved, if any.
	Node string

	// Line is the script line involved, if any.
	Line int

	// Suggestion is a hint on how to fix the problem.
	Suggestion string

	// Wrapped is the underlying error.
	Wrapped error
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	msg := d.Message
	if d.Code != "" {
		msg = d.Code + ": " + msg
	}
	if d.Wrapped != nil {
		msg += ": " + d.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (d *Diagnostic) Unwrap() error {
	return d.Wrapped
}

// WithDetail replaces the explanation.
func (d *Diagnostic) WithDetail(detail string) *Diagnostic {
	d.Detail = detail
	return d
}

// WithSuggestion replaces the fix hint.
func (d *Diagnostic) WithSuggestion(s string) *Diagnostic {
	d.Suggestion = s
	return d
}

// WithNode records the node involved.
func (d *Diagnostic) WithNode(node string) *Diagnostic {
	d.Node = node
	return d
}

// WithLine records the script line involved.
func (d *Diagnostic) WithLine(line int) *Diagnostic {
	d.Line = line
	return d
}

// Wrap sets the underlying error.
func (d *Diagnostic) Wrap(err error) *Diagnostic {
	d.Wrapped = err
	return d
}

// New creates a diagnostic from a registered code.
func New(code string) *Diagnostic {
	t, ok := registry[code]
	if !ok {
		return &Diagnostic{Code: code, Message: "Unknown error"}
	}
	return &Diagnostic{
		Code:       code,
		Category:   t.Category,
		Message:    t.Message,
		Detail:     t.Detail,
		Suggestion: t.Suggestion,
	}
}

// Newf creates an uncoded diagnostic with a formatted message.
func Newf(category Category, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a diagnostic with the given code. A diagnostic is
// returned unchanged.
func FromError(err error, code string) *Diagnostic {
	if err == nil {
		return nil
	}
	var d *Diagnostic
	if stderrors.As(err, &d) {
		return d
	}
	return New(code).Wrap(err)
}

// sentinels is checked in order; the first match wins.
var sentinels = []struct {
	err  error
	code string
}{
	{reactive.ErrFlushBudgetExceeded, "R004"},
	{reactive.ErrCyclicDependency, "R003"},
	{reactive.ErrUseAfterDispose, "R002"},
	{reactive.ErrNoActiveScope, "R001"},
	{reconcile.ErrDuplicateKey, "R020"},
	{binding.ErrMissingBinding, "R030"},
	{demo.ErrUnknownCounter, "R040"},
	{demo.ErrInvalidScript, "R041"},
}

// FromRuntime classifies err by the sentinel it wraps and fills in the node
// or script line it carries. Unrecognized errors get R051.
func FromRuntime(err error) *Diagnostic {
	if err == nil {
		return nil
	}
	var d *Diagnostic
	if stderrors.As(err, &d) {
		return d
	}

	code := "R051"
	for _, s := range sentinels {
		if stderrors.Is(err, s.err) {
			code = s.code
			break
		}
	}

	var pe *reactive.PanicError
	var ee *reactive.EffectError
	if code == "R051" {
		switch {
		case stderrors.As(err, &pe):
			code = "R006"
		case stderrors.As(err, &ee):
			code = "R005"
		}
	}

	d = New(code).Wrap(err)
	if stderrors.As(err, &ee) {
		d.Node = nodeName(ee.Node, ee.Label)
	} else {
		var re *reactive.Error
		if stderrors.As(err, &re) && re.Node != 0 {
			d.Node = nodeName(re.Node, "")
		}
	}
	var le *demo.LineError
	if stderrors.As(err, &le) {
		d.Line = le.Line
	}
	return d
}

func nodeName(id reactive.NodeID, label string) string {
	if label == "" {
		return "node " + id.String()
	}
	return fmt.Sprintf("node %s (%s)", id, label)
}
