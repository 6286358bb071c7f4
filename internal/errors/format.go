package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	codeStyle  = lipgloss.NewStyle().Bold(true)
	whereStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	causeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// colorEnabled controls whether styles are applied.
var colorEnabled = true

// DisableColors turns off styled output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors turns on styled output.
func EnableColors() {
	colorEnabled = true
}

func render(s lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return s.Render(text)
}

// Format returns the diagnostic laid out for a terminal.
func (d *Diagnostic) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if d.Code != "" {
		b.WriteString(render(errorStyle, "ERROR "))
		b.WriteString(render(codeStyle, d.Code+": "))
	} else {
		b.WriteString(render(errorStyle, "ERROR: "))
	}
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	if where := d.where(); where != "" {
		b.WriteString("  ")
		b.WriteString(render(whereStyle, where))
		b.WriteString("\n\n")
	}

	if d.Detail != "" {
		for _, line := range wrapText(d.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if d.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(render(causeStyle, "Cause: "+d.Wrapped.Error()))
		b.WriteString("\n\n")
	}

	if d.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(render(hintStyle, "Hint: "))
		b.WriteString(d.Suggestion)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCompact returns a single-line form.
func (d *Diagnostic) FormatCompact() string {
	var b strings.Builder
	if where := d.where(); where != "" {
		b.WriteString(where)
		b.WriteString(": ")
	}
	if d.Code != "" {
		b.WriteString(d.Code)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

type jsonDiagnostic struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Node       string   `json:"node,omitempty"`
	Line       int      `json:"line,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Cause      string   `json:"cause,omitempty"`
}

// FormatJSON returns the diagnostic as a JSON object.
func (d *Diagnostic) FormatJSON() string {
	j := jsonDiagnostic{
		Code:       d.Code,
		Category:   d.Category,
		Message:    d.Message,
		Detail:     d.Detail,
		Node:       d.Node,
		Line:       d.Line,
		Suggestion: d.Suggestion,
	}
	if d.Wrapped != nil {
		j.Cause = d.Wrapped.Error()
	}
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, d.Message)
	}
	return string(data)
}

func (d *Diagnostic) where() string {
	switch {
	case d.Node != "" && d.Line > 0:
		return fmt.Sprintf("line %d, %s", d.Line, d.Node)
	case d.Line > 0:
		return fmt.Sprintf("line %d", d.Line)
	default:
		return d.Node
	}
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Print writes err to w, formatted as a diagnostic.
func Print(w io.Writer, err error) {
	var d *Diagnostic
	if !stderrors.As(err, &d) {
		d = FromRuntime(err)
	}
	fmt.Fprint(w, d.Format())
}
