package view

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Render writes n as an indented text tree, one element per line:
//
//	div class="app"
//	  button class="red" "Click me: 0"
//	  ul
//	    li #3 "3"
//
// Attributes are sorted by name and list item keys are prefixed with '#'.
func Render(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	render(bw, n, 0)
	return bw.Flush()
}

// String renders n to a string.
func String(n *Node) string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

func render(w *bufio.Writer, n *Node, depth int) {
	if n == nil {
		return
	}
	w.WriteString(strings.Repeat("  ", depth))

	var parts []string
	if n.Tag != "" {
		parts = append(parts, n.Tag)
	}
	if n.Key != "" {
		parts = append(parts, "#"+n.Key)
	}
	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		parts = append(parts, name+"="+strconv.Quote(n.Attrs[name]))
	}
	if n.Kind == KindLeaf && (n.Text != "" || n.Tag == "") {
		parts = append(parts, strconv.Quote(n.Text))
	}
	w.WriteString(strings.Join(parts, " "))
	w.WriteByte('\n')

	for _, c := range n.Children {
		render(w, c, depth+1)
	}
}
