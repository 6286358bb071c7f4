// Package view describes a materialized view as a tree of tagged nodes and
// renders it as indented text.
package view

// Kind is the node type discriminator.
type Kind uint8

const (
	KindLeaf    Kind = iota // Element with text and attributes, no children
	KindList                // Keyed children maintained by a reconciler
	KindSubtree             // Fixed, unkeyed children
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindList:
		return "List"
	case KindSubtree:
		return "Subtree"
	default:
		return "Unknown"
	}
}

// Attrs holds element attributes.
type Attrs map[string]string

// Node is one element of a materialized view.
type Node struct {
	Kind     Kind    // Node type
	Tag      string  // Element tag name (e.g., "button")
	Text     string  // Text content, KindLeaf only
	Attrs    Attrs   // Attributes
	Key      string  // Reconciliation key, set on items of a KindList
	Children []*Node // KindList and KindSubtree only
}

// Leaf creates a leaf element.
func Leaf(tag, text string, attrs Attrs) *Node {
	return &Node{Kind: KindLeaf, Tag: tag, Text: text, Attrs: attrs}
}

// Text creates an untagged text leaf.
func Text(text string) *Node {
	return &Node{Kind: KindLeaf, Text: text}
}

// Subtree creates an element with fixed children. Nil children are dropped.
func Subtree(tag string, attrs Attrs, children ...*Node) *Node {
	return &Node{Kind: KindSubtree, Tag: tag, Attrs: attrs, Children: compact(children)}
}

// List creates an element whose children are keyed items.
func List(tag string, attrs Attrs, items ...*Node) *Node {
	return &Node{Kind: KindList, Tag: tag, Attrs: attrs, Children: compact(items)}
}

// Keyed sets n's key and returns n.
func Keyed(key string, n *Node) *Node {
	n.Key = key
	return n
}

// Keys returns the keys of a list node's items in order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindList {
		return nil
	}
	keys := make([]string, len(n.Children))
	for i, c := range n.Children {
		keys[i] = c.Key
	}
	return keys
}

// Walk calls fn for n and every descendant, depth first. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func compact(nodes []*Node) []*Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
