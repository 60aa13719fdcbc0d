// Package markup describes marker content as a tree of nodes and renders it
// to an HTML string for DOM-backed marker icons.
//
// Content is built with the constructor helpers and is treated as immutable
// once handed to a marker:
//
//	content := markup.Element("span", markup.Attrs{"class": "pin"},
//	    markup.Text("A"),
//	)
//
// Marker diffing compares content by pointer identity, so reuse the same
// *Node across rebuilds when the appearance has not changed.
package markup

import (
	"sort"

	"github.com/a-h/templ"
)

// NodeType identifies the kind of a content node.
type NodeType int

const (
	// FragmentNode groups children without producing an element of its own.
	FragmentNode NodeType = iota
	// ElementNode is an HTML element with a tag, attributes and children.
	ElementNode
	// TextNode is escaped character data.
	TextNode
	// ComponentNode embeds a templ component.
	ComponentNode
)

func (t NodeType) String() string {
	switch t {
	case FragmentNode:
		return "fragment"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case ComponentNode:
		return "component"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute.
type Attr struct {
	Key   string
	Value string
}

// Attrs is a convenience map for building attribute lists. Keys are emitted
// in sorted order so rendering is deterministic.
type Attrs map[string]string

// Node is one node of a marker content tree.
type Node struct {
	Type      NodeType
	Tag       string
	Attrs     []Attr
	Text      string
	Component templ.Component
	Children  []*Node
}

// Fragment groups children.
func Fragment(children ...*Node) *Node {
	return &Node{Type: FragmentNode, Children: children}
}

// Element creates an element node.
func Element(tag string, attrs Attrs, children ...*Node) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: sortedAttrs(attrs), Children: children}
}

// Text creates a text node.
func Text(s string) *Node {
	return &Node{Type: TextNode, Text: s}
}

// Component wraps a templ component as a content node.
func Component(c templ.Component) *Node {
	return &Node{Type: ComponentNode, Component: c}
}

// Len reports the number of renderable top-level items in n. Fragments
// count their non-nil children; every other node counts as one. A nil
// node has length zero.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	if n.Type != FragmentNode {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		if c != nil {
			count++
		}
	}
	return count
}

func sortedAttrs(attrs Attrs) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Attr, len(keys))
	for i, k := range keys {
		out[i] = Attr{Key: k, Value: attrs[k]}
	}
	return out
}
