package markup

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WrapperClass is the class of the element every rendered marker is wrapped in.
const WrapperClass = "dom-marker"

// Render renders content to static HTML wrapped in a
// <div class="dom-marker"> element. A nil node renders an empty wrapper.
func Render(n *Node) (string, error) {
	return RenderContext(context.Background(), n)
}

// RenderContext is like Render but passes ctx to embedded templ components.
func RenderContext(ctx context.Context, n *Node) (string, error) {
	root := newElement("div", []html.Attribute{{Key: "class", Val: WrapperClass}})
	if err := appendNode(ctx, root, n); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("markup: render: %w", err)
	}
	return buf.String(), nil
}

func appendNode(ctx context.Context, parent *html.Node, n *Node) error {
	if n == nil {
		return nil
	}
	switch n.Type {
	case FragmentNode:
		return appendChildren(ctx, parent, n.Children)
	case TextNode:
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		return nil
	case ElementNode:
		tag := strings.ToLower(strings.TrimSpace(n.Tag))
		if tag == "" {
			return fmt.Errorf("markup: element without tag")
		}
		attrs := make([]html.Attribute, len(n.Attrs))
		for i, a := range n.Attrs {
			attrs[i] = html.Attribute{Key: a.Key, Val: a.Value}
		}
		el := newElement(tag, attrs)
		parent.AppendChild(el)
		return appendChildren(ctx, el, n.Children)
	case ComponentNode:
		return appendComponent(ctx, parent, n)
	default:
		return fmt.Errorf("markup: unknown node type %v", n.Type)
	}
}

func appendChildren(ctx context.Context, parent *html.Node, children []*Node) error {
	for _, c := range children {
		if err := appendNode(ctx, parent, c); err != nil {
			return err
		}
	}
	return nil
}

// appendComponent renders a templ component and re-parses its output as a
// fragment so it is serialized by the same writer as the rest of the tree.
func appendComponent(ctx context.Context, parent *html.Node, n *Node) error {
	if n.Component == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := n.Component.Render(ctx, &buf); err != nil {
		return fmt.Errorf("markup: component: %w", err)
	}
	nodes, err := html.ParseFragment(&buf, newElement("div", nil))
	if err != nil {
		return fmt.Errorf("markup: component output: %w", err)
	}
	for _, node := range nodes {
		parent.AppendChild(node)
	}
	return nil
}

func newElement(tag string, attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}
