package markup

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"nil", nil, `<div class="dom-marker"></div>`},
		{"text", Text("A"), `<div class="dom-marker">A</div>`},
		{"escaped text", Text("a<b&c"), `<div class="dom-marker">a&lt;b&amp;c</div>`},
		{
			"element with attrs",
			Element("span", Attrs{"title": "pin", "class": "label"}, Text("Amsterdam")),
			`<div class="dom-marker"><span class="label" title="pin">Amsterdam</span></div>`,
		},
		{
			"fragment",
			Fragment(Text("A"), nil, Element("b", nil, Text("B"))),
			`<div class="dom-marker">A<b>B</b></div>`,
		},
		{
			"void element",
			Element("img", Attrs{"src": "pin.png"}),
			`<div class="dom-marker"><img src="pin.png"/></div>`,
		},
		{
			"uppercase tag",
			Element("EM", nil, Text("x")),
			`<div class="dom-marker"><em>x</em></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.node)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_ElementWithoutTag(t *testing.T) {
	if _, err := Render(&Node{Type: ElementNode}); err == nil {
		t.Error("expected error for element without tag")
	}
}

func TestRender_VoidElementWithChildren(t *testing.T) {
	if _, err := Render(Element("br", nil, Text("x"))); err == nil {
		t.Error("expected error for void element with children")
	}
}

func TestRender_Component(t *testing.T) {
	c := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<strong class="count">12</strong>`)
		return err
	})
	got, err := Render(Fragment(Component(c), Text(" stops")))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<div class="dom-marker"><strong class="count">12</strong> stops</div>`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_ComponentError(t *testing.T) {
	boom := errors.New("boom")
	c := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })
	_, err := Render(Component(c))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestRender_Deterministic(t *testing.T) {
	n := Element("div", Attrs{"b": "2", "a": "1", "c": "3"})
	first, _ := Render(n)
	for i := 0; i < 10; i++ {
		got, _ := Render(n)
		if got != first {
			t.Fatalf("render %d differs: %q vs %q", i, got, first)
		}
	}
	if !strings.Contains(first, `a="1" b="2" c="3"`) {
		t.Errorf("attributes not sorted: %q", first)
	}
}

func TestNodeLen(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want int
	}{
		{"nil", nil, 0},
		{"empty fragment", Fragment(), 0},
		{"fragment of nils", Fragment(nil, nil), 0},
		{"fragment", Fragment(Text("a"), Text("b")), 2},
		{"text", Text(""), 1},
		{"element", Element("span", nil), 1},
	}
	for _, tt := range tests {
		if got := tt.node.Len(); got != tt.want {
			t.Errorf("%s: Len() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
