// Package scene loads marker replay scripts and plays them against a map
// engine.
//
// A scene is a YAML list of steps:
//
//	steps:
//	  - op: mount
//	    marker: pin
//	    lat: 52.0
//	    lng: 4.3
//	    content:
//	      - tag: b
//	        children: [{text: A}]
//	  - op: attach
//	  - op: update
//	    marker: pin
//	    lat: 52.1
//	  - op: unmount
//	    marker: pin
//
// Update steps start from the marker's previous declaration. Omitting
// content keeps the previous content tree (same identity); listing content
// builds a new tree; "content: []" clears it.
package scene

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/maps/pkg/maps"
	"github.com/go-drift/maps/pkg/markup"
)

// Step operations.
const (
	OpMount   = "mount"
	OpUpdate  = "update"
	OpUnmount = "unmount"
	OpAttach  = "attach"
	OpDetach  = "detach"
)

// Scene is a parsed replay script.
type Scene struct {
	Steps []Step `yaml:"steps"`
}

// Step is one lifecycle event.
type Step struct {
	Op      string     `yaml:"op"`
	Marker  string     `yaml:"marker,omitempty"`
	Lat     *float64   `yaml:"lat,omitempty"`
	Lng     *float64   `yaml:"lng,omitempty"`
	Bitmap  *string    `yaml:"bitmap,omitempty"`
	Content []NodeSpec `yaml:"content"`
}

// NodeSpec describes a content node. Exactly one of Text or Tag is set.
type NodeSpec struct {
	Text     string            `yaml:"text,omitempty"`
	Tag      string            `yaml:"tag,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Children []NodeSpec        `yaml:"children,omitempty"`
}

func (s Step) String() string {
	if s.Marker == "" {
		return s.Op
	}
	return s.Op + " " + s.Marker
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scene.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scene has no steps")
	}
	for i, step := range s.Steps {
		switch step.Op {
		case OpMount, OpUpdate, OpUnmount:
			if strings.TrimSpace(step.Marker) == "" {
				return fmt.Errorf("step %d (%s): marker name required", i+1, step.Op)
			}
		case OpAttach, OpDetach:
			if step.Marker != "" {
				return fmt.Errorf("step %d (%s): takes no marker", i+1, step.Op)
			}
		default:
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
		for _, n := range step.Content {
			if err := n.validate(); err != nil {
				return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
			}
		}
	}
	return nil
}

func (n NodeSpec) validate() error {
	if (n.Text == "") == (n.Tag == "") {
		return fmt.Errorf("content node needs exactly one of text or tag")
	}
	if n.Text != "" && (len(n.Attrs) > 0 || len(n.Children) > 0) {
		return fmt.Errorf("text node %q cannot have attrs or children", n.Text)
	}
	for _, c := range n.Children {
		if err := c.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns the declaration produced by applying s to prev.
func (s Step) Apply(prev maps.Marker) maps.Marker {
	next := prev
	if s.Lat != nil {
		next.Position.Lat = *s.Lat
	}
	if s.Lng != nil {
		next.Position.Lng = *s.Lng
	}
	if s.Bitmap != nil {
		next.Bitmap = *s.Bitmap
	}
	if s.Content != nil {
		next.Content = buildContent(s.Content)
	}
	return next
}

func buildContent(specs []NodeSpec) *markup.Node {
	switch len(specs) {
	case 0:
		return nil
	case 1:
		return specs[0].build()
	}
	children := make([]*markup.Node, len(specs))
	for i, spec := range specs {
		children[i] = spec.build()
	}
	return markup.Fragment(children...)
}

func (n NodeSpec) build() *markup.Node {
	if n.Text != "" {
		return markup.Text(n.Text)
	}
	children := make([]*markup.Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.build()
	}
	return markup.Element(n.Tag, markup.Attrs(n.Attrs), children...)
}
