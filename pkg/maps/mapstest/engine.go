// Package mapstest provides a recording map engine for testing code that
// drives markers.
package mapstest

import (
	"fmt"

	"github.com/go-drift/maps/pkg/maps"
)

// Engine operations recorded in Call.Op.
const (
	OpCreateMarker = "createMarker"
	OpSetPosition  = "setPosition"
	OpSetIcon      = "setIcon"
	OpRemoveObject = "removeObject"
)

// Call is one recorded engine operation.
type Call struct {
	Op       string
	MarkerID int
	Position maps.LatLng
	Icon     maps.Icon
}

func (c Call) String() string {
	switch c.Op {
	case OpCreateMarker:
		return fmt.Sprintf("%s #%d at %s icon=%s", c.Op, c.MarkerID, c.Position, c.Icon.Kind)
	case OpSetPosition:
		return fmt.Sprintf("%s #%d to %s", c.Op, c.MarkerID, c.Position)
	case OpSetIcon:
		return fmt.Sprintf("%s #%d icon=%s", c.Op, c.MarkerID, c.Icon.Kind)
	default:
		return fmt.Sprintf("%s #%d", c.Op, c.MarkerID)
	}
}

// Engine is an in-memory [maps.Map] that records every call.
// It is not safe for concurrent use.
type Engine struct {
	Calls []Call

	nextID  int
	live    map[int]*Marker
	failing map[string][]error
}

var _ maps.Map = (*Engine)(nil)

// NewEngine returns an empty engine.
func NewEngine() *Engine {
	return &Engine{
		live:    make(map[int]*Marker),
		failing: make(map[string][]error),
	}
}

// Marker is a handle created by Engine.
type Marker struct {
	ID       int
	Position maps.LatLng
	Icon     maps.Icon
	Removed  bool

	engine    *Engine
	onRemoved func()
}

var _ maps.RemovalNotifier = (*Marker)(nil)

// OnRemoved implements [maps.RemovalNotifier]. fn runs when the marker is
// dropped with [Engine.Drop].
func (m *Marker) OnRemoved(fn func()) {
	m.onRemoved = fn
}

// FailNext makes the next call to op fail with err. Calls queue in order.
// The failed call is still recorded.
func (e *Engine) FailNext(op string, err error) {
	e.failing[op] = append(e.failing[op], err)
}

func (e *Engine) takeFailure(op string) error {
	errs := e.failing[op]
	if len(errs) == 0 {
		return nil
	}
	e.failing[op] = errs[1:]
	return errs[0]
}

func (e *Engine) CreateMarker(pos maps.LatLng, icon maps.Icon) (maps.MarkerHandle, error) {
	e.nextID++
	e.Calls = append(e.Calls, Call{Op: OpCreateMarker, MarkerID: e.nextID, Position: pos, Icon: icon})
	if err := e.takeFailure(OpCreateMarker); err != nil {
		return nil, err
	}
	m := &Marker{ID: e.nextID, Position: pos, Icon: icon, engine: e}
	e.live[m.ID] = m
	return m, nil
}

func (e *Engine) RemoveObject(h maps.MarkerHandle) error {
	m, ok := h.(*Marker)
	if !ok || m.engine != e {
		return fmt.Errorf("mapstest: foreign handle %T", h)
	}
	e.Calls = append(e.Calls, Call{Op: OpRemoveObject, MarkerID: m.ID})
	if err := e.takeFailure(OpRemoveObject); err != nil {
		return err
	}
	if m.Removed {
		return fmt.Errorf("mapstest: marker #%d already removed", m.ID)
	}
	m.Removed = true
	delete(e.live, m.ID)
	return nil
}

func (m *Marker) SetPosition(pos maps.LatLng) error {
	m.engine.Calls = append(m.engine.Calls, Call{Op: OpSetPosition, MarkerID: m.ID, Position: pos})
	if err := m.engine.takeFailure(OpSetPosition); err != nil {
		return err
	}
	if m.Removed {
		return fmt.Errorf("mapstest: marker #%d used after removal", m.ID)
	}
	m.Position = pos
	return nil
}

func (m *Marker) SetIcon(icon maps.Icon) error {
	m.engine.Calls = append(m.engine.Calls, Call{Op: OpSetIcon, MarkerID: m.ID, Icon: icon})
	if err := m.engine.takeFailure(OpSetIcon); err != nil {
		return err
	}
	if m.Removed {
		return fmt.Errorf("mapstest: marker #%d used after removal", m.ID)
	}
	m.Icon = icon
	return nil
}

// Drop removes a live marker as if the engine had discarded it on its own.
// No call is recorded. It reports whether the marker was live.
func (e *Engine) Drop(id int) bool {
	m, ok := e.live[id]
	if !ok {
		return false
	}
	m.Removed = true
	delete(e.live, id)
	if m.onRemoved != nil {
		m.onRemoved()
	}
	return true
}

// Count returns how many calls of op were recorded.
func (e *Engine) Count(op string) int {
	n := 0
	for _, c := range e.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Live returns the markers currently on the map.
func (e *Engine) Live() int {
	return len(e.live)
}

// Reset clears recorded calls. Live markers are kept.
func (e *Engine) Reset() {
	e.Calls = nil
}
