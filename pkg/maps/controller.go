package maps

import "github.com/go-drift/maps/pkg/errors"

// ControllerState is the lifecycle state of a [MarkerController].
type ControllerState int

const (
	// StateUnmounted is the state before Mount.
	StateUnmounted ControllerState = iota
	// StateWaitingForMap means mounted without an engine marker, either
	// because no map is attached yet or because creation failed.
	StateWaitingForMap
	// StateActive means the engine marker exists.
	StateActive
	// StateDestroyed is terminal. No engine calls are issued after it.
	StateDestroyed
)

func (s ControllerState) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateWaitingForMap:
		return "waiting-for-map"
	case StateActive:
		return "active"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// ControllerOption configures a [MarkerController].
type ControllerOption func(*MarkerController)

// WithRenderer sets the renderer used for marker content.
func WithRenderer(render Renderer) ControllerOption {
	return func(c *MarkerController) {
		c.resolver.Render = render
	}
}

// WithBitmapDiff makes a Bitmap change re-resolve the icon even when the
// Content identity is unchanged.
func WithBitmapDiff() ControllerOption {
	return func(c *MarkerController) {
		c.bitmapDiff = true
	}
}

// MarkerController owns the engine marker for one declared marker and
// drives it through mount, update and unmount.
//
// The controller is not safe for concurrent use; all calls must come from
// the UI thread.
//
// Engine and renderer errors are reported to the global error handler and
// returned unchanged. A failed operation is remembered and re-issued on the
// next Update: a failed create leaves the controller waiting, a failed
// SetPosition or SetIcon is retried even if the next declaration does not
// change that part.
//
// If the engine removes the marker itself (see [RemovalNotifier]) the
// controller drops the handle and goes back to waiting; the marker is
// created again on the next Update or Attach.
type MarkerController struct {
	scope      *Scope
	resolver   IconResolver
	bitmapDiff bool

	state  ControllerState
	marker Marker

	// engine is the map the handle was created on.
	engine Map
	handle MarkerHandle

	positionDirty bool
	iconDirty     bool

	unsubscribe func()
}

// NewMarkerController creates a controller for the marker declared by
// initial. A nil scope is valid and behaves like a scope that never
// receives a map.
func NewMarkerController(scope *Scope, initial Marker, opts ...ControllerOption) *MarkerController {
	c := &MarkerController{
		scope:  scope,
		marker: initial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *MarkerController) State() ControllerState {
	return c.state
}

// Marker returns the most recent declaration.
func (c *MarkerController) Marker() Marker {
	return c.marker
}

// Handle returns the engine marker, or nil when none exists.
func (c *MarkerController) Handle() MarkerHandle {
	return c.handle
}

// Mount starts observing the scope. If a map is already attached the engine
// marker is created immediately. Mount is a no-op unless the controller is
// unmounted.
func (c *MarkerController) Mount() error {
	if c.state != StateUnmounted {
		return nil
	}
	c.state = StateWaitingForMap
	if c.scope == nil {
		return nil
	}
	c.unsubscribe = c.scope.AddListener(c.mapAttached)
	if m := c.scope.Map(); m != nil {
		return c.activate(m)
	}
	return nil
}

// Update records next as the current declaration. While active it issues
// SetPosition when the position changed and SetIcon when the content
// changed, as decided by [Diff]. While waiting it only records next, unless
// a map is attached and an earlier create failed, in which case creation is
// retried with next.
func (c *MarkerController) Update(next Marker) error {
	switch c.state {
	case StateDestroyed:
		return nil
	case StateActive:
		return c.apply(next)
	case StateWaitingForMap:
		c.marker = next
		if m := c.scope.Map(); m != nil {
			return c.activate(m)
		}
		return nil
	default:
		c.marker = next
		return nil
	}
}

// Unmount removes the engine marker, if any, and moves to StateDestroyed.
// The controller is destroyed even when removal fails.
func (c *MarkerController) Unmount() error {
	if c.state == StateDestroyed {
		return nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	engine, handle := c.engine, c.handle
	c.engine, c.handle = nil, nil
	c.positionDirty, c.iconDirty = false, false
	wasActive := c.state == StateActive
	c.state = StateDestroyed
	if !wasActive {
		return nil
	}
	if err := engine.RemoveObject(handle); err != nil {
		return report("removeObject", errors.KindEngine, err)
	}
	return nil
}

func (c *MarkerController) mapAttached(m Map) error {
	if c.state != StateWaitingForMap {
		return nil
	}
	return c.activate(m)
}

func (c *MarkerController) activate(m Map) error {
	icon, err := c.resolve(c.marker)
	if err != nil {
		return err
	}
	handle, err := m.CreateMarker(c.marker.Position, icon)
	if err != nil {
		return report("createMarker", errors.KindEngine, err)
	}
	c.engine, c.handle = m, handle
	c.positionDirty, c.iconDirty = false, false
	c.state = StateActive
	if n, ok := handle.(RemovalNotifier); ok {
		n.OnRemoved(func() { c.handleRemoved(handle) })
	}
	return nil
}

// handleRemoved runs when the engine dropped h without being asked to.
func (c *MarkerController) handleRemoved(h MarkerHandle) {
	if c.state != StateActive || c.handle != h {
		return
	}
	c.engine, c.handle = nil, nil
	c.positionDirty, c.iconDirty = false, false
	c.state = StateWaitingForMap
}

func (c *MarkerController) apply(next Marker) error {
	prev := c.marker
	c.marker = next

	change := Diff(prev, next)
	if c.bitmapDiff && prev.Bitmap != next.Bitmap {
		change.ContentChanged = true
	}
	if !change.Any() && !c.positionDirty && !c.iconDirty {
		return nil
	}
	c.positionDirty = c.positionDirty || change.PositionChanged
	c.iconDirty = c.iconDirty || change.ContentChanged

	if c.positionDirty {
		if err := c.handle.SetPosition(next.Position); err != nil {
			return report("setPosition", errors.KindEngine, err)
		}
		c.positionDirty = false
	}
	if c.iconDirty {
		icon, err := c.resolve(next)
		if err != nil {
			return err
		}
		if err := c.handle.SetIcon(icon); err != nil {
			return report("setIcon", errors.KindEngine, err)
		}
		c.iconDirty = false
	}
	return nil
}

func (c *MarkerController) resolve(m Marker) (Icon, error) {
	icon, err := c.resolver.Resolve(m)
	if err != nil {
		return Icon{}, report("render", errors.KindRender, err)
	}
	return icon, nil
}

// report hands err to the global error handler and returns it unchanged.
func report(op string, kind errors.ErrorKind, err error) error {
	errors.Report(&errors.DriftError{
		Op:   "maps.MarkerController." + op,
		Kind: kind,
		Err:  err,
	})
	return err
}
