package platform

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-drift/maps/pkg/errors"
	"github.com/go-drift/maps/pkg/maps"
)

// MapsChannel is the method channel carrying marker operations.
const MapsChannel = "drift/maps"

// Marker types understood by the native engine. Rendered icons need a
// DOM-backed marker; everything else uses a plain marker.
const (
	markerTypeDom    = "dom"
	markerTypeBitmap = "bitmap"
)

// engineRegistry routes native callbacks to the engine owning a marker and
// hands out process-wide marker and icon IDs.
type engineRegistry struct {
	once    sync.Once
	channel *MethodChannel

	mu      sync.Mutex
	engines map[int64]*MapEngine
	owners  map[int64]*MapEngine // marker ID -> engine

	nextMarkerID atomic.Int64
	nextIconID   atomic.Int64
}

var mapRegistry = &engineRegistry{
	engines: make(map[int64]*MapEngine),
	owners:  make(map[int64]*MapEngine),
}

func (r *engineRegistry) methodChannel() *MethodChannel {
	r.once.Do(func() {
		r.channel = NewMethodChannel(MapsChannel)
		r.channel.SetHandler(r.handleMethodCall)
	})
	return r.channel
}

func (r *engineRegistry) register(e *MapEngine) {
	r.mu.Lock()
	r.engines[e.mapID] = e
	r.mu.Unlock()
}

func (r *engineRegistry) unregister(e *MapEngine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.engines[e.mapID] == e {
		delete(r.engines, e.mapID)
	}
	for id, owner := range r.owners {
		if owner == e {
			delete(r.owners, id)
		}
	}
}

func (r *engineRegistry) setOwner(markerID int64, e *MapEngine) {
	r.mu.Lock()
	if e == nil {
		delete(r.owners, markerID)
	} else {
		r.owners[markerID] = e
	}
	r.mu.Unlock()
}

func (r *engineRegistry) owner(markerID int64) *MapEngine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owners[markerID]
}

func (r *engineRegistry) reset() {
	r.mu.Lock()
	r.engines = make(map[int64]*MapEngine)
	r.owners = make(map[int64]*MapEngine)
	r.mu.Unlock()
	r.nextMarkerID.Store(0)
	r.nextIconID.Store(0)
}

// handleMethodCall processes incoming method calls from native code.
func (r *engineRegistry) handleMethodCall(method string, args any) (any, error) {
	switch method {
	case "onMarkerRemoved":
		id, err := markerIDArg(args)
		if err != nil {
			return nil, err
		}
		if e := r.owner(id); e != nil {
			e.markerRemoved(id)
		}
		return nil, nil
	default:
		return nil, ErrMethodNotFound
	}
}

func markerIDArg(args any) (int64, error) {
	m, ok := args.(map[string]any)
	if !ok {
		return 0, parseErr("markerId", args)
	}
	id, ok := toInt64(m["markerId"])
	if !ok {
		return 0, parseErr("markerId", m["markerId"])
	}
	return id, nil
}

func parseErr(dataType string, got any) error {
	err := &errors.ParseError{Channel: MapsChannel, DataType: dataType, Got: got}
	errors.Report(&errors.DriftError{
		Op:      "platform.MapEngine.handleMethodCall",
		Kind:    errors.KindParsing,
		Channel: MapsChannel,
		Err:     err,
	})
	return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
}

// MapEngine drives markers on one native map instance. It implements
// [maps.Map]; markers it creates implement [maps.MarkerHandle].
//
// The map itself is created and owned by the embedding container; MapEngine
// only addresses it by ID.
//
// All methods are safe for concurrent use.
type MapEngine struct {
	mapID   int64
	channel *MethodChannel
	tracer  trace.Tracer

	mu        sync.Mutex
	markers   map[int64]*nativeMarker   // guarded by mu
	icons     map[string]bitmapIcon     // guarded by mu
	onRemoved func(h maps.MarkerHandle) // guarded by mu
}

var _ maps.Map = (*MapEngine)(nil)

type bitmapIcon struct {
	id     int64
	width  int
	height int
}

// tracerName identifies spans emitted by MapEngine.
const tracerName = "drift/maps/platform"

// MapEngineOption configures a [MapEngine].
type MapEngineOption func(*MapEngine)

// WithTracerProvider makes the engine trace channel calls with tp instead
// of the global provider.
func WithTracerProvider(tp trace.TracerProvider) MapEngineOption {
	return func(e *MapEngine) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// NewMapEngine returns an engine for the native map identified by mapID.
func NewMapEngine(mapID int64, opts ...MapEngineOption) *MapEngine {
	e := &MapEngine{
		mapID:   mapID,
		channel: mapRegistry.methodChannel(),
		tracer:  otel.Tracer(tracerName),
		markers: make(map[int64]*nativeMarker),
		icons:   make(map[string]bitmapIcon),
	}
	for _, opt := range opts {
		opt(e)
	}
	mapRegistry.register(e)
	return e
}

// MapID returns the native map ID.
func (e *MapEngine) MapID() int64 {
	return e.mapID
}

// MarkerCount returns the number of live markers.
func (e *MapEngine) MarkerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.markers)
}

// Close stops routing native callbacks to e. Live markers are forgotten but
// not removed from the native map.
func (e *MapEngine) Close() {
	mapRegistry.unregister(e)
	e.mu.Lock()
	for _, m := range e.markers {
		m.gone.Store(true)
	}
	e.markers = make(map[int64]*nativeMarker)
	e.mu.Unlock()
}

// CreateMarker adds a marker to the native map.
func (e *MapEngine) CreateMarker(pos maps.LatLng, icon maps.Icon) (maps.MarkerHandle, error) {
	id := mapRegistry.nextMarkerID.Add(1)
	args := map[string]any{
		"mapId":      e.mapID,
		"markerId":   id,
		"markerType": markerType(icon),
		"lat":        pos.Lat,
		"lng":        pos.Lng,
	}
	if payload := e.iconPayload(icon); payload != nil {
		args["icon"] = payload
	}
	if err := e.invoke("createMarker", args); err != nil {
		return nil, err
	}

	m := &nativeMarker{id: id, engine: e}
	e.mu.Lock()
	e.markers[id] = m
	e.mu.Unlock()
	mapRegistry.setOwner(id, e)
	return m, nil
}

// RemoveObject removes a marker created by e. Removing a marker the native
// side already dropped is a no-op.
func (e *MapEngine) RemoveObject(h maps.MarkerHandle) error {
	m, ok := h.(*nativeMarker)
	if !ok || m.engine != e {
		return ErrForeignHandle
	}
	if m.gone.Load() {
		return nil
	}
	err := e.invoke("removeObject", map[string]any{
		"mapId":    e.mapID,
		"markerId": m.id,
	})
	if err != nil {
		return err
	}
	e.forget(m.id)
	return nil
}

func (e *MapEngine) forget(id int64) *nativeMarker {
	e.mu.Lock()
	m := e.markers[id]
	delete(e.markers, id)
	e.mu.Unlock()
	if m != nil {
		m.gone.Store(true)
	}
	mapRegistry.setOwner(id, nil)
	return m
}

// SetOnMarkerRemoved registers fn to run on the UI thread whenever the
// native side removes a marker on its own (for example when the map view is
// torn down). It runs after the marker's own [nativeMarker.OnRemoved]
// callback. Pass nil to unregister.
func (e *MapEngine) SetOnMarkerRemoved(fn func(h maps.MarkerHandle)) {
	e.mu.Lock()
	e.onRemoved = fn
	e.mu.Unlock()
}

// markerRemoved processes removal events from native. Callbacks are
// marshalled to the UI thread; without a dispatcher they are dropped and
// the loss is reported.
func (e *MapEngine) markerRemoved(id int64) {
	m := e.forget(id)
	if m == nil {
		return
	}
	e.mu.Lock()
	engineCb := e.onRemoved
	e.mu.Unlock()
	markerCb := m.removedCallback()
	if engineCb == nil && markerCb == nil {
		return
	}

	ok := Dispatch(func() {
		if markerCb != nil {
			markerCb()
		}
		if engineCb != nil {
			engineCb(m)
		}
	})
	if !ok {
		errors.Report(&errors.DriftError{
			Op:      "platform.MapEngine.markerRemoved",
			Kind:    errors.KindPlatform,
			Channel: MapsChannel,
			Err:     fmt.Errorf("%w: removal of marker %d not delivered", ErrNoDispatcher, id),
		})
	}
}

// iconPayload encodes icon for the wire. Bitmap icons get a stable ID per
// URL so the native side can share one icon resource between markers.
func (e *MapEngine) iconPayload(icon maps.Icon) map[string]any {
	switch icon.Kind {
	case maps.IconBitmap:
		e.mu.Lock()
		bi, ok := e.icons[icon.URL]
		if !ok {
			bi = bitmapIcon{id: mapRegistry.nextIconID.Add(1)}
			if w, h, sized := probeDataURI(icon.URL); sized {
				bi.width, bi.height = w, h
			}
			e.icons[icon.URL] = bi
		}
		e.mu.Unlock()

		payload := map[string]any{
			"kind":   markerTypeBitmap,
			"iconId": bi.id,
			"url":    icon.URL,
		}
		if bi.width > 0 && bi.height > 0 {
			payload["width"] = bi.width
			payload["height"] = bi.height
		}
		return payload
	case maps.IconRendered:
		return map[string]any{
			"kind":   markerTypeDom,
			"markup": icon.Markup,
		}
	default:
		return nil
	}
}

func (e *MapEngine) invoke(method string, args map[string]any) error {
	_, span := e.tracer.Start(context.Background(), "maps."+method,
		trace.WithAttributes(
			attribute.Int64("drift.map.id", e.mapID),
			attribute.String("drift.channel", MapsChannel),
		),
	)
	defer span.End()

	if _, err := e.channel.Invoke(method, args); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func markerType(icon maps.Icon) string {
	if icon.Kind == maps.IconRendered {
		return markerTypeDom
	}
	return markerTypeBitmap
}

// nativeMarker is a marker living on a native map.
type nativeMarker struct {
	id     int64
	engine *MapEngine
	gone   atomic.Bool

	mu        sync.Mutex
	onRemoved func() // guarded by mu
}

var (
	_ maps.MarkerHandle    = (*nativeMarker)(nil)
	_ maps.RemovalNotifier = (*nativeMarker)(nil)
)

// OnRemoved registers fn to run on the UI thread when the native side
// removes this marker on its own. Removal through RemoveObject or Close does
// not trigger it.
func (m *nativeMarker) OnRemoved(fn func()) {
	m.mu.Lock()
	m.onRemoved = fn
	m.mu.Unlock()
}

func (m *nativeMarker) removedCallback() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onRemoved
}

// ID returns the marker ID shared with the native side.
func (m *nativeMarker) ID() int64 {
	return m.id
}

func (m *nativeMarker) SetPosition(pos maps.LatLng) error {
	if m.gone.Load() {
		return ErrMarkerGone
	}
	return m.engine.invoke("setPosition", map[string]any{
		"markerId": m.id,
		"lat":      pos.Lat,
		"lng":      pos.Lng,
	})
}

// SetIcon replaces the marker icon. When the icon needs a different marker
// type than the current one the native side swaps the marker in place;
// markerType tells it which one to use.
func (m *nativeMarker) SetIcon(icon maps.Icon) error {
	if m.gone.Load() {
		return ErrMarkerGone
	}
	args := map[string]any{
		"markerId":   m.id,
		"markerType": markerType(icon),
		"icon":       nil,
	}
	if payload := m.engine.iconPayload(icon); payload != nil {
		args["icon"] = payload
	}
	return m.engine.invoke("setIcon", args)
}
