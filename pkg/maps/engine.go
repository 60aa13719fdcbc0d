package maps

// Map is the engine-side map instance markers are added to. It is shared by
// every marker under the same [Scope]; controllers only issue marker-scoped
// operations through it.
type Map interface {
	// CreateMarker adds a marker at pos. An icon of kind IconNone creates a
	// marker with the engine's default icon.
	CreateMarker(pos LatLng, icon Icon) (MarkerHandle, error)

	// RemoveObject removes a marker previously returned by CreateMarker.
	RemoveObject(h MarkerHandle) error
}

// MarkerHandle is a live engine marker. Each handle is owned by exactly one
// [MarkerController].
type MarkerHandle interface {
	SetPosition(pos LatLng) error
	SetIcon(icon Icon) error
}

// RemovalNotifier is implemented by handles whose marker the engine can
// remove on its own, for example when the native map view is torn down.
// OnRemoved registers fn to run on the UI thread after such a removal;
// a later call replaces the earlier fn.
type RemovalNotifier interface {
	OnRemoved(fn func())
}
