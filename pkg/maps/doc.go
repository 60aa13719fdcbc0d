// Package maps keeps a declarative map marker in sync with the imperative
// marker object owned by a native map engine.
//
// A [Marker] describes where a marker sits and what it looks like for one
// build. A [MarkerController] owns the engine-side [MarkerHandle] for one
// marker and turns a sequence of declarations into engine operations:
//
//	scope := maps.NewScope()
//	ctrl := maps.NewMarkerController(scope, maps.Marker{
//	    Position: maps.LatLng{Lat: 52.0, Lng: 4.3},
//	    Content:  markup.Text("A"),
//	})
//	ctrl.Mount()          // waits: no map yet
//	scope.Attach(engine)  // creates the marker
//	ctrl.Update(next)     // repositions and/or re-icons
//	ctrl.Unmount()        // removes the marker
//
// # Icons
//
// [ResolveIcon] maps a declaration to an [Icon]: rendered content wins over a
// bitmap URL, and a declaration with neither produces a position-only marker.
//
// # Change detection
//
// [Diff] compares successive declarations. Positions are compared exactly.
// Content is compared by pointer identity, never structurally: a new *Node
// with identical markup still re-icons the marker, and mutating a *Node in
// place is not detected.
package maps
