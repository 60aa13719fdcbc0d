package maps

import (
	"strconv"

	"github.com/go-drift/maps/pkg/markup"
)

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

func (p LatLng) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// Marker declares a marker's position and appearance for one build.
// A new Marker replaces the previous one wholesale on every update.
//
// Content takes precedence over Bitmap. With neither set the marker uses
// the engine's default icon.
type Marker struct {
	// Position of the marker.
	Position LatLng

	// Bitmap is the URL of a raster or vector image used as the icon.
	Bitmap string

	// Content is rendered to markup and used as a DOM-backed icon.
	Content *markup.Node
}

// HasContent reports whether m carries renderable content.
func (m Marker) HasContent() bool {
	return m.Content.Len() > 0
}
