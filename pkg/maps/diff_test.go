package maps_test

import (
	"math"
	"testing"

	"github.com/go-drift/maps/pkg/maps"
	"github.com/go-drift/maps/pkg/markup"
)

func TestDiff(t *testing.T) {
	a := markup.Text("A")
	sameA := markup.Text("A")
	at := func(lat, lng float64) maps.LatLng { return maps.LatLng{Lat: lat, Lng: lng} }

	tests := []struct {
		name string
		prev maps.Marker
		next maps.Marker
		want maps.Change
	}{
		{"identical", maps.Marker{Position: at(52, 4.3), Content: a}, maps.Marker{Position: at(52, 4.3), Content: a}, maps.Change{}},
		{"lat", maps.Marker{Position: at(52, 4.3)}, maps.Marker{Position: at(52.1, 4.3)}, maps.Change{PositionChanged: true}},
		{"lng", maps.Marker{Position: at(52, 4.3)}, maps.Marker{Position: at(52, 4.4)}, maps.Change{PositionChanged: true}},
		{"tiny delta", maps.Marker{Position: at(52, 4.3)}, maps.Marker{Position: at(math.Nextafter(52, 53), 4.3)}, maps.Change{PositionChanged: true}},
		{"new content identity", maps.Marker{Content: a}, maps.Marker{Content: sameA}, maps.Change{ContentChanged: true}},
		{"content removed", maps.Marker{Content: a}, maps.Marker{}, maps.Change{ContentChanged: true}},
		{"bitmap only", maps.Marker{Bitmap: "a.png"}, maps.Marker{Bitmap: "b.png"}, maps.Change{}},
		{"both", maps.Marker{Position: at(1, 1), Content: a}, maps.Marker{Position: at(2, 2), Content: sameA}, maps.Change{PositionChanged: true, ContentChanged: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maps.Diff(tt.prev, tt.next)
			if got != tt.want {
				t.Errorf("Diff() = %+v, want %+v", got, tt.want)
			}
			if got.Any() != (tt.want.PositionChanged || tt.want.ContentChanged) {
				t.Errorf("Any() = %v", got.Any())
			}
		})
	}
}
