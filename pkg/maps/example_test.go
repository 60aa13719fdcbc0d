package maps_test

import (
	"fmt"

	"github.com/go-drift/maps/pkg/maps"
	"github.com/go-drift/maps/pkg/maps/mapstest"
	"github.com/go-drift/maps/pkg/markup"
)

func ExampleMarkerController() {
	engine := mapstest.NewEngine()
	scope := maps.NewScope()

	label := markup.Element("b", nil, markup.Text("A"))
	ctrl := maps.NewMarkerController(scope, maps.Marker{
		Position: maps.LatLng{Lat: 52.0, Lng: 4.3},
		Content:  label,
	})
	ctrl.Mount()
	scope.Attach(engine)
	ctrl.Update(maps.Marker{Position: maps.LatLng{Lat: 52.1, Lng: 4.3}, Content: label})
	ctrl.Unmount()

	for _, call := range engine.Calls {
		fmt.Println(call)
	}
	// Output:
	// createMarker #1 at 52,4.3 icon=rendered
	// setPosition #1 to 52.1,4.3
	// removeObject #1
}

func ExampleResolveIcon() {
	icon, _ := maps.ResolveIcon(maps.Marker{Content: markup.Text("A")}, nil)
	fmt.Println(icon.Kind, icon.Markup)

	icon, _ = maps.ResolveIcon(maps.Marker{Bitmap: "https://example.com/pin.png"}, nil)
	fmt.Println(icon.Kind, icon.URL)
	// Output:
	// rendered <div class="dom-marker">A</div>
	// bitmap https://example.com/pin.png
}
