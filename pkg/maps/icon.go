package maps

import "github.com/go-drift/maps/pkg/markup"

// IconKind distinguishes the icon representations a map engine accepts.
type IconKind int

const (
	// IconNone means the engine's default marker icon.
	IconNone IconKind = iota
	// IconBitmap is a raster or vector image loaded from a URL.
	IconBitmap
	// IconRendered is a DOM-backed icon built from rendered markup.
	IconRendered
)

func (k IconKind) String() string {
	switch k {
	case IconBitmap:
		return "bitmap"
	case IconRendered:
		return "rendered"
	default:
		return "none"
	}
}

// Icon is the resolved appearance of a marker.
type Icon struct {
	Kind IconKind
	// URL is set for IconBitmap.
	URL string
	// Markup is set for IconRendered.
	Markup string
}

// BitmapIcon returns an IconBitmap for url.
func BitmapIcon(url string) Icon {
	return Icon{Kind: IconBitmap, URL: url}
}

// RenderedIcon returns an IconRendered carrying markup.
func RenderedIcon(markup string) Icon {
	return Icon{Kind: IconRendered, Markup: markup}
}

// IsNone reports whether the icon is the default engine icon.
func (i Icon) IsNone() bool {
	return i.Kind == IconNone
}

// Renderer converts marker content to markup. Implementations must be
// deterministic and synchronous.
type Renderer func(content *markup.Node) (string, error)

// IconResolver resolves marker declarations to icons.
type IconResolver struct {
	// Render converts content to markup. Nil uses [markup.Render].
	Render Renderer
}

// Resolve returns the icon for m. Renderer errors are returned unchanged.
func (r IconResolver) Resolve(m Marker) (Icon, error) {
	if m.HasContent() {
		render := r.Render
		if render == nil {
			render = markup.Render
		}
		html, err := render(m.Content)
		if err != nil {
			return Icon{}, err
		}
		return RenderedIcon(html), nil
	}
	if m.Bitmap != "" {
		return BitmapIcon(m.Bitmap), nil
	}
	return Icon{}, nil
}

// ResolveIcon resolves m with the given renderer. A nil render uses
// [markup.Render].
func ResolveIcon(m Marker, render Renderer) (Icon, error) {
	return IconResolver{Render: render}.Resolve(m)
}
