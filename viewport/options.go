package viewport

import "github.com/gogpu/ggstage/canvas"

// DefaultWidth is the logical width of a new surface.
const DefaultWidth = 1000

// CanvasFactory creates the canvas for a surface at the given buffer size.
type CanvasFactory func(width, height int, r canvas.Rendering) (canvas.Canvas, error)

// RasterFactory creates canvas.Raster canvases.
func RasterFactory(width, height int, r canvas.Rendering) (canvas.Canvas, error) {
	return canvas.NewRaster(width, height, canvas.WithRendering(r))
}

type options struct {
	width     float64
	rendering canvas.Rendering
	factory   CanvasFactory
}

func defaultOptions() options {
	return options{
		width:     DefaultWidth,
		rendering: canvas.CrispEdges,
		factory:   RasterFactory,
	}
}

// Option configures Setup.
type Option func(*options)

// WithWidth sets the requested logical width. Non-positive values are
// ignored.
func WithWidth(width float64) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
	}
}

// WithRendering sets the image rendering mode.
func WithRendering(r canvas.Rendering) Option {
	return func(o *options) {
		o.rendering = r
	}
}

// WithCanvasFactory replaces how the canvas is created.
func WithCanvasFactory(f CanvasFactory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}
