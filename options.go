package ggstage

import (
	"github.com/gogpu/ggstage/canvas"
	"github.com/gogpu/ggstage/viewport"
)

// Option configures a Plugin.
//
// Example:
//
//	stage := ggstage.New(
//	    ggstage.WithHost(host),
//	    ggstage.WithWidth(1920),
//	    ggstage.WithRendering(canvas.Pixelated),
//	)
type Option func(*options)

type options struct {
	host      viewport.Host
	width     float64
	rendering canvas.Rendering
	factory   viewport.CanvasFactory
}

func defaultOptions() options {
	return options{
		width:     viewport.DefaultWidth,
		rendering: canvas.CrispEdges,
	}
}

// WithHost sets the element the surface is attached to. Without it,
// Startup looks for a viewport.Host resource in the world.
func WithHost(h viewport.Host) Option {
	return func(o *options) {
		o.host = h
	}
}

// WithWidth sets the logical width of the surface.
func WithWidth(width float64) Option {
	return func(o *options) {
		o.width = width
	}
}

// WithRendering sets the image rendering mode.
func WithRendering(r canvas.Rendering) Option {
	return func(o *options) {
		o.rendering = r
	}
}

// WithCanvasFactory replaces how the surface's canvas is created, for
// example with a canvas.Recorder in tests.
func WithCanvasFactory(f viewport.CanvasFactory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithSettings applies width and rendering from s. An unknown rendering
// keyword leaves the rendering unchanged; use Settings.Validate first to
// report it.
func WithSettings(s Settings) Option {
	return func(o *options) {
		if s.Width > 0 {
			o.width = s.Width
		}
		if r, err := canvas.ParseRendering(s.Rendering); err == nil {
			o.rendering = r
		}
	}
}
