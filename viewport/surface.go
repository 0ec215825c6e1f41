package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/ggstage/canvas"
	"github.com/gogpu/ggstage/ecs"
	"github.com/gogpu/ggstage/geom"
	"github.com/gogpu/ggstage/internal/logger"
)

// Errors returned by Setup and the reconcilers.
var (
	ErrNilHost     = errors.New("viewport: nil host")
	ErrInvalidZoom = errors.New("viewport: zoom must be a positive number")
)

// Surface is the drawing surface component. Exactly one exists per stage.
type Surface struct {
	// Size is the logical size in viewport units.
	Size geom.Vec2
	// DPR is the device pixel ratio sampled at the last reconciliation.
	DPR float64
	// Zoom is the requested zoom factor.
	Zoom float64
	// Aspect is height/width of the host.
	Aspect float64
	// Base maps logical coordinates to buffer pixels.
	Base geom.Matrix

	// LastWidth and LastHeight are the host size last reconciled against.
	LastWidth, LastHeight float64
	// LastZoom is the zoom factor last reconciled against.
	LastZoom float64

	Rendering canvas.Rendering
	Host      Host
	Canvas    canvas.Canvas
	// Root is the entity the render pass starts from.
	Root ecs.Entity
}

// Setup creates a Surface for host: the canvas is sized from the requested
// logical width and the host's aspect ratio, given its base transform and
// attached to the host.
//
// A host that reports an empty client size gets an aspect ratio of 1; the
// first ReconcileSize with a real size corrects it.
func Setup(host Host, opts ...Option) (*Surface, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Surface{
		Zoom:      1,
		LastZoom:  1,
		Aspect:    1,
		Rendering: o.rendering,
		Host:      host,
	}
	w, h := host.ClientSize()
	if w > 0 && h > 0 {
		s.Aspect = h / w
		s.LastWidth, s.LastHeight = w, h
	}
	s.DPR = devicePixelRatio(host)
	s.Size = geom.V(o.width, o.width*s.Aspect)

	bw, bh := bufferSize(s.Size, s.DPR)
	c, err := o.factory(bw, bh, o.rendering)
	if err != nil {
		return nil, fmt.Errorf("viewport: create canvas: %w", err)
	}
	s.Canvas = c
	s.setBase(bw, bh)

	if err := host.Attach(c, DefaultStyle(o.rendering)); err != nil {
		return nil, fmt.Errorf("viewport: attach canvas: %w", err)
	}

	logger.Get().Info("viewport: surface ready",
		"width", s.Size.X, "height", s.Size.Y,
		"buffer_width", bw, "buffer_height", bh,
		"dpr", s.DPR, "rendering", o.rendering.String())
	return s, nil
}

// SetZoom requests a zoom factor. It takes effect on the next
// ReconcileZoom.
func (s *Surface) SetZoom(zoom float64) error {
	if !validZoom(zoom) {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, zoom)
	}
	s.Zoom = zoom
	return nil
}

// ReconcileZoom applies a changed zoom factor: the logical width scales by
// Zoom/LastZoom and the height follows the host aspect ratio. It reports
// whether anything changed.
func ReconcileZoom(s *Surface) (bool, error) {
	if !validZoom(s.Zoom) {
		return false, fmt.Errorf("%w: %v", ErrInvalidZoom, s.Zoom)
	}
	if s.Zoom == s.LastZoom {
		return false, nil
	}
	w, h, ok := clientSize(s.Host)
	if !ok {
		logger.Get().Debug("viewport: zoom deferred, host has no size", "width", w, "height", h)
		return false, nil
	}

	width := s.Size.X * (s.Zoom / s.LastZoom)
	if err := s.apply(width, h/w); err != nil {
		return false, err
	}
	s.LastZoom = s.Zoom
	return true, nil
}

// ReconcileSize follows a changed host size: the logical width is kept and
// the height follows the new aspect ratio. It reports whether anything
// changed.
func ReconcileSize(s *Surface) (bool, error) {
	w, h := s.Host.ClientSize()
	if w == s.LastWidth && h == s.LastHeight {
		return false, nil
	}
	if w <= 0 || h <= 0 || math.IsNaN(w) || math.IsNaN(h) {
		logger.Get().Debug("viewport: resize skipped, host has no size", "width", w, "height", h)
		return false, nil
	}

	if err := s.apply(s.Size.X, h/w); err != nil {
		return false, err
	}
	s.LastWidth, s.LastHeight = w, h
	return true, nil
}

// apply sets the logical size from width and aspect, resizes the canvas
// buffer and rewrites the base transform. The surface is left unchanged if
// the canvas cannot be resized.
func (s *Surface) apply(width, aspect float64) error {
	dpr := devicePixelRatio(s.Host)
	size := geom.V(width, width*aspect)
	bw, bh := bufferSize(size, dpr)
	if err := s.Canvas.Resize(bw, bh); err != nil {
		return fmt.Errorf("viewport: resize canvas: %w", err)
	}
	s.Size, s.Aspect, s.DPR = size, aspect, dpr
	s.setBase(bw, bh)
	return nil
}

// setBase rebuilds the base transform for a bw x bh buffer and installs it
// on the canvas.
func (s *Surface) setBase(bw, bh int) {
	s.Base = geom.Matrix{
		A: s.DPR, B: 0, C: float64(bw) / 2,
		D: 0, E: -s.DPR, F: float64(bh) / 2,
	}
	s.Canvas.SetTransform(s.Base)
}

// BufferSize returns the canvas buffer size.
func (s *Surface) BufferSize() (width, height int) {
	return s.Canvas.Size()
}

// bufferSize truncates the logical size scaled by dpr to whole pixels,
// never less than one.
func bufferSize(size geom.Vec2, dpr float64) (int, int) {
	return max(1, int(size.X*dpr)), max(1, int(size.Y*dpr))
}

func devicePixelRatio(h Host) float64 {
	dpr := h.DevicePixelRatio()
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		return 1
	}
	return dpr
}

func clientSize(h Host) (w, hh float64, ok bool) {
	w, hh = h.ClientSize()
	return w, hh, w > 0 && hh > 0 && !math.IsNaN(w) && !math.IsNaN(hh)
}

func validZoom(z float64) bool {
	return z > 0 && !math.IsInf(z, 0)
}
