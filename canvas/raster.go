package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/gogpu/ggstage/geom"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// kappa is the control point distance for approximating a quarter circle
// with a cubic Bézier curve.
const kappa = 0.5522847498307936

// RasterOption configures a Raster.
type RasterOption func(*Raster)

// WithRendering sets the image resampling mode.
func WithRendering(r Rendering) RasterOption {
	return func(c *Raster) {
		c.rendering = r
	}
}

type segmentKind uint8

const (
	segMove segmentKind = iota
	segLine
	segCubic
	segClose
)

// segment is one path element in buffer coordinates.
type segment struct {
	kind segmentKind
	pts  [3]geom.Vec2
}

// Raster is a software Canvas backed by an *image.RGBA. Shapes are
// scan-converted with rasterx, images are resampled with x/image/draw
// and filters run through bild on an offscreen layer.
//
// A Raster is not safe for concurrent use.
type Raster struct {
	stateStack
	img       *image.RGBA
	rendering Rendering
	path      []segment
}

// NewRaster creates a transparent canvas of the given buffer size.
func NewRaster(width, height int, opts ...RasterOption) (*Raster, error) {
	r := &Raster{}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.Resize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNewRaster is like NewRaster but panics on error.
func MustNewRaster(width, height int, opts ...RasterOption) *Raster {
	r, err := NewRaster(width, height, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resize replaces the pixel buffer and resets the drawing state.
func (r *Raster) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.reset()
	r.path = r.path[:0]
	return nil
}

// Size returns the buffer size.
func (r *Raster) Size() (width, height int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the pixel buffer. It is shared with the canvas, not copied.
func (r *Raster) Image() *image.RGBA { return r.img }

// Rendering returns the image resampling mode.
func (r *Raster) Rendering() Rendering { return r.rendering }

// SetRendering sets the image resampling mode.
func (r *Raster) SetRendering(mode Rendering) { r.rendering = mode }

// EncodePNG writes the buffer to w as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// SavePNG writes the buffer to a PNG file.
func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("canvas: create %s: %w", path, err)
	}
	if err := r.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("canvas: encode %s: %w", path, err)
	}
	return f.Close()
}

func (r *Raster) BeginPath() { r.path = r.path[:0] }

// Rect adds a closed rectangle subpath.
func (r *Raster) Rect(x, y, w, h float64) {
	m := r.cur.transform
	r.path = append(r.path,
		segment{kind: segMove, pts: [3]geom.Vec2{m.Apply(geom.V(x, y))}},
		segment{kind: segLine, pts: [3]geom.Vec2{m.Apply(geom.V(x+w, y))}},
		segment{kind: segLine, pts: [3]geom.Vec2{m.Apply(geom.V(x+w, y+h))}},
		segment{kind: segLine, pts: [3]geom.Vec2{m.Apply(geom.V(x, y+h))}},
		segment{kind: segClose},
	)
}

// Ellipse adds a closed axis-aligned ellipse subpath centred on (x, y).
// Negative radii are ignored.
func (r *Raster) Ellipse(x, y, rx, ry float64) {
	if rx < 0 || ry < 0 {
		return
	}
	m := r.cur.transform
	kx, ky := rx*kappa, ry*kappa
	p := func(px, py float64) geom.Vec2 { return m.Apply(geom.V(px, py)) }
	r.path = append(r.path,
		segment{kind: segMove, pts: [3]geom.Vec2{p(x+rx, y)}},
		segment{kind: segCubic, pts: [3]geom.Vec2{p(x+rx, y+ky), p(x+kx, y+ry), p(x, y+ry)}},
		segment{kind: segCubic, pts: [3]geom.Vec2{p(x-kx, y+ry), p(x-rx, y+ky), p(x-rx, y)}},
		segment{kind: segCubic, pts: [3]geom.Vec2{p(x-rx, y-ky), p(x-kx, y-ry), p(x, y-ry)}},
		segment{kind: segCubic, pts: [3]geom.Vec2{p(x+kx, y-ry), p(x+rx, y-ky), p(x+rx, y)}},
		segment{kind: segClose},
	)
}

// Fill fills the current path with the fill style using the non-zero
// winding rule.
func (r *Raster) Fill() {
	if len(r.path) == 0 {
		return
	}
	r.paint(r.pathBounds(0), func(dst draw.Image, _ image.Rectangle, alpha float64) {
		scanner := rasterx.NewScannerGV(r.width(), r.height(), dst, dst.Bounds())
		scanner.SetWinding(true)
		filler := rasterx.NewFiller(r.width(), r.height(), scanner)
		filler.SetColor(withAlpha(r.cur.fill, alpha))
		r.emit(filler)
		filler.Draw()
	})
}

// Stroke outlines the current path with the stroke style. The line width
// is scaled by the current transform.
func (r *Raster) Stroke() {
	if len(r.path) == 0 {
		return
	}
	lw := r.cur.lineWidth * math.Sqrt(math.Abs(r.cur.transform.Determinant()))
	if lw <= 0 {
		return
	}
	r.paint(r.pathBounds(lw/2), func(dst draw.Image, _ image.Rectangle, alpha float64) {
		scanner := rasterx.NewScannerGV(r.width(), r.height(), dst, dst.Bounds())
		scanner.SetWinding(true)
		dasher := rasterx.NewDasher(r.width(), r.height(), scanner)
		dasher.SetStroke(toFixed(lw), toFixed(10), rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, nil, 0)
		dasher.SetColor(withAlpha(r.cur.stroke, alpha))
		r.emit(dasher)
		dasher.Draw()
	})
}

// DrawImage draws img scaled into (x, y, w, h) using the rendering mode's
// interpolator.
func (r *Raster) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w == 0 || h == 0 {
		return
	}
	sr := img.Bounds()
	if sr.Empty() {
		return
	}
	s2d := r.cur.transform.
		Multiply(geom.Translate(x, y)).
		Multiply(geom.Scale(w/float64(sr.Dx()), h/float64(sr.Dy()))).
		Multiply(geom.Translate(-float64(sr.Min.X), -float64(sr.Min.Y)))
	aff := f64.Aff3{s2d.A, s2d.B, s2d.C, s2d.D, s2d.E, s2d.F}
	bounds := r.quadBounds(x, y, w, h)

	r.paint(bounds, func(dst draw.Image, clip image.Rectangle, alpha float64) {
		opts := &draw.Options{}
		if alpha < 1 {
			opts.DstMask = image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
		}
		target, ok := dst.(*image.RGBA)
		if ok {
			dst = target.SubImage(clip).(*image.RGBA)
		}
		r.rendering.interpolator().Transform(dst, aff, img, sr, draw.Over, opts)
	})
}

// ClearRect clears the device-space bounding box of the transformed
// rectangle. Filters and alpha do not apply.
func (r *Raster) ClearRect(x, y, w, h float64) {
	rect := r.quadBounds(x, y, w, h).Intersect(r.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(r.img, rect, image.Transparent, image.Point{}, draw.Src)
}

// paint runs fn against the buffer, or against an offscreen layer when a
// filter is set. clip is the part of the target fn's output can reach;
// only that part of the layer is filtered and composited back with the
// global alpha.
func (r *Raster) paint(bounds image.Rectangle, fn func(dst draw.Image, clip image.Rectangle, alpha float64)) {
	if r.cur.alpha == 0 {
		return
	}
	if r.cur.filter.IsNone() {
		clip := bounds.Intersect(r.img.Bounds())
		if clip.Empty() {
			return
		}
		fn(r.img, clip, r.cur.alpha)
		return
	}

	clip := bounds.Inset(-r.cur.filter.Margin()).Intersect(r.img.Bounds())
	if clip.Empty() {
		return
	}
	layer := image.NewRGBA(r.img.Bounds())
	fn(layer, clip, 1)
	out := r.cur.filter.Apply(layer.SubImage(clip))

	var mask image.Image
	if r.cur.alpha < 1 {
		mask = image.NewUniform(color.Alpha{A: uint8(math.Round(r.cur.alpha * 255))})
	}
	draw.DrawMask(r.img, clip, out, out.Bounds().Min, mask, image.Point{}, draw.Over)
}

// emit replays the current path into a rasterx adder.
func (r *Raster) emit(a rasterx.Adder) {
	open := false
	for _, s := range r.path {
		switch s.kind {
		case segMove:
			if open {
				a.Stop(false)
			}
			a.Start(toFixedPoint(s.pts[0]))
			open = true
		case segLine:
			a.Line(toFixedPoint(s.pts[0]))
		case segCubic:
			a.CubeBezier(toFixedPoint(s.pts[0]), toFixedPoint(s.pts[1]), toFixedPoint(s.pts[2]))
		case segClose:
			a.Stop(true)
			open = false
		}
	}
	if open {
		a.Stop(false)
	}
}

// pathBounds returns the pixel bounds of the current path grown by pad.
func (r *Raster) pathBounds(pad float64) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range r.path {
		n := 0
		switch s.kind {
		case segMove, segLine:
			n = 1
		case segCubic:
			n = 3
		}
		for _, p := range s.pts[:n] {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return pixelRect(minX-pad, minY-pad, maxX+pad, maxY+pad)
}

// quadBounds returns the pixel bounds of a local rectangle mapped through
// the current transform.
func (r *Raster) quadBounds(x, y, w, h float64) image.Rectangle {
	m := r.cur.transform
	pts := [4]geom.Vec2{
		m.Apply(geom.V(x, y)),
		m.Apply(geom.V(x+w, y)),
		m.Apply(geom.V(x+w, y+h)),
		m.Apply(geom.V(x, y+h)),
	}
	minX, minY, maxX, maxY := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return pixelRect(minX, minY, maxX, maxY)
}

func pixelRect(x0, y0, x1, y1 float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	)
}

func (r *Raster) width() int  { return r.img.Bounds().Dx() }
func (r *Raster) height() int { return r.img.Bounds().Dy() }

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func toFixedPoint(p geom.Vec2) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(p.X), Y: toFixed(p.Y)}
}

var _ Canvas = (*Raster)(nil)
