package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/ggstage/geom"
	"github.com/gogpu/ggstage/internal/logger"
	"golang.org/x/image/draw"
)

// ErrInvalidDimensions is returned when a canvas is sized to zero or less.
var ErrInvalidDimensions = errors.New("canvas: invalid dimensions")

// Canvas is a 2D drawing surface with a pixel buffer and an immediate-mode
// drawing state: a current transform, global alpha, filter and styles,
// saved and restored as a stack.
//
// Coordinates passed to path and image operations are mapped through the
// current transform into buffer pixels.
type Canvas interface {
	// Resize sets the pixel buffer size. Resizing clears the buffer and
	// resets the drawing state, including the save stack.
	Resize(width, height int) error
	// Size returns the pixel buffer size.
	Size() (width, height int)

	SetTransform(m geom.Matrix)
	Transform() geom.Matrix
	ResetTransform()
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(x, y float64)

	Save()
	Restore()

	SetAlpha(alpha float64)
	Alpha() float64
	SetFilter(filter string)
	Filter() string
	SetFillStyle(style string)
	FillStyle() string
	SetStrokeStyle(style string)
	StrokeStyle() string
	SetLineWidth(width float64)
	LineWidth() float64

	BeginPath()
	Rect(x, y, w, h float64)
	Ellipse(x, y, rx, ry float64)
	Fill()
	Stroke()

	// DrawImage draws img scaled into the rectangle (x, y, w, h).
	DrawImage(img image.Image, x, y, w, h float64)
	// ClearRect sets the pixels covered by the rectangle to transparent.
	ClearRect(x, y, w, h float64)
}

// Rendering selects how images are resampled when drawn scaled.
type Rendering uint8

const (
	// CrispEdges preserves hard edges with a cheap approximate filter.
	CrispEdges Rendering = iota
	// Pixelated uses nearest-neighbour sampling.
	Pixelated
	// Smooth uses high quality interpolation.
	Smooth
)

func (r Rendering) String() string {
	switch r {
	case CrispEdges:
		return "crisp-edges"
	case Pixelated:
		return "pixelated"
	case Smooth:
		return "smooth"
	}
	return fmt.Sprintf("Rendering(%d)", uint8(r))
}

// ParseRendering parses a CSS image-rendering keyword. "auto" maps to
// Smooth.
func ParseRendering(s string) (Rendering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crisp-edges", "":
		return CrispEdges, nil
	case "pixelated":
		return Pixelated, nil
	case "smooth", "auto", "high-quality":
		return Smooth, nil
	}
	return 0, fmt.Errorf("canvas: unknown rendering %q", s)
}

func (r Rendering) interpolator() draw.Interpolator {
	switch r {
	case Pixelated:
		return draw.NearestNeighbor
	case Smooth:
		return draw.CatmullRom
	}
	return draw.ApproxBiLinear
}

// state is one entry of the save/restore stack.
type state struct {
	transform   geom.Matrix
	alpha       float64
	filterStyle string
	filter      Filter
	fillStyle   string
	fill        color.NRGBA
	strokeStyle string
	stroke      color.NRGBA
	lineWidth   float64
}

func defaultState() state {
	black := color.NRGBA{A: 255}
	return state{
		transform:   geom.Identity(),
		alpha:       1,
		filterStyle: "none",
		fillStyle:   "#000000",
		fill:        black,
		strokeStyle: "#000000",
		stroke:      black,
		lineWidth:   1,
	}
}

// stateStack implements the state half of Canvas. Invalid values are
// ignored with a warning, leaving the previous value in effect.
type stateStack struct {
	cur   state
	saved []state
}

func (s *stateStack) reset() {
	s.cur = defaultState()
	s.saved = s.saved[:0]
}

func (s *stateStack) SetTransform(m geom.Matrix) { s.cur.transform = m }
func (s *stateStack) Transform() geom.Matrix     { return s.cur.transform }
func (s *stateStack) ResetTransform()            { s.cur.transform = geom.Identity() }

func (s *stateStack) Translate(x, y float64) {
	s.cur.transform = s.cur.transform.Multiply(geom.Translate(x, y))
}

func (s *stateStack) Rotate(angle float64) {
	s.cur.transform = s.cur.transform.Multiply(geom.Rotate(angle))
}

func (s *stateStack) Scale(x, y float64) {
	s.cur.transform = s.cur.transform.Multiply(geom.Scale(x, y))
}

func (s *stateStack) Save() { s.saved = append(s.saved, s.cur) }

// Restore pops the most recent Save. Restoring an empty stack is a no-op.
func (s *stateStack) Restore() {
	if len(s.saved) == 0 {
		return
	}
	s.cur = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

func (s *stateStack) SetAlpha(alpha float64) {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return
	}
	s.cur.alpha = alpha
}

func (s *stateStack) Alpha() float64 { return s.cur.alpha }

func (s *stateStack) SetFilter(filter string) {
	f, err := ParseFilter(filter)
	if err != nil {
		logger.Get().Warn("canvas: ignoring filter", "filter", filter, "err", err)
		return
	}
	s.cur.filter = f
	s.cur.filterStyle = f.String()
}

func (s *stateStack) Filter() string { return s.cur.filterStyle }

func (s *stateStack) SetFillStyle(style string) {
	c, err := ParseColor(style)
	if err != nil {
		logger.Get().Warn("canvas: ignoring fill style", "style", style, "err", err)
		return
	}
	s.cur.fill = c
	s.cur.fillStyle = style
}

func (s *stateStack) FillStyle() string { return s.cur.fillStyle }

func (s *stateStack) SetStrokeStyle(style string) {
	c, err := ParseColor(style)
	if err != nil {
		logger.Get().Warn("canvas: ignoring stroke style", "style", style, "err", err)
		return
	}
	s.cur.stroke = c
	s.cur.strokeStyle = style
}

func (s *stateStack) StrokeStyle() string { return s.cur.strokeStyle }

func (s *stateStack) SetLineWidth(width float64) {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return
	}
	s.cur.lineWidth = width
}

func (s *stateStack) LineWidth() float64 { return s.cur.lineWidth }

// withAlpha scales the alpha of c by the global alpha.
func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * alpha))
	return c
}
