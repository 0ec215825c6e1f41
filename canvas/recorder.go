package canvas

import (
	"fmt"
	"image"

	"github.com/gogpu/ggstage/geom"
)

// CommandType identifies a recorded canvas operation.
type CommandType uint8

const (
	CmdResize       CommandType = iota // Buffer resized
	CmdSave                            // State pushed
	CmdRestore                         // State popped
	CmdSetTransform                    // Transform replaced
	CmdClearRect                       // Rectangle cleared
	CmdFill                            // Path filled
	CmdStroke                          // Path stroked
	CmdDrawImage                       // Image drawn
)

var commandTypeNames = [...]string{
	CmdResize:       "Resize",
	CmdSave:         "Save",
	CmdRestore:      "Restore",
	CmdSetTransform: "SetTransform",
	CmdClearRect:    "ClearRect",
	CmdFill:         "Fill",
	CmdStroke:       "Stroke",
	CmdDrawImage:    "DrawImage",
}

func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return fmt.Sprintf("CommandType(%d)", uint8(t))
}

// ShapeKind identifies a recorded subpath.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeEllipse
)

// Shape is a subpath as it was added, in local coordinates, together with
// the transform active at that time. Ellipses store their centre in X, Y
// and their radii in W, H.
type Shape struct {
	Kind       ShapeKind
	X, Y, W, H float64
	Transform  geom.Matrix
}

// Command is one recorded operation with a snapshot of the drawing state.
type Command struct {
	Type      CommandType
	Transform geom.Matrix
	Alpha     float64
	Filter    string
	// Style is the fill style for CmdFill and the stroke style for CmdStroke.
	Style     string
	LineWidth float64
	Shapes    []Shape
	Image     image.Image
	// Rect is (x, y, w, h) for CmdDrawImage and CmdClearRect, and the new
	// buffer size in W, H for CmdResize.
	Rect [4]float64
}

// Recorder is a Canvas that keeps the drawing state like a Raster but
// records operations instead of producing pixels.
type Recorder struct {
	stateStack
	width, height int
	path          []Shape
	commands      []Command
}

// NewRecorder creates a recorder reporting the given buffer size.
func NewRecorder(width, height int) (*Recorder, error) {
	r := &Recorder{}
	if err := r.Resize(width, height); err != nil {
		return nil, err
	}
	r.commands = r.commands[:0]
	return r, nil
}

func (r *Recorder) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	r.width, r.height = width, height
	r.reset()
	r.path = r.path[:0]
	r.record(CmdResize, func(c *Command) {
		c.Rect = [4]float64{0, 0, float64(width), float64(height)}
	})
	return nil
}

func (r *Recorder) Size() (width, height int) { return r.width, r.height }

// Commands returns the recorded operations in order.
func (r *Recorder) Commands() []Command { return r.commands }

// Count returns how many operations of type t were recorded.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Filtered returns the recorded operations of the given types.
func (r *Recorder) Filtered(types ...CommandType) []Command {
	var out []Command
	for _, c := range r.commands {
		for _, t := range types {
			if c.Type == t {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Reset discards recorded operations. The drawing state is kept.
func (r *Recorder) Reset() { r.commands = r.commands[:0] }

func (r *Recorder) Save() {
	r.stateStack.Save()
	r.record(CmdSave, nil)
}

func (r *Recorder) Restore() {
	r.stateStack.Restore()
	r.record(CmdRestore, nil)
}

func (r *Recorder) SetTransform(m geom.Matrix) {
	r.stateStack.SetTransform(m)
	r.record(CmdSetTransform, nil)
}

func (r *Recorder) BeginPath() { r.path = r.path[:0] }

func (r *Recorder) Rect(x, y, w, h float64) {
	r.path = append(r.path, Shape{Kind: ShapeRect, X: x, Y: y, W: w, H: h, Transform: r.cur.transform})
}

func (r *Recorder) Ellipse(x, y, rx, ry float64) {
	if rx < 0 || ry < 0 {
		return
	}
	r.path = append(r.path, Shape{Kind: ShapeEllipse, X: x, Y: y, W: rx, H: ry, Transform: r.cur.transform})
}

func (r *Recorder) Fill() {
	r.record(CmdFill, func(c *Command) {
		c.Style = r.cur.fillStyle
		c.Shapes = append([]Shape(nil), r.path...)
	})
}

func (r *Recorder) Stroke() {
	r.record(CmdStroke, func(c *Command) {
		c.Style = r.cur.strokeStyle
		c.Shapes = append([]Shape(nil), r.path...)
	})
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) {
	r.record(CmdDrawImage, func(c *Command) {
		c.Image = img
		c.Rect = [4]float64{x, y, w, h}
	})
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.record(CmdClearRect, func(c *Command) {
		c.Rect = [4]float64{x, y, w, h}
	})
}

func (r *Recorder) record(t CommandType, fill func(*Command)) {
	c := Command{
		Type:      t,
		Transform: r.cur.transform,
		Alpha:     r.cur.alpha,
		Filter:    r.cur.filterStyle,
		LineWidth: r.cur.lineWidth,
	}
	if fill != nil {
		fill(&c)
	}
	r.commands = append(r.commands, c)
}

var _ Canvas = (*Recorder)(nil)
