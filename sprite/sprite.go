// Package sprite defines the drawable descriptor attached to scene entities
// and the controls that animate image sequences.
package sprite

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/ggstage/clock"
)

// Kind selects the shape a Sprite draws.
type Kind uint8

const (
	// None draws nothing. The scene root uses it.
	None Kind = iota
	// Rectangle draws an axis-aligned box centred on the local origin.
	Rectangle
	// Ellipse draws an ellipse centred on the local origin.
	Ellipse
	// Image draws the current frame of an image sequence.
	Image
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Rectangle:
		return "rectangle"
	case Ellipse:
		return "ellipse"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind parses the lower-case name of a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "none", "":
		return None, nil
	case "rectangle", "rect":
		return Rectangle, nil
	case "ellipse":
		return Ellipse, nil
	case "image":
		return Image, nil
	}
	return None, fmt.Errorf("sprite: unknown kind %q", s)
}

// DefaultDelay is the frame delay used when a Sprite has none.
const DefaultDelay = 100 * time.Millisecond

// Root marks the entity the render pass starts from.
type Root struct{}

// Sprite is the drawable descriptor of a scene entity.
//
// Create sprites with New: the zero value is invisible and fully
// transparent. A Sprite must not be copied after first use.
type Sprite struct {
	Kind Kind

	// Fill is the CSS color used to fill rectangles and ellipses.
	// An empty Fill or "none" disables filling.
	Fill string

	Visible bool

	// Alpha is the opacity in [0, 1].
	Alpha float64

	// Filter is a CSS filter function list, or "none".
	Filter string

	// BorderColor and BorderWidth describe the outline. The outline is
	// drawn only when BorderColor is set (not "" or "none") and
	// BorderWidth is positive.
	BorderColor string
	BorderWidth float64

	// Delay is the time between frames of a running animation.
	Delay time.Duration

	// seq holds the image sequence together with the current index so a
	// timer goroutine never pairs an index with the wrong sequence.
	seq atomic.Pointer[sequence]

	mu    sync.Mutex
	timer clock.Timer
}

// sequence is an immutable snapshot of the frames and the current index.
// index is -1 when absent.
type sequence struct {
	frames []image.Image
	index  int64
}

// Option configures a Sprite created by New.
type Option func(*Sprite)

// WithFill sets the fill color.
func WithFill(color string) Option {
	return func(s *Sprite) { s.Fill = color }
}

// WithFrames sets the image sequence.
func WithFrames(frames ...image.Image) Option {
	return func(s *Sprite) { s.SetFrames(frames) }
}

// WithAlpha sets the opacity.
func WithAlpha(alpha float64) Option {
	return func(s *Sprite) { s.Alpha = alpha }
}

// WithFilter sets the CSS filter string.
func WithFilter(filter string) Option {
	return func(s *Sprite) { s.Filter = filter }
}

// WithBorder sets the outline color and width.
func WithBorder(color string, width float64) Option {
	return func(s *Sprite) {
		s.BorderColor = color
		s.BorderWidth = width
	}
}

// WithDelay sets the animation frame delay.
func WithDelay(d time.Duration) Option {
	return func(s *Sprite) { s.Delay = d }
}

// Hidden creates the sprite invisible.
func Hidden() Option {
	return func(s *Sprite) { s.Visible = false }
}

// New creates a visible, opaque Sprite of the given kind with no filter,
// no border and the default frame delay.
func New(kind Kind, opts ...Option) *Sprite {
	s := &Sprite{
		Kind:        kind,
		Visible:     true,
		Alpha:       1,
		Filter:      "none",
		BorderColor: "none",
		Delay:       DefaultDelay,
	}
	s.seq.Store(&sequence{index: -1})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFrames replaces the image sequence and resets the current frame to the
// first one, or to absent for an empty sequence. It is safe to call while an
// animation is running.
func (s *Sprite) SetFrames(frames []image.Image) {
	index := int64(-1)
	if len(frames) > 0 {
		index = 0
	}
	s.seq.Store(&sequence{frames: frames, index: index})
}

// Frames returns the current image sequence. The slice must not be modified.
func (s *Sprite) Frames() []image.Image {
	return s.load().frames
}

func (s *Sprite) load() *sequence {
	if q := s.seq.Load(); q != nil {
		return q
	}
	return &sequence{index: -1}
}

// update applies fn to the current snapshot until it is stored without a
// concurrent replacement. fn returns the new index.
func (s *Sprite) update(fn func(q *sequence) int64) {
	for {
		old := s.seq.Load()
		cur := old
		if cur == nil {
			cur = &sequence{index: -1}
		}
		next := &sequence{frames: cur.frames, index: fn(cur)}
		if s.seq.CompareAndSwap(old, next) {
			return
		}
	}
}

// Frame returns the current frame index and whether one is set.
func (s *Sprite) Frame() (int, bool) {
	i := s.load().index
	if i < 0 {
		return 0, false
	}
	return int(i), true
}

// CurrentImage returns the image at the current frame index, or nil if no
// index is set or the index is out of range.
func (s *Sprite) CurrentImage() image.Image {
	q := s.load()
	if q.index < 0 || q.index >= int64(len(q.frames)) {
		return nil
	}
	return q.frames[q.index]
}

// HasFill reports whether shapes should be filled.
func (s *Sprite) HasFill() bool {
	return s.Fill != "" && s.Fill != "none"
}

// HasBorder reports whether the outline should be stroked.
func (s *Sprite) HasBorder() bool {
	return s.BorderColor != "" && s.BorderColor != "none" && s.BorderWidth > 0
}
