package viewport

import (
	"errors"
	"sync"

	"github.com/gogpu/ggstage/canvas"
)

// Host is the element the surface lives in: it reports its client size and
// device pixel ratio, and takes ownership of the canvas on Attach.
type Host interface {
	// ClientSize returns the host's content size in logical pixels.
	ClientSize() (width, height float64)
	// DevicePixelRatio returns the physical-to-logical pixel ratio.
	DevicePixelRatio() float64
	// Attach places c in the host with the given presentation style.
	Attach(c canvas.Canvas, style Style) error
}

// Style is how the canvas element is presented inside its host.
type Style struct {
	Rendering canvas.Rendering
	// Width and Height are CSS lengths, "100%" to fill the host.
	Width, Height string
	Border        string
	Background    string
	// ContextMenu is false when the host must suppress its context menu
	// over the canvas.
	ContextMenu bool
}

// DefaultStyle returns the presentation used by Setup: fill the host, no
// border, transparent background, no context menu.
func DefaultStyle(r canvas.Rendering) Style {
	return Style{
		Rendering:  r,
		Width:      "100%",
		Height:     "100%",
		Border:     "none",
		Background: "transparent",
	}
}

// StaticHost is an in-memory Host with a settable size, for headless
// rendering and tests. It is safe for concurrent use.
type StaticHost struct {
	mu     sync.Mutex
	width  float64
	height float64
	dpr    float64
	canvas canvas.Canvas
	style  Style
}

// NewStaticHost creates a host of the given client size and pixel ratio.
func NewStaticHost(width, height, dpr float64) *StaticHost {
	return &StaticHost{width: width, height: height, dpr: dpr}
}

// ClientSize implements Host.
func (h *StaticHost) ClientSize() (width, height float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// SetClientSize changes the reported size, as a window resize would.
func (h *StaticHost) SetClientSize(width, height float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width, h.height = width, height
}

// DevicePixelRatio implements Host.
func (h *StaticHost) DevicePixelRatio() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dpr
}

// SetDevicePixelRatio changes the reported ratio, as moving the window to
// another monitor would.
func (h *StaticHost) SetDevicePixelRatio(dpr float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dpr = dpr
}

// Attach implements Host.
func (h *StaticHost) Attach(c canvas.Canvas, style Style) error {
	if c == nil {
		return errors.New("viewport: attach nil canvas")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.canvas = c
	h.style = style
	return nil
}

// Canvas returns the attached canvas, or nil.
func (h *StaticHost) Canvas() canvas.Canvas {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.canvas
}

// Style returns the style the canvas was attached with.
func (h *StaticHost) Style() Style {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.style
}
