package ggstage

import (
	"fmt"

	"github.com/gogpu/ggstage/canvas"
	"github.com/gogpu/ggstage/viewport"
)

// Settings are the user-facing graphics settings of a stage. They are
// plain data so they can be loaded from a configuration file.
type Settings struct {
	// Width is the logical width of the surface.
	Width float64 `toml:"width" yaml:"width"`
	// Rendering is the CSS image-rendering keyword: "crisp-edges",
	// "pixelated" or "smooth".
	Rendering string `toml:"rendering" yaml:"rendering"`
}

// DefaultSettings returns a width of 1000 and crisp-edges rendering.
func DefaultSettings() Settings {
	return Settings{
		Width:     viewport.DefaultWidth,
		Rendering: canvas.CrispEdges.String(),
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if s.Width <= 0 {
		return fmt.Errorf("ggstage: width must be positive, got %v", s.Width)
	}
	if _, err := canvas.ParseRendering(s.Rendering); err != nil {
		return fmt.Errorf("ggstage: %w", err)
	}
	return nil
}
