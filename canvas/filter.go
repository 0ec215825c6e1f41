package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/draw"
)

// ErrInvalidFilter is returned when a CSS filter string cannot be parsed.
var ErrInvalidFilter = errors.New("canvas: invalid filter")

// FilterFunc is one function of a CSS filter list, e.g. blur(2px).
type FilterFunc struct {
	Name   string
	Amount float64
}

func (f FilterFunc) String() string {
	a := strconv.FormatFloat(f.Amount, 'g', -1, 64)
	switch f.Name {
	case "blur":
		return "blur(" + a + "px)"
	case "hue-rotate":
		return "hue-rotate(" + a + "deg)"
	}
	return f.Name + "(" + a + ")"
}

// Filter is a parsed CSS filter list. The zero value is "none".
type Filter []FilterFunc

// filterDefaults holds the amount used when a function has no argument.
var filterDefaults = map[string]float64{
	"blur":       0,
	"brightness": 1,
	"contrast":   1,
	"grayscale":  1,
	"hue-rotate": 0,
	"invert":     1,
	"opacity":    1,
	"saturate":   1,
	"sepia":      1,
}

// ParseFilter parses a CSS filter list such as "blur(2px) grayscale(50%)".
// The empty string and "none" yield an empty Filter.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return nil, nil
	}

	var f Filter
	l := css.NewLexer(parse.NewInputString(s))
	for {
		tt, data := l.Next()
		switch tt {
		case css.WhitespaceToken:
			continue
		case css.ErrorToken:
			if l.Err() != io.EOF {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFilter, s, l.Err())
			}
			return f, nil
		case css.FunctionToken:
		default:
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFilter, data, s)
		}

		name := strings.TrimSuffix(string(data), "(")
		def, ok := filterDefaults[name]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported function %q", ErrInvalidFilter, name)
		}
		args, err := functionArgs(l)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFilter, s, err)
		}
		fn := FilterFunc{Name: name, Amount: def}
		switch len(args) {
		case 0:
		case 1:
			fn.Amount, err = filterAmount(name, args[0])
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFilter, s, err)
			}
		default:
			return nil, fmt.Errorf("%w: %s takes one argument", ErrInvalidFilter, name)
		}
		f = append(f, fn)
	}
}

func filterAmount(name string, a arg) (float64, error) {
	switch name {
	case "blur":
		if a.percent || (a.unit != "px" && !(a.unit == "" && a.value == 0)) {
			return 0, errors.New("blur needs a length in px")
		}
		if a.value < 0 {
			return 0, errors.New("negative blur")
		}
		return a.value, nil
	case "hue-rotate":
		if a.percent {
			return 0, errors.New("hue-rotate needs an angle")
		}
		return angleDegrees(a)
	}
	if a.unit != "" {
		return 0, fmt.Errorf("%s does not take a unit", name)
	}
	v := a.value
	if a.percent {
		v /= 100
	}
	if v < 0 {
		return 0, fmt.Errorf("negative %s", name)
	}
	switch name {
	case "grayscale", "invert", "opacity", "sepia":
		v = math.Min(v, 1)
	}
	return v, nil
}

// IsNone reports whether applying f leaves an image unchanged.
func (f Filter) IsNone() bool { return len(f) == 0 }

func (f Filter) String() string {
	if f.IsNone() {
		return "none"
	}
	parts := make([]string, len(f))
	for i, fn := range f {
		parts[i] = fn.String()
	}
	return strings.Join(parts, " ")
}

// Margin returns how many pixels the filter can spread content beyond its
// original bounds.
func (f Filter) Margin() int {
	var sigma float64
	for _, fn := range f {
		if fn.Name == "blur" {
			sigma += fn.Amount
		}
	}
	return int(math.Ceil(3 * sigma))
}

// Apply runs every function of f over img in order and returns the result
// as a new image with bounds starting at the origin.
func (f Filter) Apply(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	for _, fn := range f {
		out = fn.apply(out)
	}
	return out
}

func (f FilterFunc) apply(img *image.RGBA) *image.RGBA {
	switch f.Name {
	case "blur":
		if f.Amount == 0 {
			return img
		}
		return blur.Gaussian(img, f.Amount)
	case "brightness":
		return adjust.Apply(img, func(c color.RGBA) color.RGBA {
			return mapChannels(c, func(v float64) float64 { return v * f.Amount })
		})
	case "contrast":
		return adjust.Apply(img, func(c color.RGBA) color.RGBA {
			return mapChannels(c, func(v float64) float64 { return (v-0.5)*f.Amount + 0.5 })
		})
	case "saturate":
		return adjust.Saturation(img, f.Amount-1)
	case "hue-rotate":
		return adjust.Hue(img, int(math.Round(f.Amount)))
	case "grayscale":
		return mix(img, adjust.Apply(img, luminance), f.Amount)
	case "invert":
		return mix(img, effect.Invert(img), f.Amount)
	case "sepia":
		return mix(img, effect.Sepia(img), f.Amount)
	case "opacity":
		return adjust.Apply(img, func(c color.RGBA) color.RGBA {
			return color.RGBA{
				R: uint8(float64(c.R) * f.Amount),
				G: uint8(float64(c.G) * f.Amount),
				B: uint8(float64(c.B) * f.Amount),
				A: uint8(float64(c.A) * f.Amount),
			}
		})
	}
	return img
}

// mix blends fx over src by amount, leaving alpha as in src.
func mix(src, fx *image.RGBA, amount float64) *image.RGBA {
	if amount >= 1 {
		return fx
	}
	if amount <= 0 {
		return src
	}
	return blend.Opacity(src, fx, amount)
}

// luminance replaces the colour of c with its Rec. 709 luma. Channels are
// premultiplied, so the weighted sum stays within alpha.
func luminance(c color.RGBA) color.RGBA {
	y := uint8(math.Round(0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)))
	return color.RGBA{R: y, G: y, B: y, A: c.A}
}

// mapChannels applies fn to the unpremultiplied colour channels of c,
// each in [0,1].
func mapChannels(c color.RGBA, fn func(float64) float64) color.RGBA {
	if c.A == 0 {
		return c
	}
	a := float64(c.A) / 255
	ch := func(v uint8) uint8 {
		n := clamp(fn(float64(v)/255/a), 0, 1)
		return uint8(math.Round(n * a * 255))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}
