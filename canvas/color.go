// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned when a CSS color string cannot be parsed.
var ErrInvalidColor = errors.New("canvas: invalid color")

// ParseColor parses a CSS color: #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb()/rgba() in comma or space syntax, hsl()/hsla(), "transparent" or a
// named color.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}

	name, args, err := parseFunction(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	switch name {
	case "rgb", "rgba":
		return rgbFunction(s, args)
	case "hsl", "hsla":
		return hslFunction(s, args)
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHexColor(s string) (color.NRGBA, error) {
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// arg is one numeric function argument.
type arg struct {
	value   float64
	percent bool
	unit    string
}

// parseFunction tokenises a single CSS function call such as
// "rgb(1, 2, 3)" into its lower-case name and numeric arguments.
// Separators (commas, whitespace and "/") are dropped.
func parseFunction(s string) (string, []arg, error) {
	l := css.NewLexer(parse.NewInputString(s))
	tt, data := l.Next()
	for tt == css.WhitespaceToken {
		tt, data = l.Next()
	}
	if tt != css.FunctionToken {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	name := strings.TrimSuffix(string(data), "(")

	args, err := functionArgs(l)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	for {
		tt, _ := l.Next()
		if tt == css.ErrorToken {
			if l.Err() != io.EOF {
				return "", nil, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			break
		}
		if tt != css.WhitespaceToken {
			return "", nil, fmt.Errorf("%w: trailing input in %q", ErrInvalidColor, s)
		}
	}
	return name, args, nil
}

// functionArgs reads numeric arguments up to and including the closing
// parenthesis of the function the lexer is positioned in.
func functionArgs(l *css.Lexer) ([]arg, error) {
	var args []arg
	for {
		tt, data := l.Next()
		switch tt {
		case css.RightParenthesisToken:
			return args, nil
		case css.WhitespaceToken, css.CommaToken:
		case css.DelimToken:
			if string(data) != "/" {
				return nil, fmt.Errorf("unexpected %q", data)
			}
		case css.NumberToken:
			v, err := strconv.ParseFloat(string(data), 64)
			if err != nil {
				return nil, err
			}
			args = append(args, arg{value: v})
		case css.PercentageToken:
			v, err := strconv.ParseFloat(strings.TrimSuffix(string(data), "%"), 64)
			if err != nil {
				return nil, err
			}
			args = append(args, arg{value: v, percent: true})
		case css.DimensionToken:
			a, err := parseDimension(string(data))
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		case css.ErrorToken:
			return nil, errors.New("unterminated function")
		default:
			return nil, fmt.Errorf("unexpected %q", data)
		}
	}
}

func parseDimension(s string) (arg, error) {
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E'
	})
	// Exponent letters are only part of the number when followed by digits.
	for i > 0 && (s[i-1] == 'e' || s[i-1] == 'E') {
		i--
	}
	if i <= 0 {
		return arg{}, fmt.Errorf("bad dimension %q", s)
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return arg{}, err
	}
	return arg{value: v, unit: s[i:]}, nil
}

func channel(a arg) uint8 {
	v := a.value
	if a.percent {
		v = v * 255 / 100
	}
	return uint8(math.Round(clamp(v, 0, 255)))
}

func alphaChannel(a arg) uint8 {
	v := a.value
	if a.percent {
		v /= 100
	}
	return uint8(math.Round(clamp(v, 0, 1) * 255))
}

func rgbFunction(s string, args []arg) (color.NRGBA, error) {
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q needs 3 or 4 arguments", ErrInvalidColor, s)
	}
	c := color.NRGBA{R: channel(args[0]), G: channel(args[1]), B: channel(args[2]), A: 255}
	if len(args) == 4 {
		c.A = alphaChannel(args[3])
	}
	return c, nil
}

func hslFunction(s string, args []arg) (color.NRGBA, error) {
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q needs 3 or 4 arguments", ErrInvalidColor, s)
	}
	h, err := angleDegrees(args[0])
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	sat := clamp(args[1].value/100, 0, 1)
	light := clamp(args[2].value/100, 0, 1)
	r, g, b := hslToRGB(math.Mod(math.Mod(h, 360)+360, 360), sat, light)
	c := color.NRGBA{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
		A: 255,
	}
	if len(args) == 4 {
		c.A = alphaChannel(args[3])
	}
	return c, nil
}

// angleDegrees converts a CSS angle to degrees. Unitless numbers are degrees.
func angleDegrees(a arg) (float64, error) {
	switch a.unit {
	case "", "deg":
		return a.value, nil
	case "rad":
		return a.value * 180 / math.Pi, nil
	case "grad":
		return a.value * 0.9, nil
	case "turn":
		return a.value * 360, nil
	}
	return 0, fmt.Errorf("unknown angle unit %q", a.unit)
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
