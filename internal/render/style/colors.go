// Package style holds the colors and timing curves of the starfield look.
// It has no drawing dependencies so it can be exercised headless.
package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// UI palette.
var (
	Sky       = color.RGBA{5, 6, 20, 255}
	Panel     = color.RGBA{18, 20, 40, 220}
	PanelEdge = color.RGBA{80, 90, 140, 255}
	Text      = color.RGBA{235, 235, 245, 255}
	Muted     = color.RGBA{150, 155, 180, 255}
	Gold      = color.RGBA{255, 215, 0, 255}
	Warning   = color.RGBA{255, 200, 90, 255}
	Critical  = color.RGBA{255, 110, 110, 255}
	White     = color.RGBA{255, 255, 255, 255}
)

// ParseHex parses "#rgb" or "#rrggbb" (the leading # is optional).
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("parse color %q: want 3 or 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Hex parses s, returning fallback when it is not a color.
func Hex(s string, fallback color.RGBA) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return c
}

// Fade scales c to opacity a in [0, 1]. The result is premultiplied, as
// ebiten expects.
func Fade(c color.RGBA, a float64) color.RGBA {
	switch {
	case a <= 0 || a != a:
		return color.RGBA{}
	case a > 1:
		a = 1
	}
	k := a * float64(c.A) / 255
	return color.RGBA{
		R: uint8(float64(c.R)*k + 0.5),
		G: uint8(float64(c.G)*k + 0.5),
		B: uint8(float64(c.B)*k + 0.5),
		A: uint8(float64(c.A)*a + 0.5),
	}
}
