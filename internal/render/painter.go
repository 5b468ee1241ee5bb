package render

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
)

// Painter draws text and flat boxes.
type Painter struct {
	Atlas *FontAtlas
	pixel *ebiten.Image // 1x1 white pixel for drawing boxes
}

// NewPainter creates a painter with the given atlas.
func NewPainter(atlas *FontAtlas) *Painter {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Painter{Atlas: atlas, pixel: pixel}
}

// TextWidth returns the width of s drawn at scale.
func TextWidth(s string, scale float64) float64 {
	return float64(utf8.RuneCountInString(s)*GlyphWidth) * scale
}

// LineHeight returns the line advance at scale.
func LineHeight(scale float64) float64 {
	return float64(GlyphHeight+3) * scale
}

// Text draws s with its top-left corner at sub-pixel (x, y).
func (p *Painter) Text(dst *ebiten.Image, s string, x, y float64, clr color.Color, scale float64) {
	var op ebiten.DrawImageOptions
	px := x
	for _, r := range s {
		if g := p.Atlas.Glyph(r); g != nil {
			op = ebiten.DrawImageOptions{}
			op.GeoM.Scale(scale, scale)
			op.GeoM.Translate(px, y)
			op.ColorScale.ScaleWithColor(clr)
			dst.DrawImage(g, &op)
		}
		px += GlyphWidth * scale
	}
}

// Rect fills a box.
func (p *Painter) Rect(dst *ebiten.Image, x, y, w, h float64, clr color.Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(p.pixel, &op)
}

// Panel fills a box with a one pixel border.
func (p *Painter) Panel(dst *ebiten.Image, x, y, w, h float64, fill, edge color.Color) {
	p.Rect(dst, x, y, w, h, edge)
	p.Rect(dst, x+1, y+1, w-2, h-2, fill)
}
