package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	GlyphWidth  = 7
	GlyphHeight = 13
	AtlasCols   = 16
	AtlasRows   = 6

	firstGlyph = 32
	lastGlyph  = 126
)

// FontAtlas holds the printable ASCII glyphs and cached sub-images.
type FontAtlas struct {
	image  *ebiten.Image
	glyphs [lastGlyph - firstGlyph + 1]*ebiten.Image
}

// NewFontAtlas rasterizes basicfont.Face7x13 into one texture at startup.
func NewFontAtlas() *FontAtlas {
	img := image.NewNRGBA(image.Rect(0, 0, AtlasCols*GlyphWidth, AtlasRows*GlyphHeight))
	face := basicfont.Face7x13

	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		i := int(r - firstGlyph)
		drawFontGlyph(img, face, (i%AtlasCols)*GlyphWidth, (i/AtlasCols)*GlyphHeight, r)
	}

	eimg := ebiten.NewImageFromImage(img)
	a := &FontAtlas{image: eimg}
	for i := range a.glyphs {
		x := (i % AtlasCols) * GlyphWidth
		y := (i / AtlasCols) * GlyphHeight
		a.glyphs[i] = eimg.SubImage(image.Rect(x, y, x+GlyphWidth, y+GlyphHeight)).(*ebiten.Image)
	}
	return a
}

// Glyph returns the cached sub-image for r. Runes outside printable ASCII
// render as '?'; space has no glyph.
func (a *FontAtlas) Glyph(r rune) *ebiten.Image {
	if r == ' ' {
		return nil
	}
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	return a.glyphs[r-firstGlyph]
}

// drawFontGlyph renders a single character into its atlas cell.
func drawFontGlyph(img *image.NRGBA, face font.Face, cellX, cellY int, r rune) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(cellX, cellY+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(string(r))
}
