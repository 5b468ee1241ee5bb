// Package render draws the starfield and its overlays with ebiten.
package render

import (
	"image/color"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/frankfika/thanksgiving/internal/constellation"
	"github.com/frankfika/thanksgiving/internal/host"
	"github.com/frankfika/thanksgiving/internal/render/style"
	"github.com/frankfika/thanksgiving/internal/scene"
)

// LineWidth is the stroke width of constellation lines.
const LineWidth = 1.5

type dust struct {
	x, y, r float32
	a       float64
}

// Renderer draws one frame of the starfield.
type Renderer struct {
	Painter *Painter
	pulses  map[string]style.Pulse
	dust    []dust
	dustW   int
	dustH   int
	seed    uint64
}

// NewRenderer creates a renderer. seed fixes the background dust.
func NewRenderer(seed uint64) *Renderer {
	return &Renderer{
		Painter: NewPainter(NewFontAtlas()),
		pulses:  make(map[string]style.Pulse),
		seed:    seed,
	}
}

func (r *Renderer) pulse(id string) style.Pulse {
	p, ok := r.pulses[id]
	if !ok {
		p = style.PulseFor(id)
		r.pulses[id] = p
	}
	return p
}

// DrawSky fills the background and sprinkles faint fixed dust.
func (r *Renderer) DrawSky(dst *ebiten.Image) {
	dst.Fill(style.Sky)
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	if w != r.dustW || h != r.dustH {
		r.dustW, r.dustH = w, h
		rng := rand.New(rand.NewPCG(r.seed, r.seed>>16|1))
		r.dust = r.dust[:0]
		for i := 0; i < w*h/4000; i++ {
			r.dust = append(r.dust, dust{
				x: float32(rng.Float64() * float64(w)),
				y: float32(rng.Float64() * float64(h)),
				r: float32(0.4 + rng.Float64()*0.8),
				a: 0.15 + rng.Float64()*0.35,
			})
		}
	}
	for _, d := range r.dust {
		vector.DrawFilledCircle(dst, d.x, d.y, d.r, style.Fade(style.White, d.a), true)
	}
}

// DrawLinks draws constellation lines.
func (r *Renderer) DrawLinks(dst *ebiten.Image, segs []constellation.Segment) {
	for _, s := range segs {
		if s.Opacity <= 0 {
			continue
		}
		c := style.Fade(style.Hex(s.Color, style.White), s.Opacity)
		vector.StrokeLine(dst, float32(s.X1), float32(s.Y1), float32(s.X2), float32(s.Y2), LineWidth, c, true)
	}
}

// DrawStars draws every sprite: halo, glow, core and a white center.
func (r *Renderer) DrawStars(dst *ebiten.Image, sc *scene.Scene) {
	now := sc.Now()
	mult := sc.SizeMult()
	for _, sp := range sc.Sprites() {
		sz := sp.Sizes(now, mult)
		look := r.pulse(sp.Star.ID).At(now)
		c := style.Hex(sp.Star.Reading.SentimentColor, style.White)
		x, y := float32(sp.X), float32(sp.Y)

		circle(dst, x, y, sz.Halo*look.HaloScale, style.Fade(c, style.HaloAlpha))
		circle(dst, x, y, sz.Glow, style.Fade(c, look.GlowAlpha))
		circle(dst, x, y, sz.Core, style.Fade(c, look.CoreAlpha))
		circle(dst, x, y, sz.Inner, style.Fade(style.White, style.InnerAlpha))
	}
}

func circle(dst *ebiten.Image, x, y float32, r float64, c color.RGBA) {
	if r <= 0 || c.A == 0 {
		return
	}
	vector.DrawFilledCircle(dst, x, y, float32(r), c, true)
}

// NoticeLines is how many notices stay on screen.
const NoticeLines = 6

// Draw renders one whole frame: sky, links, stars, then the overlays.
func (r *Renderer) Draw(dst *ebiten.Image, sc *scene.Scene, h *host.Host) {
	r.DrawSky(dst)
	r.DrawLinks(dst, sc.Segments())
	r.DrawStars(dst, sc)
	r.DrawNotices(dst, h.Notices().Recent(NoticeLines))
	r.DrawInput(dst, h, sc.Now())

	if rec, ok := h.Selected(); ok {
		r.DrawCard(dst, rec)
		return
	}
	if rec, x, y, ok := h.Hovered(); ok && !sc.Dragging() {
		r.DrawTooltip(dst, rec, x, y)
	}
}
