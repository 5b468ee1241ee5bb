package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/frankfika/thanksgiving/internal/host"
	"github.com/frankfika/thanksgiving/internal/render/style"
	"github.com/frankfika/thanksgiving/internal/star"
)

// TooltipExcerpt is how many characters of a statement the tooltip shows.
const TooltipExcerpt = 30

const (
	pad       = 10.0
	cardWidth = 420.0
	cardWrap  = 52
	inputW    = 560.0
	inputH    = 64.0
)

// DrawTooltip draws the hover card beside the pointer.
func (r *Renderer) DrawTooltip(dst *ebiten.Image, rec star.Record, px, py float64) {
	title := strings.ToUpper(rec.Category())
	quote := `"` + rec.Excerpt(TooltipExcerpt) + `"`
	w := max(TextWidth(title, 1), TextWidth(quote, 1)) + 2*pad + 4
	h := 2*LineHeight(1) + 2*pad
	sw, sh := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	x, y := style.TooltipOrigin(px, py, w, h, sw, sh)

	c := style.Hex(rec.Reading.SentimentColor, style.White)
	r.Painter.Panel(dst, x, y, w, h, style.Panel, style.PanelEdge)
	r.Painter.Rect(dst, x, y, 4, h, c)
	r.Painter.Text(dst, title, x+pad+4, y+pad, style.Fade(style.Text, 0.7), 1)
	r.Painter.Text(dst, quote, x+pad+4, y+pad+LineHeight(1), style.Text, 1)
}

// DrawCard draws the detail card for a selected star.
func (r *Renderer) DrawCard(dst *ebiten.Image, rec star.Record) {
	c := style.Hex(rec.Reading.SentimentColor, style.White)
	quote := host.Wrap(`"`+rec.Text+`"`, cardWrap)
	blessing := host.Wrap(rec.Reading.Blessing, cardWrap)
	facts := [][2]string{
		{"ARCHETYPE", rec.Reading.Archetype},
		{"DISTANCE", rec.Reading.Distance},
		{"FREQUENCY", rec.Reading.Frequency},
	}

	lh := LineHeight(1)
	h := 2*pad + LineHeight(2) + lh*float64(len(quote)+len(blessing)+len(facts)+3)
	sw, sh := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	r.Painter.Rect(dst, 0, 0, sw, sh, style.Fade(style.Sky, 0.6))
	x, y := style.Centered(cardWidth, h, sw, sh)
	r.Painter.Panel(dst, x, y, cardWidth, h, style.Panel, c)

	cx, cy := x+2*pad, y+pad
	r.Painter.Text(dst, strings.ToUpper(rec.Category()), cx, cy, c, 2)
	cy += LineHeight(2)
	for _, line := range quote {
		r.Painter.Text(dst, line, cx, cy, style.Text, 1)
		cy += lh
	}
	cy += lh
	for _, f := range facts {
		r.Painter.Text(dst, f[0], cx, cy, style.Muted, 1)
		r.Painter.Text(dst, f[1], cx+TextWidth("FREQUENCY  ", 1), cy, style.Text, 1)
		cy += lh
	}
	cy += lh
	r.Painter.Rect(dst, cx-pad/2, cy, 2, lh*float64(len(blessing)), c)
	for _, line := range blessing {
		r.Painter.Text(dst, line, cx+pad/2, cy, style.Fade(style.Text, 0.85), 1)
		cy += lh
	}
	hint := "click or press Esc to close"
	r.Painter.Text(dst, hint, x+cardWidth-pad-TextWidth(hint, 1), y+h-pad-lh+3, style.Muted, 1)
}

// DrawInput draws the submission box at the bottom of the screen.
func (r *Renderer) DrawInput(dst *ebiten.Image, h *host.Host, now time.Duration) {
	sw, sh := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	w := min(inputW, sw-2*pad)
	x, y := (sw-w)/2, sh-inputH-2*pad
	r.Painter.Panel(dst, x, y, w, inputH, style.Panel, style.PanelEdge)

	lh := LineHeight(1)
	text := h.Input().Text()
	switch {
	case h.Busy():
		dots := strings.Repeat(".", int(now/(400*time.Millisecond))%4)
		r.Painter.Text(dst, "Weaving your star"+dots, x+pad, y+pad, style.Gold, 1)
	case text == "":
		r.Painter.Text(dst, "What are you thankful for? (Enter to send)", x+pad, y+pad, style.Muted, 1)
	default:
		visible := int((w - 2*pad) / GlyphWidth)
		rs := []rune(text)
		if len(rs) > visible-1 {
			rs = rs[len(rs)-(visible-1):]
		}
		r.Painter.Text(dst, string(rs), x+pad, y+pad, style.Text, 1)
		if (now/(500*time.Millisecond))%2 == 0 {
			r.Painter.Rect(dst, x+pad+TextWidth(string(rs), 1)+1, y+pad, 2, GlyphHeight, style.Text)
		}
	}
	quota := fmt.Sprintf("%d left today", h.Remaining())
	r.Painter.Text(dst, quota, x+w-pad-TextWidth(quota, 1), y+inputH-pad-lh+3, style.Muted, 1)
}

// DrawNotices draws the most recent notices in the top-left corner.
func (r *Renderer) DrawNotices(dst *ebiten.Image, notices []host.Notice) {
	y := pad
	for _, n := range notices {
		r.Painter.Text(dst, n.Text, pad, y, noticeColor(n), 1)
		y += LineHeight(1)
	}
}
