package constellation

import (
	"time"

	"github.com/frankfika/thanksgiving/internal/ease"
)

// Line animation timings.
const (
	GrowDuration = 500 * time.Millisecond
	FadeDuration = 300 * time.Millisecond
	LineOpacity  = 0.4
)

// Segment is a line ready to draw.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Opacity        float64
	Color          string
}

// Resolver returns the live position of a star, or false if it is gone.
type Resolver func(id string) (x, y float64, ok bool)

type line struct {
	Link
	shown    time.Duration
	hidden   time.Duration
	fading   bool
	fadeFrom float64 // opacity when the fade began
}

// Overlay animates the current set of constellation lines. Lines grow out
// of the source star, and fade away once hidden before being dropped.
type Overlay struct {
	lines []line
}

// Show starts growing links. Lines from a previous hover start fading.
func (o *Overlay) Show(links []Link, now time.Duration) {
	o.Hide(now)
	for _, l := range links {
		o.lines = append(o.lines, line{Link: l, shown: now})
	}
}

// Hide starts fading every visible line.
func (o *Overlay) Hide(now time.Duration) {
	for i := range o.lines {
		l := &o.lines[i]
		if l.fading {
			continue
		}
		l.fadeFrom = l.opacity(now)
		l.fading = true
		l.hidden = now
	}
}

// Len returns the number of lines still alive, fading ones included.
func (o *Overlay) Len() int { return len(o.lines) }

// Active returns the links that are not fading.
func (o *Overlay) Active() []Link {
	var out []Link
	for _, l := range o.lines {
		if !l.fading {
			out = append(out, l.Link)
		}
	}
	return out
}

// Segments drops fully faded lines and returns the rest positioned at
// now. Lines whose stars cannot be resolved are skipped.
func (o *Overlay) Segments(now time.Duration, resolve Resolver) []Segment {
	kept := o.lines[:0]
	var segs []Segment
	for _, l := range o.lines {
		if l.fading && now-l.hidden >= FadeDuration {
			continue
		}
		kept = append(kept, l)

		sx, sy, ok := resolve(l.SourceID)
		if !ok {
			continue
		}
		tx, ty, ok := resolve(l.TargetID)
		if !ok {
			continue
		}
		p := ease.CubicOut(ease.Progress(float64(now-l.shown), float64(GrowDuration)))
		segs = append(segs, Segment{
			X1:      sx,
			Y1:      sy,
			X2:      sx + (tx-sx)*p,
			Y2:      sy + (ty-sy)*p,
			Opacity: l.opacity(now),
			Color:   l.Color,
		})
	}
	o.lines = kept
	return segs
}

func (l line) opacity(now time.Duration) float64 {
	if l.fading {
		return l.fadeFrom * (1 - ease.Progress(float64(now-l.hidden), float64(FadeDuration)))
	}
	return LineOpacity * ease.CubicOut(ease.Progress(float64(now-l.shown), float64(GrowDuration)))
}
