// Package scene turns simulation ticks into drawable sprite state and
// routes pointer gestures back into the engine and out to the host.
package scene

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/constellation"
	"github.com/frankfika/thanksgiving/internal/layout"
	"github.com/frankfika/thanksgiving/internal/star"
)

// TapSlop is how far the pointer may travel during a press and still
// count as a click rather than a drag.
const TapSlop = 4.0

// Simulation is the part of the layout engine the scene drives.
type Simulation interface {
	OnTick(fn func([]layout.Node))
	Pin(id string, x, y float64) bool
	Unpin(id string) bool
	Viewport() layout.Viewport
}

// SelectFunc receives the star the user clicked or tapped.
type SelectFunc func(rec star.Record)

// HoverFunc receives the hovered star, or nil when the pointer leaves it,
// with the pointer position for tooltip placement.
type HoverFunc func(rec *star.Record, x, y float64)

type pointer struct {
	x, y       float64
	down       bool
	target     string
	startX     float64
	startY     float64
	offX, offY float64 // sprite center minus pointer at press
	dragging   bool
}

// Scene is the render/interaction bridge for one starfield view.
type Scene struct {
	sim     Simulation
	sprites map[string]*Sprite
	order   []string
	links   constellation.Overlay
	spring  harmonica.Spring
	mult    float64
	now     time.Duration

	hovered string
	ptr     pointer

	onSelect SelectFunc
	onHover  HoverFunc
	log      *zap.Logger

	cancel func()
	closed bool
}

// Option configures a Scene.
type Option func(*Scene)

// OnSelect sets the click/tap callback.
func OnSelect(fn SelectFunc) Option {
	return func(s *Scene) { s.onSelect = fn }
}

// OnHover sets the hover callback.
func OnHover(fn HoverFunc) Option {
	return func(s *Scene) { s.onHover = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) { s.log = l }
}

// New subscribes a scene to sim's ticks. If sched is non-nil the scene
// advances its animation clock on it until Close.
func New(sim Simulation, sched layout.Scheduler, opts ...Option) *Scene {
	s := &Scene{
		sim:     sim,
		sprites: make(map[string]*Sprite),
		spring:  harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.45),
		mult:    sim.Viewport().SizeMult(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	sim.OnTick(s.HandleTick)
	if sched != nil {
		s.cancel = sched.Every(s.Advance)
	}
	return s
}

// Now returns the scene's animation clock.
func (s *Scene) Now() time.Duration { return s.now }

// SizeMult returns the sprite size multiplier for the viewport.
func (s *Scene) SizeMult() float64 { return s.mult }

// Advance moves the animation clock and the hover springs forward.
func (s *Scene) Advance(dt time.Duration) {
	if s.closed {
		return
	}
	s.now += dt
	for _, sp := range s.sprites {
		sp.Scale, sp.scaleVel = s.spring.Update(sp.Scale, sp.scaleVel, sp.scaleTarget)
	}
}

// HandleTick syncs sprites with the engine's node list. New ids start
// their entrance animation; known ids only move.
func (s *Scene) HandleTick(nodes []layout.Node) {
	if s.closed {
		return
	}
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		id := n.ID()
		seen[id] = struct{}{}
		sp, ok := s.sprites[id]
		if !ok {
			sp = &Sprite{Star: n.Star, Born: s.now, Scale: 1, scaleTarget: 1}
			s.sprites[id] = sp
			s.order = append(s.order, id)
		}
		sp.X, sp.Y = n.X, n.Y
		sp.Radius = n.Radius
		sp.Pinned = n.Pinned
	}
	if len(seen) == len(s.order) {
		return
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := seen[id]; ok {
			kept = append(kept, id)
			continue
		}
		s.drop(id)
	}
	s.order = kept
}

// drop forgets a star that left the data set, without a fade.
func (s *Scene) drop(id string) {
	delete(s.sprites, id)
	if s.hovered == id {
		s.hovered = ""
		s.links.Hide(s.now)
		s.emitHover(nil)
	}
	if s.ptr.target == id {
		s.ptr = pointer{x: s.ptr.x, y: s.ptr.y, down: s.ptr.down}
	}
	s.log.Debug("sprite removed", zap.String("id", id))
}

// Sprites returns the sprites in draw order, bottom first.
func (s *Scene) Sprites() []*Sprite {
	out := make([]*Sprite, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sprites[id])
	}
	return out
}

// Sprite returns the sprite for an id.
func (s *Scene) Sprite(id string) (*Sprite, bool) {
	sp, ok := s.sprites[id]
	return sp, ok
}

// Records returns every star on screen in draw order.
func (s *Scene) Records() []star.Record {
	out := make([]star.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sprites[id].Star)
	}
	return out
}

// Hovered returns the hovered star, if any.
func (s *Scene) Hovered() (star.Record, bool) {
	if s.hovered == "" {
		return star.Record{}, false
	}
	return s.sprites[s.hovered].Star, true
}

// Dragging reports whether a drag gesture is in progress.
func (s *Scene) Dragging() bool { return s.ptr.dragging }

// Pointer returns the last known pointer position.
func (s *Scene) Pointer() (x, y float64) { return s.ptr.x, s.ptr.y }

// Segments returns the constellation lines to draw this frame.
func (s *Scene) Segments() []constellation.Segment {
	return s.links.Segments(s.now, s.resolve)
}

func (s *Scene) resolve(id string) (float64, float64, bool) {
	sp, ok := s.sprites[id]
	if !ok {
		return 0, 0, false
	}
	return sp.X, sp.Y, true
}

// hit returns the topmost sprite under (x, y).
func (s *Scene) hit(x, y float64) string {
	for i := len(s.order) - 1; i >= 0; i-- {
		sp := s.sprites[s.order[i]]
		r := sp.hitRadius(s.mult)
		if math.Hypot(sp.X-x, sp.Y-y) <= r {
			return s.order[i]
		}
	}
	return ""
}

// PointerMove handles cursor motion. With a button held over a star it
// drags the star; otherwise it updates hover, even with the button held.
func (s *Scene) PointerMove(x, y float64) {
	if s.closed {
		return
	}
	s.ptr.x, s.ptr.y = x, y
	if s.ptr.down && s.ptr.target != "" {
		if !s.ptr.dragging && math.Hypot(x-s.ptr.startX, y-s.ptr.startY) > TapSlop {
			s.ptr.dragging = true
		}
		s.sim.Pin(s.ptr.target, x+s.ptr.offX, y+s.ptr.offY)
		return
	}
	s.updateHover(x, y)
}

// PointerDown starts a gesture. Pressing a star pins it where it is.
func (s *Scene) PointerDown(x, y float64) {
	if s.closed {
		return
	}
	s.updateHover(x, y)
	s.ptr = pointer{x: x, y: y, down: true, startX: x, startY: y}
	id := s.hit(x, y)
	if id == "" {
		return
	}
	sp := s.sprites[id]
	s.ptr.target = id
	s.ptr.offX, s.ptr.offY = sp.X-x, sp.Y-y
	s.sim.Pin(id, sp.X, sp.Y)
}

// PointerUp ends a gesture: it releases a dragged star, or selects the
// star if the pointer never left the tap slop.
func (s *Scene) PointerUp(x, y float64) {
	if s.closed {
		return
	}
	p := s.ptr
	s.ptr = pointer{x: x, y: y}
	if p.target != "" {
		s.sim.Unpin(p.target)
		if !p.dragging {
			if sp, ok := s.sprites[p.target]; ok && s.onSelect != nil {
				s.onSelect(sp.Star)
			}
		}
	}
	s.updateHover(x, y)
}

// PointerLeave clears hover, e.g. when the cursor leaves the window or a
// touch ends. A held drag is released without selecting.
func (s *Scene) PointerLeave() {
	if s.closed {
		return
	}
	if s.ptr.target != "" {
		s.sim.Unpin(s.ptr.target)
	}
	s.ptr = pointer{x: s.ptr.x, y: s.ptr.y}
	s.setHover("")
}

func (s *Scene) updateHover(x, y float64) {
	s.setHover(s.hit(x, y))
	if s.hovered != "" {
		s.emitHover(&s.sprites[s.hovered].Star)
	}
}

func (s *Scene) setHover(id string) {
	if id == s.hovered {
		return
	}
	if old, ok := s.sprites[s.hovered]; ok {
		old.scaleTarget = 1
		s.links.Hide(s.now)
		s.hovered = ""
		s.emitHover(nil)
	}
	if id == "" {
		return
	}
	sp := s.sprites[id]
	s.hovered = id
	sp.scaleTarget = HoverScale
	s.links.Show(constellation.Build(sp.Star, s.Records()), s.now)
}

func (s *Scene) emitHover(rec *star.Record) {
	if s.onHover != nil {
		s.onHover(rec, s.ptr.x, s.ptr.y)
	}
}

// Close stops the scene's animation clock. It is safe to call twice.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
