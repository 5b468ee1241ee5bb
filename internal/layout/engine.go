// Package layout is the floating-star force simulation. It owns every
// node's position and velocity; star records only supply identity,
// category and brightness.
package layout

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/mlange-42/ark/ecs"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/star"
)

// Engine is one long-lived simulation scoped to the view that created it.
type Engine struct {
	world *ecs.World
	nodes *ecs.Map3[Position, Velocity, Body]
	pos   *ecs.Map[Position]
	vel   *ecs.Map[Velocity]
	body  *ecs.Map[Body]
	pins  *ecs.Map[Pin]

	order []ecs.Entity // registration order
	stars []star.Record
	byID  map[string]int

	vp     Viewport
	params Params
	forces []Force
	rng    *rand.Rand
	log    *zap.Logger

	alpha       float64
	alphaTarget float64
	pinned      int
	elapsed     time.Duration
	ticks       uint64

	listeners []func([]Node)
	observe   func(d time.Duration, nodes int, alpha float64)
	cancel    func()
	stopped   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithParams replaces the default tuning.
func WithParams(p Params) Option {
	return func(e *Engine) { e.params = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSeed makes spawn positions and jiggle deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed>>16|1)) }
}

// WithObserver sets a hook that receives the duration of every step.
func WithObserver(fn func(d time.Duration, nodes int, alpha float64)) Option {
	return func(e *Engine) { e.observe = fn }
}

// WithForces replaces the default force composition. Forces run in the
// given order every tick.
func WithForces(forces ...Force) Option {
	return func(e *Engine) { e.forces = forces }
}

// New creates an engine for the viewport. If sched is non-nil the engine
// schedules its own ticks on it until Stop.
func New(vp Viewport, sched Scheduler, opts ...Option) *Engine {
	w := ecs.NewWorld(256)
	e := &Engine{
		world:  w,
		nodes:  ecs.NewMap3[Position, Velocity, Body](w),
		pos:    ecs.NewMap[Position](w),
		vel:    ecs.NewMap[Velocity](w),
		body:   ecs.NewMap[Body](w),
		pins:   ecs.NewMap[Pin](w),
		byID:   make(map[string]int),
		vp:     vp,
		params: DefaultParams(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>16|1))
	}
	if e.forces == nil {
		e.forces = DefaultForces(e.params)
	}
	e.alpha = e.params.AlphaStart
	if sched != nil {
		e.cancel = sched.Every(e.Tick)
	}
	return e
}

// Viewport returns the viewport the engine was created with.
func (e *Engine) Viewport() Viewport { return e.vp }

// Params returns the engine tuning.
func (e *Engine) Params() Params { return e.params }

// Alpha returns the current settle energy.
func (e *Engine) Alpha() float64 { return e.alpha }

// Ticks returns the number of steps taken.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Len returns the number of registered nodes.
func (e *Engine) Len() int { return len(e.order) }

// Stopped reports whether Stop has been called.
func (e *Engine) Stopped() bool { return e.stopped }

// OnTick registers fn to receive the full node list after every step.
func (e *Engine) OnTick(fn func([]Node)) {
	if e.stopped {
		return
	}
	e.listeners = append(e.listeners, fn)
}

// RegisterNodes adds every record whose id has not been seen yet and
// returns how many were added. Known ids keep their position and
// velocity; a repeated id in the same batch is ignored as well.
func (e *Engine) RegisterNodes(records []star.Record) int {
	if e.stopped {
		return 0
	}
	added := 0
	for _, rec := range records {
		if rec.ID == "" {
			e.log.Debug("skipping star without id")
			continue
		}
		if _, ok := e.byID[rec.ID]; ok {
			continue
		}
		rec = rec.Normalize()
		x, y := e.spawnPoint()
		ent := e.nodes.NewEntity(
			&Position{X: x, Y: y},
			&Velocity{},
			&Body{
				Radius: e.params.Radius(e.vp, rec.Brightness()),
				Phase:  float64(len(e.order)) * e.params.DriftPhaseStep,
			},
		)
		e.byID[rec.ID] = len(e.order)
		e.order = append(e.order, ent)
		e.stars = append(e.stars, rec)
		added++
	}
	if added > 0 {
		e.alpha = max(e.alpha, e.params.AlphaStart)
		e.log.Debug("registered stars", zap.Int("added", added), zap.Int("total", len(e.order)))
	}
	return added
}

// spawnPoint draws a position uniformly inside the padded viewport.
func (e *Engine) spawnPoint() (float64, float64) {
	pad := e.vp.Padding()
	spanX := max(0, e.vp.Width-2*pad)
	spanY := max(0, e.vp.Height-2*pad)
	x, y := e.vp.Width/2, e.vp.Height/2
	if spanX > 0 {
		x = pad + e.rng.Float64()*spanX
	}
	if spanY > 0 {
		y = pad + e.rng.Float64()*spanY
	}
	return x, y
}

// Pin fixes a node at (x, y) until Unpin. Calling it again moves the pin.
func (e *Engine) Pin(id string, x, y float64) bool {
	if e.stopped || !finite(x) || !finite(y) {
		return false
	}
	i, ok := e.byID[id]
	if !ok {
		return false
	}
	ent := e.order[i]
	if e.pins.Has(ent) {
		p := e.pins.Get(ent)
		p.X, p.Y = x, y
		return true
	}
	e.pins.Add(ent, &Pin{X: x, Y: y})
	e.pinned++
	e.alphaTarget = e.params.DragAlphaTarget
	return true
}

// Unpin releases a pinned node back to the forces.
func (e *Engine) Unpin(id string) bool {
	if e.stopped {
		return false
	}
	i, ok := e.byID[id]
	if !ok {
		return false
	}
	ent := e.order[i]
	if !e.pins.Has(ent) {
		return false
	}
	e.pins.Remove(ent)
	e.pinned--
	if e.pinned == 0 {
		e.alphaTarget = 0
	}
	return true
}

// Tick advances the simulation by one step of dt.
func (e *Engine) Tick(dt time.Duration) {
	if e.stopped {
		return
	}
	start := time.Now()
	e.ticks++
	e.elapsed += dt

	e.alpha += (e.alphaTarget - e.alpha) * e.params.AlphaDecay
	if e.alpha < e.params.AlphaFloor {
		e.alpha = e.params.AlphaFloor
	}

	f := &Frame{
		Particles: e.particles(),
		Alpha:     e.alpha,
		DT:        dt,
		Elapsed:   e.elapsed,
		Viewport:  e.vp,
		rng:       e.rng,
	}
	for _, force := range e.forces {
		force.Apply(f)
	}
	if f.reheat > e.alpha {
		e.alpha = f.reheat
	}
	e.integrate(f.Particles)
	if e.observe != nil {
		e.observe(time.Since(start), len(e.order), e.alpha)
	}

	if len(e.listeners) == 0 {
		return
	}
	nodes := e.Nodes()
	for _, fn := range e.listeners {
		fn(nodes)
	}
}

func (e *Engine) particles() []Particle {
	ps := make([]Particle, len(e.order))
	for i, ent := range e.order {
		pos, vel, body := e.nodes.Get(ent)
		e.repair(i, pos, vel)
		p := Particle{Pos: pos, Vel: vel, Body: body}
		if e.pins.Has(ent) {
			p.Pin = e.pins.Get(ent)
		}
		ps[i] = p
	}
	return ps
}

func (e *Engine) integrate(ps []Particle) {
	for i, p := range ps {
		if p.Pin != nil {
			p.Pos.X, p.Pos.Y = p.Pin.X, p.Pin.Y
			p.Vel.X, p.Vel.Y = 0, 0
			continue
		}
		p.Pos.X += p.Vel.X
		p.Pos.Y += p.Vel.Y
		e.repair(i, p.Pos, p.Vel)
	}
}

// repair keeps one bad node from spreading NaN through the pairwise forces.
func (e *Engine) repair(i int, pos *Position, vel *Velocity) {
	if !finite(vel.X) || !finite(vel.Y) {
		vel.X, vel.Y = 0, 0
	}
	if !finite(pos.X) || !finite(pos.Y) {
		pos.X, pos.Y = e.spawnPoint()
		vel.X, vel.Y = 0, 0
		e.log.Debug("reseeded non-finite star", zap.String("id", e.stars[i].ID))
	}
}

// Nodes returns a snapshot of every node in registration order.
func (e *Engine) Nodes() []Node {
	out := make([]Node, len(e.order))
	for i := range e.order {
		out[i] = e.node(i)
	}
	return out
}

// Node returns the snapshot for one id.
func (e *Engine) Node(id string) (Node, bool) {
	i, ok := e.byID[id]
	if !ok {
		return Node{}, false
	}
	return e.node(i), true
}

func (e *Engine) node(i int) Node {
	ent := e.order[i]
	pos, vel, body := e.nodes.Get(ent)
	return Node{
		Star:   e.stars[i],
		X:      pos.X,
		Y:      pos.Y,
		VX:     vel.X,
		VY:     vel.Y,
		Radius: body.Radius,
		Pinned: e.pins.Has(ent),
	}
}

// Stop cancels the scheduled tick and drops listeners. It is safe to call
// more than once, including while a node is pinned.
func (e *Engine) Stop() {
	if e.stopped {
		return
	}
	e.stopped = true
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.listeners = nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
