package layout

import (
	"math"
	"math/rand/v2"
	"time"
)

// Particle is the mutable view of one node during a tick. Pointers are
// only valid until the tick returns.
type Particle struct {
	Pos  *Position
	Vel  *Velocity
	Body *Body
	Pin  *Pin
}

// Free reports whether forces may act on the particle.
func (p Particle) Free() bool { return p.Pin == nil }

// Frame is the working set forces see during one tick.
type Frame struct {
	Particles []Particle
	Alpha     float64
	DT        time.Duration
	Elapsed   time.Duration
	Viewport  Viewport

	rng    *rand.Rand
	reheat float64
}

// Reheat asks the engine to raise alpha to at least a after this tick.
func (f *Frame) Reheat(a float64) {
	f.reheat = max(f.reheat, a)
}

// jiggle returns a tiny random offset for coincident points.
func (f *Frame) jiggle() float64 {
	return (f.rng.Float64() - 0.5) * 1e-6
}

// Force mutates particle velocities. Forces must leave pinned particles alone.
type Force interface {
	Apply(f *Frame)
}

// ForceFunc adapts a plain function to Force.
type ForceFunc func(f *Frame)

// Apply calls fn.
func (fn ForceFunc) Apply(f *Frame) { fn(f) }

// DefaultForces returns the standard composition in application order:
// drift, repulsion, collision, boundary, decay.
func DefaultForces(p Params) []Force {
	return []Force{
		NewDrift(p),
		Repulsion(p.Charge),
		Collision(p.CollideStrength),
		Boundary(p.BoundaryNudge),
		Decay(p.VelocityDecay),
	}
}

// Drift is the idle breathing motion. It fires once per interval of
// accumulated tick time, independent of the tick rate.
type Drift struct {
	Amplitude float64
	Damping   float64
	Interval  time.Duration
	TimeScale float64
	Alpha     float64

	acc time.Duration
}

// NewDrift builds the drift force from params.
func NewDrift(p Params) *Drift {
	return &Drift{
		Amplitude: p.DriftAmplitude,
		Damping:   p.DriftDamping,
		Interval:  p.DriftInterval,
		TimeScale: p.DriftTimeScale,
		Alpha:     p.DriftAlpha,
	}
}

// Apply perturbs every free particle when the interval has elapsed.
func (d *Drift) Apply(f *Frame) {
	d.acc += f.DT
	if d.Interval > 0 {
		if d.acc < d.Interval {
			return
		}
		d.acc %= d.Interval
	}
	t := f.Elapsed.Seconds() * d.TimeScale
	for _, p := range f.Particles {
		if !p.Free() {
			continue
		}
		phase := p.Body.Phase
		p.Vel.X = p.Vel.X*d.Damping + math.Sin(t+phase)*d.Amplitude
		p.Vel.Y = p.Vel.Y*d.Damping + math.Cos(t*0.8+phase)*d.Amplitude
	}
	f.Reheat(d.Alpha)
}

// Repulsion pushes every pair apart with inverse-distance falloff scaled
// by alpha. Squared distances below 1 are softened to avoid blow-ups.
func Repulsion(strength float64) Force {
	return ForceFunc(func(f *Frame) {
		ps := f.Particles
		for i := range ps {
			a := ps[i]
			for j := i + 1; j < len(ps); j++ {
				b := ps[j]
				if !a.Free() && !b.Free() {
					continue
				}
				dx := b.Pos.X - a.Pos.X
				dy := b.Pos.Y - a.Pos.Y
				if dx == 0 {
					dx = f.jiggle()
				}
				if dy == 0 {
					dy = f.jiggle()
				}
				l := dx*dx + dy*dy
				if l < 1 {
					l = math.Sqrt(l)
				}
				w := strength * f.Alpha / l
				if a.Free() {
					a.Vel.X += dx * w
					a.Vel.Y += dy * w
				}
				if b.Free() {
					b.Vel.X -= dx * w
					b.Vel.Y -= dy * w
				}
			}
		}
	})
}

// Collision separates overlapping bodies using their predicted positions.
// The correction is split by relative size; strength below 1 keeps it soft.
func Collision(strength float64) Force {
	return ForceFunc(func(f *Frame) {
		ps := f.Particles
		for i := range ps {
			a := ps[i]
			ri := a.Body.Radius
			xi := a.Pos.X + a.Vel.X
			yi := a.Pos.Y + a.Vel.Y
			for j := i + 1; j < len(ps); j++ {
				b := ps[j]
				if !a.Free() && !b.Free() {
					continue
				}
				rj := b.Body.Radius
				r := ri + rj
				x := xi - b.Pos.X - b.Vel.X
				y := yi - b.Pos.Y - b.Vel.Y
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = f.jiggle()
					l += x * x
				}
				if y == 0 {
					y = f.jiggle()
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * strength
				x *= l
				y *= l
				share := rj * rj / (ri*ri + rj*rj)
				switch {
				case a.Free() && b.Free():
					a.Vel.X += x * share
					a.Vel.Y += y * share
					b.Vel.X -= x * (1 - share)
					b.Vel.Y -= y * (1 - share)
				case a.Free():
					a.Vel.X += x
					a.Vel.Y += y
				default:
					b.Vel.X -= x
					b.Vel.Y -= y
				}
			}
		}
	})
}

// Boundary nudges free particles that stray into the padding back toward
// the middle. It never clamps, so brief excursions are possible.
func Boundary(nudge float64) Force {
	return ForceFunc(func(f *Frame) {
		pad := f.Viewport.Padding()
		w, h := f.Viewport.Width, f.Viewport.Height
		for _, p := range f.Particles {
			if !p.Free() {
				continue
			}
			if p.Pos.X < pad {
				p.Vel.X += nudge
			}
			if p.Pos.X > w-pad {
				p.Vel.X -= nudge
			}
			if p.Pos.Y < pad {
				p.Vel.Y += nudge
			}
			if p.Pos.Y > h-pad {
				p.Vel.Y -= nudge
			}
		}
	})
}

// Decay removes a fixed fraction of every free particle's velocity.
func Decay(fraction float64) Force {
	keep := 1 - fraction
	return ForceFunc(func(f *Frame) {
		for _, p := range f.Particles {
			if !p.Free() {
				continue
			}
			p.Vel.X *= keep
			p.Vel.Y *= keep
		}
	})
}
