package layout

import "time"

// Params tunes the simulation. The defaults give a slow, dreamy drift.
type Params struct {
	Charge          float64 // pairwise repulsion strength (negative pushes apart)
	CollideStrength float64 // 0..1, soft collisions below 1
	SizeFactor      float64 // collision radius added per unit of brightness
	BoundaryNudge   float64 // velocity added per tick when inside the padding
	VelocityDecay   float64 // fraction of velocity lost per tick

	DriftAmplitude float64
	DriftDamping   float64 // prior velocity multiplier when drift fires
	DriftInterval  time.Duration
	DriftTimeScale float64 // radians per second of elapsed time
	DriftPhaseStep float64 // phase offset between consecutive stars

	AlphaStart      float64 // alpha after new stars arrive
	AlphaDecay      float64
	AlphaFloor      float64 // alpha never drops below this
	DriftAlpha      float64 // alpha each drift pulse reheats to
	DragAlphaTarget float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		Charge:          -10,
		CollideStrength: 0.3,
		SizeFactor:      5,
		BoundaryNudge:   0.5,
		VelocityDecay:   0.02,

		DriftAmplitude: 0.15,
		DriftDamping:   0.98,
		DriftInterval:  100 * time.Millisecond,
		DriftTimeScale: 0.1,
		DriftPhaseStep: 2.3,

		AlphaStart:      0.3,
		AlphaDecay:      0.005,
		AlphaFloor:      0.05,
		DriftAlpha:      0.05,
		DragAlphaTarget: 0.1,
	}
}

// Radius returns the collision radius for a star of the given brightness.
func (p Params) Radius(vp Viewport, brightness float64) float64 {
	return vp.CollideBase() + brightness*p.SizeFactor
}
