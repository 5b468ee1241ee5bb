// Package ease holds the easing curves used by star and link animations.
// Every curve maps t in [0, 1] to a progress value with f(0)=0 and f(1)=1;
// t outside that range is clamped.
package ease

import "math"

// Func is an easing curve.
type Func func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return Clamp(t) }

// CubicOut decelerates toward the end.
func CubicOut(t float64) float64 {
	t = Clamp(t) - 1
	return t*t*t + 1
}

// ElasticOut overshoots and settles like a plucked string.
func ElasticOut(t float64) float64 {
	const (
		amplitude = 1.0
		period    = 0.3
	)
	t = Clamp(t)
	if t == 0 || t == 1 {
		return t
	}
	s := period / (2 * math.Pi) * math.Asin(1/amplitude)
	return 1 + amplitude*math.Pow(2, -10*t)*math.Sin((t-s)*2*math.Pi/period)
}

// BackOut overshoots slightly before landing.
func BackOut(t float64) float64 {
	const overshoot = 1.70158
	t = Clamp(t) - 1
	return t*t*((overshoot+1)*t+overshoot) + 1
}

// Clamp limits t to [0, 1].
func Clamp(t float64) float64 {
	switch {
	case math.IsNaN(t), t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Progress returns elapsed/total clamped to [0, 1]. A non-positive total
// counts as finished.
func Progress(elapsed, total float64) float64 {
	if total <= 0 {
		return 1
	}
	return Clamp(elapsed / total)
}
