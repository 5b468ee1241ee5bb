package style

import (
	"hash/fnv"
	"time"
)

// Fixed layer opacities.
const (
	HaloAlpha  = 0.08
	InnerAlpha = 0.8
)

// Pulse holds one star's idle animation periods. Each star gets its own
// so the field does not breathe in unison.
type Pulse struct {
	Halo time.Duration // radius 1 → 1.3 → 1, 3–5 s
	Glow time.Duration // opacity 0.2 → 0.35 → 0.2, 2–5 s
	Core time.Duration // opacity 0.95 → 0.6 → 0.95, 1.5–3.5 s
}

// PulseFor derives stable periods from a star id.
func PulseFor(id string) Pulse {
	h := fnv.New64a()
	h.Write([]byte(id))
	v := h.Sum64()
	frac := func(shift uint) float64 { return float64((v>>shift)&0xffff) / 0xffff }
	span := func(lo, width float64, f float64) time.Duration {
		return time.Duration((lo + width*f) * float64(time.Second))
	}
	return Pulse{
		Halo: span(3, 2, frac(0)),
		Glow: span(2, 3, frac(16)),
		Core: span(1.5, 2, frac(32)),
	}
}

// Look is the idle animation state at one instant.
type Look struct {
	HaloScale float64
	GlowAlpha float64
	CoreAlpha float64
}

// At samples the pulse at scene time now.
func (p Pulse) At(now time.Duration) Look {
	return Look{
		HaloScale: 1 + 0.3*Wave(now, p.Halo),
		GlowAlpha: 0.2 + 0.15*Wave(now, p.Glow),
		CoreAlpha: 0.95 - 0.35*Wave(now, p.Core),
	}
}

// Wave is a triangle wave rising 0 → 1 over the first half of period and
// falling back over the second.
func Wave(now, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	t := float64(now%period) / float64(period)
	if t < 0 {
		t++
	}
	if t < 0.5 {
		return t * 2
	}
	return (1 - t) * 2
}
