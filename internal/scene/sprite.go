package scene

import (
	"time"

	"github.com/frankfika/thanksgiving/internal/ease"
	"github.com/frankfika/thanksgiving/internal/star"
)

// Entrance animation lengths.
const (
	HaloEntrance = 1500 * time.Millisecond
	CoreEntrance = 2 * time.Second
)

// HoverScale is the scale a hovered star springs toward.
const HoverScale = 1.3

// Sprite is the on-screen state of one star.
type Sprite struct {
	Star   star.Record
	X, Y   float64
	Radius float64 // collision radius from the engine
	Pinned bool
	Born   time.Duration // scene time of the first tick that carried this star
	Scale  float64

	scaleVel    float64
	scaleTarget float64
}

// Sizes are the radii of a star's four concentric circles.
type Sizes struct {
	Halo, Glow, Core, Inner float64
}

// Sizes returns the radii at scene time now, including the entrance
// growth and the hover scale. mult shrinks stars on narrow screens.
func (s *Sprite) Sizes(now time.Duration, mult float64) Sizes {
	b := s.Star.Brightness()
	age := float64(now - s.Born)
	halo := ease.ElasticOut(ease.Progress(age, float64(HaloEntrance)))
	grow := ease.ElasticOut(ease.Progress(age, float64(CoreEntrance)))
	k := mult * s.Scale
	return Sizes{
		Halo:  (35 + b*35) * k * halo,
		Glow:  (20 + b*25) * k * grow,
		Core:  (6 + b*10) * k * grow,
		Inner: (2 + b*3) * k * grow,
	}
}

// Entering reports whether the entrance animation is still running.
func (s *Sprite) Entering(now time.Duration) bool {
	return now-s.Born < CoreEntrance
}

// hitRadius is the pointer target size: the settled glow circle.
func (s *Sprite) hitRadius(mult float64) float64 {
	return max((20+s.Star.Brightness()*25)*mult*s.Scale, 12)
}
