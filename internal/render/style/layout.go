package style

// Tooltip offsets from the pointer.
const (
	TooltipDX = 20
	TooltipDY = -20
)

// TooltipOrigin places a w×h tooltip beside the pointer, kept on a
// screenW×screenH screen.
func TooltipOrigin(px, py, w, h, screenW, screenH float64) (x, y float64) {
	x, y = px+TooltipDX, py+TooltipDY
	if x+w > screenW {
		x = px - TooltipDX - w
	}
	return clamp(x, 0, max(0, screenW-w)), clamp(y, 0, max(0, screenH-h))
}

// Centered returns the origin of a w×h box centered on the screen.
func Centered(w, h, screenW, screenH float64) (x, y float64) {
	return max(0, (screenW-w)/2), max(0, (screenH-h)/2)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
