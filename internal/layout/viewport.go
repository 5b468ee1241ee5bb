package layout

// Narrow viewports get smaller padding, collision radius and sprites.
const narrowWidth = 768

// Viewport is the canvas size sampled once when the engine is created.
type Viewport struct {
	Width, Height float64
}

// Narrow reports whether the viewport is phone-sized.
func (v Viewport) Narrow() bool { return v.Width < narrowWidth }

// Padding is the soft margin the boundary force keeps stars inside.
func (v Viewport) Padding() float64 {
	if v.Narrow() {
		return 80
	}
	return 120
}

// CollideBase is the collision radius of a star before brightness scaling.
func (v Viewport) CollideBase() float64 {
	if v.Narrow() {
		return 20
	}
	return 30
}

// SizeMult scales drawn star sizes.
func (v Viewport) SizeMult() float64 {
	if v.Narrow() {
		return 0.5
	}
	return 1
}

// Contains reports whether (x, y) lies inside the padded area.
func (v Viewport) Contains(x, y float64) bool {
	pad := v.Padding()
	return x >= pad && x <= v.Width-pad && y >= pad && y <= v.Height-pad
}
