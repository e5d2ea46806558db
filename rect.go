package orthocam

import "github.com/go-gl/mathgl/mgl64"

// Rect is a world-space rectangle named by its edges. Top is greater
// than Bottom and Right greater than Left for any rectangle produced by
// this package.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Top - r.Bottom
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right &&
		r.Right > other.Left &&
		r.Bottom < other.Top &&
		r.Top > other.Bottom
}

// Contains reports whether the point's x and y lie inside r.
func (r Rect) Contains(p mgl64.Vec3) bool {
	return p[0] >= r.Left && p[0] <= r.Right &&
		p[1] >= r.Bottom && p[1] <= r.Top
}
