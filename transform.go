package orthocam

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Project maps a world-space point to screen space through the given view
// and projection matrices. Screen x and y land in [0, displayW] and
// [0, displayH], z in [0, 1].
func Project(view, proj mgl64.Mat4, world mgl64.Vec3, displayW, displayH int) mgl64.Vec3 {
	return mgl64.Project(world, view, proj, 0, 0, displayW, displayH)
}

// Unproject maps a screen-space point back to world space, inverting the
// combined projection and view. It is the exact inverse of Project up to
// floating-point error. The only failure mode is a singular combined
// matrix, which valid orthographic look-at cameras never produce.
func Unproject(view, proj mgl64.Mat4, screen mgl64.Vec3, displayW, displayH int) (mgl64.Vec3, error) {
	world, err := mgl64.UnProject(screen, view, proj, 0, 0, displayW, displayH)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("orthocam: unproject: %w", err)
	}
	return world, nil
}

// WorldBoundsOf unprojects the display corners at screen z=0 and returns
// the visible world-space extents. Callers use it for culling.
func WorldBoundsOf(view, proj mgl64.Mat4, displayW, displayH int) (Rect, error) {
	dw, dh := float64(displayW), float64(displayH)

	bl, err := Unproject(view, proj, mgl64.Vec3{0, 0, 0}, displayW, displayH)
	if err != nil {
		return Rect{}, err
	}
	br, err := Unproject(view, proj, mgl64.Vec3{dw, 0, 0}, displayW, displayH)
	if err != nil {
		return Rect{}, err
	}
	tl, err := Unproject(view, proj, mgl64.Vec3{0, dh, 0}, displayW, displayH)
	if err != nil {
		return Rect{}, err
	}

	return Rect{
		Left:   bl[0],
		Bottom: bl[1],
		Right:  br[0],
		Top:    tl[1],
	}, nil
}
