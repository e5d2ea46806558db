// Package render adapts published camera matrices to ebiten's 2D
// drawing model.
//
// A Viewport subscribes to the camera store's render topic and caches
// the latest view and projection per camera. Each frame the game
// publishes with SendViewProjection, dispatches the bus, and draws
// world-space images through GeoM:
//
//	op := &ebiten.DrawImageOptions{}
//	op.GeoM = viewport.GeoM("main")
//	screen.DrawImage(sprite, op)
//
// Camera screen space puts the origin at the bottom left with y up;
// ebiten draws from the top left with y down. GeoM folds the flip in,
// so world coordinates stay y-up everywhere outside the draw call.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/notbadgun/orthocam"
	"github.com/notbadgun/orthocam/bus"
	"github.com/notbadgun/orthocam/config"
)

// Viewport turns camera frames into screen-space geometry. It renders
// onto a target of screen size, which starts at the display size and
// should track the ebiten layout when the window is resizable.
type Viewport struct {
	screenW      int
	screenH      int
	pixelPerfect bool
	frames       map[string]orthocam.ViewProjection
}

// NewViewport subscribes to orthocam.RenderTopic on b and sizes the
// screen to the display.
func NewViewport(b *bus.Bus, display config.Display) (*Viewport, error) {
	if b == nil {
		return nil, errors.New("render: bus is required")
	}
	if !display.Valid() {
		return nil, fmt.Errorf("render: invalid display %dx%d", display.Width, display.Height)
	}
	v := &Viewport{
		screenW: display.Width,
		screenH: display.Height,
		frames:  make(map[string]orthocam.ViewProjection),
	}
	b.Subscribe(orthocam.RenderTopic, func(msg any) {
		if frame, ok := msg.(orthocam.ViewProjection); ok {
			v.frames[frame.Camera] = frame
		}
	})
	return v, nil
}

// SetScreenSize resizes the render target. Call it from the game's
// Layout alongside Store.SetWindowSize so window-aware projections and
// the viewport transform agree on the buffer size.
func (v *Viewport) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("render: invalid screen size %dx%d", w, h))
	}
	v.screenW, v.screenH = w, h
}

// SetPixelPerfect snaps the final translation of GeoM to whole pixels.
// Useful for pixel art at integer zoom, where subpixel camera motion
// shimmers.
func (v *Viewport) SetPixelPerfect(on bool) {
	v.pixelPerfect = on
}

// Frame returns the camera's last published matrices. ok is false when
// the camera never published.
func (v *Viewport) Frame(id string) (orthocam.ViewProjection, bool) {
	frame, ok := v.frames[id]
	return frame, ok
}

// GeoM returns the world-to-screen transform for the camera's last
// published frame, identity when the camera never published.
func (v *Viewport) GeoM(id string) ebiten.GeoM {
	var g ebiten.GeoM
	frame, ok := v.frames[id]
	if !ok {
		return g
	}

	// Fold the clip-to-screen viewport transform and the y flip into
	// the combined matrix. Orthographic clip space has w=1, so the
	// upper-left 2x4 of projection*view is already affine in x and y.
	m := frame.Projection.Mul4(frame.View)
	w := float64(v.screenW) / 2
	h := float64(v.screenH) / 2
	tx := (m[12] + 1) * w
	ty := (1 - m[13]) * h
	if v.pixelPerfect {
		tx = math.Round(tx)
		ty = math.Round(ty)
	}
	g.SetElement(0, 0, m[0]*w)
	g.SetElement(0, 1, m[4]*w)
	g.SetElement(0, 2, tx)
	g.SetElement(1, 0, -m[1]*h)
	g.SetElement(1, 1, -m[5]*h)
	g.SetElement(1, 2, ty)
	return g
}

// Visible reports whether any part of the world-space rectangle falls
// inside the camera's frame. Cameras that never published see nothing.
func (v *Viewport) Visible(id string, r orthocam.Rect) bool {
	frame, ok := v.frames[id]
	if !ok {
		return false
	}
	bounds, err := orthocam.WorldBoundsOf(frame.View, frame.Projection, v.screenW, v.screenH)
	if err != nil {
		panic(err)
	}
	return r.Intersects(bounds)
}

// CursorWorld maps an ebiten cursor position to world space on the
// camera's z=0 plane. ok is false when the camera never published.
func (v *Viewport) CursorWorld(id string, cx, cy int) (mgl64.Vec3, bool) {
	frame, ok := v.frames[id]
	if !ok {
		return mgl64.Vec3{}, false
	}
	screen := mgl64.Vec3{float64(cx), float64(v.screenH - cy), 0.5}
	world, err := orthocam.Unproject(frame.View, frame.Projection, screen, v.screenW, v.screenH)
	if err != nil {
		panic(err)
	}
	return world, true
}
