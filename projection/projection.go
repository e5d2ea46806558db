// Package projection computes orthographic projection matrices for a 2D
// camera and keeps a registry of named projector functions. Three built-in
// strategies cover the usual cases: stretch to the window, keep the aspect
// ratio and auto-zoom to fit, or keep the aspect ratio at a fixed zoom.
// Games register their own strategies under new ids.
package projection

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Built-in projector ids. Default and Stretch name the same strategy.
const (
	Default   = "DEFAULT"
	Stretch   = "STRETCH"
	FixedAuto = "FIXED_AUTO"
	FixedZoom = "FIXED_ZOOM"
)

// Env carries the sizes a projector may consult. Display is the design-time
// resolution and never changes; Window tracks the actual window and may
// change every frame.
type Env struct {
	DisplayWidth  float64
	DisplayHeight float64
	WindowWidth   float64
	WindowHeight  float64
}

// Func builds a projection matrix for the given environment, clip range
// and zoom factor.
type Func func(env Env, near, far, zoom float64) mgl64.Mat4

// stretch fills the window with the display area, distorting the aspect
// ratio when the two differ.
func stretch(env Env, near, far, _ float64) mgl64.Mat4 {
	return mgl64.Ortho(0, env.DisplayWidth, 0, env.DisplayHeight, near, far)
}

// fixedAuto keeps the aspect ratio, zooming so the display area always
// fits inside the window.
func fixedAuto(env Env, near, far, zoom float64) mgl64.Mat4 {
	factor := zoom * math.Min(
		env.WindowWidth/env.DisplayWidth,
		env.WindowHeight/env.DisplayHeight,
	)
	return fixed(env, near, far, factor)
}

// fixedZoom keeps the aspect ratio at exactly the given zoom, cropping or
// revealing world space as the window size diverges from the display size.
func fixedZoom(env Env, near, far, zoom float64) mgl64.Mat4 {
	return fixed(env, near, far, zoom)
}

// fixed centers a window-sized view volume, scaled by factor, on the
// display area.
func fixed(env Env, near, far, factor float64) mgl64.Mat4 {
	projW := env.WindowWidth / factor
	projH := env.WindowHeight / factor
	left := -(projW - env.DisplayWidth) / 2
	bottom := -(projH - env.DisplayHeight) / 2
	right := env.DisplayWidth + (projW-env.DisplayWidth)/2
	top := env.DisplayHeight + (projH-env.DisplayHeight)/2
	return mgl64.Ortho(left, right, bottom, top, near, far)
}

// Registry maps projector ids to functions. The zero value is not usable;
// call NewRegistry, which installs the built-ins. Registries are not safe
// for concurrent mutation.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates a registry holding the built-in projectors.
func NewRegistry() *Registry {
	r := &Registry{funcs: map[string]Func{}}
	r.Register(Default, stretch)
	r.Register(Stretch, stretch)
	r.Register(FixedAuto, fixedAuto)
	r.Register(FixedZoom, fixedZoom)
	return r
}

// Register adds a projector under id, replacing any existing entry.
// Empty ids and nil functions panic.
func (r *Registry) Register(id string, fn Func) {
	if id == "" {
		panic("projection: projector id is required")
	}
	if fn == nil {
		panic("projection: projector func is required")
	}
	r.funcs[id] = fn
}

// Resolve returns the projector registered under id, or the default
// projector when id is unknown. It never fails.
func (r *Registry) Resolve(id string) Func {
	if fn, ok := r.funcs[id]; ok {
		return fn
	}
	return r.funcs[Default]
}

// Has reports whether id names a registered projector.
func (r *Registry) Has(id string) bool {
	_, ok := r.funcs[id]
	return ok
}
