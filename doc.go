// Package orthocam is a per-frame controller for 2D and 2.5D game
// cameras. A Store holds any number of cameras, each owned by a scene
// node; every tick it follows a target through an optional deadzone,
// clamps to world bounds, advances shake and recoil offsets, and
// recomputes the camera's view and projection matrices. Projections come
// from a registry of named orthographic strategies and both directions
// of screen/world conversion are exposed.
//
// Configuration changes travel as messages over a bus and land before
// the next update; nothing takes effect mid-frame. The package itself
// never renders: publish matrices with SendViewProjection and draw with
// the render subpackage or your own adapter.
package orthocam
