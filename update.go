package orthocam

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/notbadgun/orthocam/config"
	"github.com/notbadgun/orthocam/scene"
)

var (
	forward = mgl64.Vec3{0, 0, -1}
	up      = mgl64.Vec3{0, 1, 0}
)

// Update runs one camera's frame step. Calling it with an unregistered
// id is a no-op so that late or duplicate calls during teardown stay
// harmless.
func (s *Store) Update(id string, dt float64) {
	mustID(id)
	c, ok := s.cameras[id]
	if !ok {
		logger().Debug("update for unregistered camera", "camera", id)
		return
	}
	s.step(c, dt)
}

// UpdateAll steps every registered camera once, in registration order.
// No camera's step reads another's result, so the order is not part of
// the contract.
func (s *Store) UpdateAll(dt float64) {
	for _, id := range s.order {
		s.step(s.cameras[id], dt)
	}
}

// step is the per-camera frame pipeline: follow, clamp to bounds, commit
// the position to the scene node, advance effects, then rebuild the view
// and projection. Settings are read once up front; configuration
// messages land between frames, never during one.
func (s *Store) step(c *camera, dt float64) {
	st := c.endpoint.Settings()

	origWorld, ok := s.graph.WorldPosition(c.node)
	if !ok {
		logger().Debug("camera node gone from scene graph", "camera", c.id)
		return
	}
	pos := origWorld

	if st.Follow && st.FollowTarget != scene.Nil {
		if target, ok := s.graph.WorldPosition(st.FollowTarget); ok {
			candidate := target
			if st.HasDeadzone() {
				candidate = deadzonePush(pos, target, st)
			}
			// z never follows the target
			candidate[2] = pos[2]

			weight := st.FollowLerp
			if c.snap {
				weight = 1
			}
			next := lerpVec(pos, candidate, weight)
			next[2] = candidate[2]
			pos = next
		}
	}
	c.snap = false

	if st.HasBounds() {
		pos = s.clampToBounds(c, pos, st)
	}

	// Commit: move the node so its world position becomes pos while its
	// local/world delta is preserved.
	if local, ok := s.graph.LocalPosition(c.node); ok {
		s.graph.SetLocalPosition(c.node, pos.Add(local.Sub(origWorld)))
	}

	offset := s.advanceEffects(c, dt)

	rot, _ := s.graph.WorldRotation(c.node)
	c.view = s.lookAt(pos, rot, offset)

	if !s.reg.Has(st.Projection) {
		logger().Debug("unknown projector, using default",
			"camera", c.id, "projector", st.Projection)
	}
	c.proj = s.reg.Resolve(st.Projection)(s.projEnv(), st.NearZ, st.FarZ, st.Zoom)
	c.zoom = st.Zoom
}

// deadzonePush returns the camera position pushed just far enough to
// keep the target inside the deadzone rectangle around the current
// camera position. Inside the rectangle the camera does not move.
func deadzonePush(cam, target mgl64.Vec3, st config.Settings) mgl64.Vec3 {
	candidate := cam

	leftEdge := cam[0] - st.DeadzoneLeft
	rightEdge := cam[0] + st.DeadzoneRight
	if target[0] < leftEdge {
		candidate[0] -= leftEdge - target[0]
	} else if target[0] > rightEdge {
		candidate[0] += target[0] - rightEdge
	}

	topEdge := cam[1] + st.DeadzoneTop
	bottomEdge := cam[1] - st.DeadzoneBottom
	if target[1] > topEdge {
		candidate[1] += target[1] - topEdge
	} else if target[1] < bottomEdge {
		candidate[1] -= bottomEdge - target[1]
	}

	return candidate
}

// clampToBounds keeps the camera frame inside the world bounds
// rectangle. Bounds are defined against the current framing, so the
// clamp happens in screen space: project the candidate position and the
// bounds corners (pulled in by half a display so the frame edge, not the
// frame center, stops at the bounds), clamp, and unproject. Both
// directions use the matrices of the last completed update.
func (s *Store) clampToBounds(c *camera, pos mgl64.Vec3, st config.Settings) mgl64.Vec3 {
	dw, dh := s.display.Width, s.display.Height
	center := s.centerOffset()

	cp := Project(c.view, c.proj, pos, dw, dh)
	bl := Project(c.view, c.proj, mgl64.Vec3{st.BoundsLeft, st.BoundsBottom, 0}, dw, dh).Add(center)
	tr := Project(c.view, c.proj, mgl64.Vec3{st.BoundsRight, st.BoundsTop, 0}, dw, dh).Sub(center)

	cp[0] = math.Min(math.Max(cp[0], bl[0]), tr[0])
	cp[1] = math.Min(math.Max(cp[1], bl[1]), tr[1])

	world, err := Unproject(c.view, c.proj, cp, dw, dh)
	if err != nil {
		panic(err)
	}
	return world
}

// advanceEffects steps every active effect, drops the finished ones and
// returns the summed offset for this frame.
func (s *Store) advanceEffects(c *camera, dt float64) mgl64.Vec3 {
	var sum mgl64.Vec3
	if len(c.effects) == 0 {
		return sum
	}
	env := effectEnv{displayWidth: float64(s.display.Width), rand: s.rand}
	kept := c.effects[:0]
	for _, e := range c.effects {
		off, done := e.step(dt, env)
		if done {
			continue
		}
		sum = sum.Add(off)
		kept = append(kept, e)
	}
	c.effects = kept
	return sum
}

// lookAt builds the view matrix. The eye sits half a display behind the
// camera position along the rotated axes, so the camera position lands
// at the center of the frame; the effect offset then shifts the whole
// frame without touching the node.
func (s *Store) lookAt(pos mgl64.Vec3, rot mgl64.Quat, offset mgl64.Vec3) mgl64.Mat4 {
	eye := pos.Sub(rot.Rotate(s.centerOffset())).Add(offset)
	return mgl64.LookAtV(eye, eye.Add(rot.Rotate(forward)), rot.Rotate(up))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		lerp(a[0], b[0], t),
		lerp(a[1], b[1], t),
		lerp(a[2], b[2], t),
	}
}
