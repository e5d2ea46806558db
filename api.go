package orthocam

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/notbadgun/orthocam/config"
	"github.com/notbadgun/orthocam/scene"
)

// Follow asks the camera to follow target, keeping the configured lerp
// weight. Like all configuration calls it is fire-and-forget: the change
// lands on the next bus dispatch and shows up in the update after that.
func (s *Store) Follow(id string, target scene.ID) {
	mustID(id)
	s.bus.Post(Topic(id), config.Follow{Target: target})
}

// FollowWithLerp follows target and sets the follow lerp weight. A weight
// of 1 snaps to the target every update; smaller weights trail it.
func (s *Store) FollowWithLerp(id string, target scene.ID, lerp float64) {
	mustID(id)
	s.bus.Post(Topic(id), config.Follow{Target: target, Lerp: &lerp})
}

// Unfollow stops following. The camera keeps its position.
func (s *Store) Unfollow(id string) {
	mustID(id)
	s.bus.Post(Topic(id), config.Unfollow{})
}

// SetDeadzone configures the rectangle around the camera position inside
// which the follow target moves freely. Edges are world-space distances
// from the camera center.
func (s *Store) SetDeadzone(id string, left, top, right, bottom float64) {
	mustID(id)
	s.bus.Post(Topic(id), config.Deadzone{Left: &left, Top: &top, Right: &right, Bottom: &bottom})
}

// ClearDeadzone removes the deadzone; following tracks the target
// position directly again.
func (s *Store) ClearDeadzone(id string) {
	mustID(id)
	s.bus.Post(Topic(id), config.Deadzone{})
}

// SetBounds confines the camera frame to a world-space rectangle.
func (s *Store) SetBounds(id string, left, top, right, bottom float64) {
	mustID(id)
	s.bus.Post(Topic(id), config.Bounds{Left: &left, Top: &top, Right: &right, Bottom: &bottom})
}

// ClearBounds removes the world bounds.
func (s *Store) ClearBounds(id string) {
	mustID(id)
	s.bus.Post(Topic(id), config.Bounds{})
}

// UseProjection switches the camera's projector. Unknown ids resolve to
// the default projector at update time.
func (s *Store) UseProjection(id string, projector string) {
	mustID(id)
	s.bus.Post(Topic(id), config.UseProjection{Projection: projector})
}

// Shake starts a shake, replacing any active one without firing its
// callback. Zero intensity or duration select DefaultShakeIntensity and
// DefaultShakeDuration. done, if non-nil, runs once when the shake
// expires on its own.
func (s *Store) Shake(id string, intensity, duration float64, dir Direction, done func()) {
	c := s.mustCamera(id)
	if intensity <= 0 {
		intensity = DefaultShakeIntensity
	}
	if duration <= 0 {
		duration = DefaultShakeDuration
	}
	c.putEffect(&shakeEffect{intensity: intensity, timeLeft: duration, dir: dir, done: done})
}

// StopShaking removes an active shake without firing its callback.
// No-op when the camera is not shaking.
func (s *Store) StopShaking(id string) {
	s.mustCamera(id).dropEffect(effectShake)
}

// Recoil kicks the view by offset and decays it linearly to zero over
// duration. Replaces any active recoil. Zero duration selects
// DefaultRecoilDuration.
func (s *Store) Recoil(id string, offset mgl64.Vec3, duration float64) {
	c := s.mustCamera(id)
	if duration <= 0 {
		duration = DefaultRecoilDuration
	}
	c.putEffect(&recoilEffect{offset: offset, duration: duration, timeLeft: duration})
}

// Snap makes the camera's next update land exactly on the follow target,
// skipping the lerp once. Use it after teleports and level changes.
func (s *Store) Snap(id string) {
	s.mustCamera(id).snap = true
}

// WorldToScreen converts a world-space point through the camera's stored
// matrices.
func (s *Store) WorldToScreen(id string, world mgl64.Vec3) mgl64.Vec3 {
	c := s.mustCamera(id)
	return Project(c.view, c.proj, world, s.display.Width, s.display.Height)
}

// ScreenToWorld converts a screen-space point through the camera's
// stored matrices. The screen point's z rides through the conversion, so
// passing a point produced by WorldToScreen recovers the original world
// point. A singular matrix is an invariant violation and panics.
func (s *Store) ScreenToWorld(id string, screen mgl64.Vec3) mgl64.Vec3 {
	c := s.mustCamera(id)
	world, err := Unproject(c.view, c.proj, screen, s.display.Width, s.display.Height)
	if err != nil {
		panic(err)
	}
	return world
}

// WorldBounds returns the world-space rectangle visible through the
// camera as of its last update.
func (s *Store) WorldBounds(id string) Rect {
	c := s.mustCamera(id)
	r, err := WorldBoundsOf(c.view, c.proj, s.display.Width, s.display.Height)
	if err != nil {
		panic(err)
	}
	return r
}
