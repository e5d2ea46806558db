package config

import "github.com/notbadgun/orthocam/scene"

// Messages an Endpoint applies. They are posted to the camera's config
// topic and delivered on the next bus dispatch, so a mutation becomes
// visible to the update that follows it, never the one in flight.
//
// Deadzone and Bounds use pointer edges: the rectangle is set only when
// all four edges are present, and cleared otherwise.
type (
	// Follow starts following a scene node. A nil Lerp keeps the
	// currently configured follow lerp.
	Follow struct {
		Target scene.ID
		Lerp   *float64
	}

	// Unfollow stops following. The target is kept so a later Follow
	// with the same node can be expressed by the caller re-posting it.
	Unfollow struct{}

	// Deadzone sets or clears the follow deadzone rectangle.
	Deadzone struct {
		Left, Top, Right, Bottom *float64
	}

	// Bounds sets or clears the world bounds rectangle.
	Bounds struct {
		Left, Top, Right, Bottom *float64
	}

	// UseProjection switches the projector id. Unknown ids are kept as
	// written; resolution falls back to the default projector.
	UseProjection struct {
		Projection string
	}

	// ZoomTo sets the zoom factor.
	ZoomTo struct {
		Zoom float64
	}
)

// Endpoint owns one camera's Settings and mutates them as messages
// arrive. The camera reads a snapshot at the start of each update.
type Endpoint struct {
	s Settings
}

// NewEndpoint creates an endpoint starting from s.
func NewEndpoint(s Settings) *Endpoint {
	return &Endpoint{s: s}
}

// Settings returns a copy of the current settings.
func (e *Endpoint) Settings() Settings {
	return e.s
}

// Replace swaps in a whole new Settings value, keeping the follow target
// when the replacement does not name one. Used by hot reload.
func (e *Endpoint) Replace(s Settings) {
	if s.FollowTarget == scene.Nil {
		s.FollowTarget = e.s.FollowTarget
	}
	e.s = s
}

// Apply mutates the settings according to msg and reports whether the
// message type was recognized.
func (e *Endpoint) Apply(msg any) bool {
	switch m := msg.(type) {
	case Follow:
		e.s.Follow = true
		e.s.FollowTarget = m.Target
		if m.Lerp != nil {
			e.s.FollowLerp = *m.Lerp
		}
	case Unfollow:
		e.s.Follow = false
	case Deadzone:
		if m.Left != nil && m.Top != nil && m.Right != nil && m.Bottom != nil {
			e.s.DeadzoneLeft = *m.Left
			e.s.DeadzoneTop = *m.Top
			e.s.DeadzoneRight = *m.Right
			e.s.DeadzoneBottom = *m.Bottom
		} else {
			e.s.DeadzoneLeft, e.s.DeadzoneTop = 0, 0
			e.s.DeadzoneRight, e.s.DeadzoneBottom = 0, 0
		}
	case Bounds:
		if m.Left != nil && m.Top != nil && m.Right != nil && m.Bottom != nil {
			e.s.BoundsLeft = *m.Left
			e.s.BoundsTop = *m.Top
			e.s.BoundsRight = *m.Right
			e.s.BoundsBottom = *m.Bottom
		} else {
			e.s.BoundsLeft, e.s.BoundsTop = 0, 0
			e.s.BoundsRight, e.s.BoundsBottom = 0, 0
		}
	case UseProjection:
		e.s.Projection = m.Projection
	case ZoomTo:
		e.s.Zoom = m.Zoom
	default:
		return false
	}
	return true
}
