package orthocam

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/notbadgun/orthocam/config"
	"github.com/notbadgun/orthocam/scene"
)

// camera is the live state of one registered camera. view, proj and zoom
// always hold the result of the most recent completed update; Init seeds
// them so they are never the zero matrix.
type camera struct {
	id       string
	node     scene.ID
	endpoint *config.Endpoint

	view mgl64.Mat4
	proj mgl64.Mat4
	zoom float64

	snap    bool
	effects []effect
}

// putEffect adds e, replacing any active effect of the same kind. A
// replaced shake's completion callback never fires.
func (c *camera) putEffect(e effect) {
	for i := range c.effects {
		if c.effects[i].kind() == e.kind() {
			c.effects[i] = e
			return
		}
	}
	c.effects = append(c.effects, e)
}

// dropEffect removes the active effect of the given kind, if any,
// without running its completion callback.
func (c *camera) dropEffect(kind string) {
	for i := range c.effects {
		if c.effects[i].kind() == kind {
			c.effects = append(c.effects[:i], c.effects[i+1:]...)
			return
		}
	}
}

func (c *camera) hasEffect(kind string) bool {
	for _, e := range c.effects {
		if e.kind() == kind {
			return true
		}
	}
	return false
}
