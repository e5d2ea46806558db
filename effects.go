package orthocam

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction selects the axes a shake moves the camera on.
type Direction int

const (
	ShakeBoth Direction = iota
	ShakeHorizontal
	ShakeVertical
)

// horizontal reports whether the x axis shakes. Everything except
// ShakeVertical does, so out-of-range values behave like ShakeBoth.
func (d Direction) horizontal() bool { return d != ShakeVertical }

// vertical reports whether the y axis shakes.
func (d Direction) vertical() bool { return d != ShakeHorizontal }

// Effect parameters used when a trigger passes zero values.
const (
	DefaultShakeIntensity = 0.05
	DefaultShakeDuration  = 0.5
	DefaultRecoilDuration = 0.5
)

const (
	effectShake  = "shake"
	effectRecoil = "recoil"
)

// effect is a time-limited positional offset on a camera. step advances
// it by dt and returns the offset to apply this frame; done marks the
// effect for removal.
type effect interface {
	kind() string
	step(dt float64, env effectEnv) (offset mgl64.Vec3, done bool)
}

// effectEnv is the read-only state effects may consult while stepping.
type effectEnv struct {
	displayWidth float64
	rand         *rand.Rand
}

type shakeEffect struct {
	intensity float64
	timeLeft  float64
	dir       Direction
	done      func()
}

func (e *shakeEffect) kind() string { return effectShake }

// step resamples the offset every tick; shake is noise, not a spring.
// Both axes scale by display width so a shake feels the same on any
// aspect ratio.
func (e *shakeEffect) step(dt float64, env effectEnv) (mgl64.Vec3, bool) {
	e.timeLeft -= dt
	if e.timeLeft < 0 {
		if e.done != nil {
			e.done()
		}
		return mgl64.Vec3{}, true
	}
	amp := env.displayWidth * e.intensity
	var off mgl64.Vec3
	if e.dir.horizontal() {
		off[0] = amp * (env.rand.Float64() - 0.5)
	}
	if e.dir.vertical() {
		off[1] = amp * (env.rand.Float64() - 0.5)
	}
	return off, false
}

type recoilEffect struct {
	offset   mgl64.Vec3
	duration float64
	timeLeft float64
}

func (e *recoilEffect) kind() string { return effectRecoil }

// step decays the offset linearly from the trigger value to zero over
// the duration. No completion callback.
func (e *recoilEffect) step(dt float64, _ effectEnv) (mgl64.Vec3, bool) {
	e.timeLeft -= dt
	if e.timeLeft < 0 {
		return mgl64.Vec3{}, true
	}
	return e.offset.Mul(e.timeLeft / e.duration), false
}
