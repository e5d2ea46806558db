package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"

	"github.com/notbadgun/orthocam"
	"github.com/notbadgun/orthocam/scene"
)

const (
	gravity   = -1200
	moveSpeed = 260
	jumpSpeed = 560

	playerW = 24
	playerH = 36

	levelLeft   = 0
	levelRight  = 2000
	levelTop    = 1000
	levelBottom = 0
)

// World is a small chipmunk playground: a walled level with a few
// platforms and one keyboard-driven player body. The player's position
// is mirrored onto a scene node every step so cameras can follow it.
type World struct {
	space  *cp.Space
	player *cp.Body
	node   scene.ID

	platforms []orthocam.Rect
}

func NewWorld(graph *scene.Graph) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	platforms := []orthocam.Rect{
		{Left: levelLeft - 60, Top: 40, Right: levelRight + 60, Bottom: levelBottom - 60},
		{Left: levelLeft - 60, Top: levelTop, Right: levelLeft, Bottom: levelBottom},
		{Left: levelRight, Top: levelTop, Right: levelRight + 60, Bottom: levelBottom},
		{Left: 300, Top: 200, Right: 560, Bottom: 170},
		{Left: 700, Top: 330, Right: 960, Bottom: 300},
		{Left: 1120, Top: 220, Right: 1400, Bottom: 190},
		{Left: 1560, Top: 380, Right: 1820, Bottom: 350},
	}
	for _, p := range platforms {
		bb := cp.BB{L: p.Left, B: p.Bottom, R: p.Right, T: p.Top}
		shape := cp.NewBox2(space.StaticBody, bb, 0)
		shape.SetFriction(0.9)
		space.AddShape(shape)
	}

	body := cp.NewBody(1, cp.INFINITY)
	body.SetPosition(cp.Vector{X: 200, Y: 120})
	shape := cp.NewBox(body, playerW, playerH, 0)
	shape.SetFriction(0.9)
	space.AddBody(body)
	space.AddShape(shape)

	node := graph.Spawn(scene.Nil)
	w := &World{space: space, player: body, node: node, platforms: platforms}
	w.sync(graph)
	return w
}

// PlayerNode is the scene node tracking the player body.
func (w *World) PlayerNode() scene.ID { return w.node }

// Platforms returns the static level geometry in world space.
func (w *World) Platforms() []orthocam.Rect { return w.platforms }

// PlayerRect returns the player's box in world space.
func (w *World) PlayerRect() orthocam.Rect {
	p := w.player.Position()
	return orthocam.Rect{
		Left:   p.X - playerW/2,
		Top:    p.Y + playerH/2,
		Right:  p.X + playerW/2,
		Bottom: p.Y - playerH/2,
	}
}

// Update reads the keyboard, steps the simulation and mirrors the
// player onto its scene node.
func (w *World) Update(graph *scene.Graph, dt float64) {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	jump := ebiten.IsKeyPressed(ebiten.KeySpace)

	vel := w.player.Velocity()
	vel.X = 0
	if left {
		vel.X -= moveSpeed
	}
	if right {
		vel.X += moveSpeed
	}
	if jump && w.onGround() {
		vel.Y = jumpSpeed
	}
	w.player.SetVelocityVector(vel)

	w.space.Step(dt)
	w.sync(graph)
}

// onGround approximates ground contact by vertical stillness, which
// holds for a box resting on the flat platforms here.
func (w *World) onGround() bool {
	return math.Abs(w.player.Velocity().Y) < 1e-3
}

func (w *World) sync(graph *scene.Graph) {
	p := w.player.Position()
	graph.SetLocalPosition(w.node, mgl64.Vec3{p.X, p.Y, 0})
}
