// Package scene is a minimal transform hierarchy: nodes with a parent link,
// a local position and a local rotation. World transforms are composed up
// the parent chain on read. It is the coordinate source the camera package
// follows and writes back to.
package scene

import "github.com/go-gl/mathgl/mgl64"

type node struct {
	gen    generation
	alive  bool
	parent ID
	pos    mgl64.Vec3
	rot    mgl64.Quat
}

// Graph owns nodes and their transforms. Handles are generational, so a
// destroyed node's ID stays dead even after its slot is reused.
type Graph struct {
	nodes []node
	free  []nodeIndex
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Spawn allocates a node under parent. Pass Nil for a root-level node.
// Spawn panics if parent is neither Nil nor alive.
func (g *Graph) Spawn(parent ID) ID {
	if parent != Nil && !g.Alive(parent) {
		panic("scene: spawn under dead parent")
	}
	var idx nodeIndex
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		g.nodes = append(g.nodes, node{})
		idx = nodeIndex(len(g.nodes))
	}
	n := &g.nodes[idx-1]
	n.alive = true
	n.parent = parent
	n.pos = mgl64.Vec3{}
	n.rot = mgl64.QuatIdent()
	return makeID(idx, n.gen)
}

// Destroy removes a node and every descendant. It reports whether id named
// a live node.
func (g *Graph) Destroy(id ID) bool {
	if !g.Alive(id) {
		return false
	}
	pending := []ID{id}
	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]
		for i := range g.nodes {
			n := &g.nodes[i]
			if n.alive && n.parent == cur {
				pending = append(pending, makeID(nodeIndex(i+1), n.gen))
			}
		}
		g.release(cur)
	}
	return true
}

func (g *Graph) release(id ID) {
	n := &g.nodes[id.index()-1]
	n.alive = false
	n.gen++
	g.free = append(g.free, id.index())
}

// Alive reports whether id names a live node in this graph.
func (g *Graph) Alive(id ID) bool {
	idx := id.index()
	if idx == 0 || int(idx) > len(g.nodes) {
		return false
	}
	n := &g.nodes[idx-1]
	return n.alive && n.gen == id.generation()
}

func (g *Graph) lookup(id ID) *node {
	if !g.Alive(id) {
		return nil
	}
	return &g.nodes[id.index()-1]
}

// Parent returns the parent handle of id.
func (g *Graph) Parent(id ID) (ID, bool) {
	n := g.lookup(id)
	if n == nil {
		return Nil, false
	}
	return n.parent, true
}

// SetLocalPosition writes the node's position relative to its parent.
// Writes to dead nodes are ignored.
func (g *Graph) SetLocalPosition(id ID, p mgl64.Vec3) {
	if n := g.lookup(id); n != nil {
		n.pos = p
	}
}

// LocalPosition reads the node's position relative to its parent.
func (g *Graph) LocalPosition(id ID) (mgl64.Vec3, bool) {
	n := g.lookup(id)
	if n == nil {
		return mgl64.Vec3{}, false
	}
	return n.pos, true
}

// SetLocalRotation writes the node's rotation relative to its parent.
// Writes to dead nodes are ignored.
func (g *Graph) SetLocalRotation(id ID, q mgl64.Quat) {
	if n := g.lookup(id); n != nil {
		n.rot = q
	}
}

// LocalRotation reads the node's rotation relative to its parent.
func (g *Graph) LocalRotation(id ID) (mgl64.Quat, bool) {
	n := g.lookup(id)
	if n == nil {
		return mgl64.QuatIdent(), false
	}
	return n.rot, true
}

// WorldPosition composes the node's position through its parent chain.
func (g *Graph) WorldPosition(id ID) (mgl64.Vec3, bool) {
	n := g.lookup(id)
	if n == nil {
		return mgl64.Vec3{}, false
	}
	pos := n.pos
	for p := g.lookup(n.parent); p != nil; p = g.lookup(p.parent) {
		pos = p.pos.Add(p.rot.Rotate(pos))
	}
	return pos, true
}

// WorldRotation composes the node's rotation through its parent chain.
func (g *Graph) WorldRotation(id ID) (mgl64.Quat, bool) {
	n := g.lookup(id)
	if n == nil {
		return mgl64.QuatIdent(), false
	}
	rot := n.rot
	for p := g.lookup(n.parent); p != nil; p = g.lookup(p.parent) {
		rot = p.rot.Mul(rot)
	}
	return rot, true
}
