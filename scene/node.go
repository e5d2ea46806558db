package scene

import "strconv"

// ID is a handle to a node in a Graph. The zero ID never names a node.
type ID uint64

type nodeIndex uint32
type generation uint32

const nodeIndexBits = 32

// Nil is the absent node, used as the parent of root-level nodes.
const Nil ID = 0

func makeID(idx nodeIndex, gen generation) ID {
	return ID(uint64(gen)<<nodeIndexBits | uint64(idx))
}

func (id ID) index() nodeIndex {
	return nodeIndex(uint32(id))
}

func (id ID) generation() generation {
	return generation(uint32(uint64(id) >> nodeIndexBits))
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Valid reports whether the handle could ever name a node. It does not
// check liveness; see Graph.Alive.
func (id ID) Valid() bool {
	return id.index() > 0
}
