package layout

import "github.com/frankfika/thanksgiving/internal/star"

// Position is a node's current canvas position.
type Position struct {
	X, Y float64
}

// Velocity is a node's per-tick displacement.
type Velocity struct {
	X, Y float64
}

// Body holds the per-node constants the forces need.
type Body struct {
	Radius float64 // collision radius
	Phase  float64 // drift phase offset
}

// Pin fixes a node while it is dragged. Only pinned nodes carry it.
type Pin struct {
	X, Y float64
}

// Node is a read-only snapshot of one simulated star.
type Node struct {
	Star   star.Record
	X, Y   float64
	VX, VY float64
	Radius float64
	Pinned bool
}

// ID returns the star id the node is joined on.
func (n Node) ID() string { return n.Star.ID }
