package world

import (
	"errors"
	"fmt"
)

var ErrOutOfBounds = errors.New("coordinates out of bounds")

// Position is a grid cell.
type Position struct {
	X, Y int
}

// DistSq returns the squared Euclidean distance between p and o.
func (p Position) DistSq(o Position) int64 {
	dx := int64(p.X) - int64(o.X)
	dy := int64(p.Y) - int64(o.Y)
	return dx*dx + dy*dy
}

// Within reports whether o lies at most distance away from p.
func (p Position) Within(o Position, distance int) bool {
	d := int64(distance)
	return p.DistSq(o) <= d*d
}

// Bounds is the arena size; valid cells are [0,Width) x [0,Height).
type Bounds struct {
	Width, Height int
}

func (b Bounds) Contains(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Check returns ErrOutOfBounds (wrapped with the offending cell) when p is
// outside b.
func (b Bounds) Check(p Position) error {
	if !b.Contains(p) {
		return fmt.Errorf("%w: {%d, %d} not in %dx%d", ErrOutOfBounds, p.X, p.Y, b.Width, b.Height)
	}
	return nil
}

// Clamp pulls p onto the nearest valid cell.
func (b Bounds) Clamp(p Position) Position {
	return Position{X: clamp(p.X, 0, b.Width-1), Y: clamp(p.Y, 0, b.Height-1)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
