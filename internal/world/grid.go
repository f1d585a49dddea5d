package world

import "sort"

// Grid buckets indices into square cells for neighbour queries. Cell size
// is chosen so that a 3x3 neighbourhood of cells covers the query radius.
// Built fresh from a snapshot each tick; not safe for concurrent use.
type Grid struct {
	size  int
	cells map[cellKey][]int
}

type cellKey struct{ cx, cy int }

// NewGrid returns a grid whose Nearby covers any radius up to cellSize.
func NewGrid(cellSize int) *Grid {
	if cellSize < 1 {
		cellSize = 1
	}
	return &Grid{size: cellSize, cells: make(map[cellKey][]int)}
}

func (g *Grid) cell(v int) int {
	if v < 0 {
		return (v - g.size + 1) / g.size
	}
	return v / g.size
}

func (g *Grid) key(p Position) cellKey {
	return cellKey{cx: g.cell(p.X), cy: g.cell(p.Y)}
}

// Add places idx at p.
func (g *Grid) Add(idx int, p Position) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], idx)
}

// Nearby appends to dst every index in the 3x3 cells around p, ascending.
// Callers filter by exact distance.
func (g *Grid) Nearby(p Position, dst []int) []int {
	start := len(dst)
	c := g.key(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			dst = append(dst, g.cells[cellKey{cx: c.cx + dx, cy: c.cy + dy}]...)
		}
	}
	sort.Ints(dst[start:])
	return dst
}
