package world

import "testing"

func TestGridNearby(t *testing.T) {
	g := NewGrid(10)
	pts := []Position{{0, 0}, {9, 9}, {10, 0}, {25, 0}, {19, 19}, {-3, 0}}
	for i, p := range pts {
		g.Add(i, p)
	}

	got := g.Nearby(Position{X: 0, Y: 0}, nil)
	want := []int{0, 1, 2, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Nearby = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Nearby = %v, want %v", got, want)
		}
	}
}

func TestGridCoversRadius(t *testing.T) {
	const r = 7
	g := NewGrid(r)
	center := Position{X: 50, Y: 50}
	idx := 0
	var inRange []int
	for x := 40; x <= 60; x++ {
		for y := 40; y <= 60; y++ {
			p := Position{X: x, Y: y}
			g.Add(idx, p)
			if center.Within(p, r) {
				inRange = append(inRange, idx)
			}
			idx++
		}
	}
	near := map[int]bool{}
	for _, i := range g.Nearby(center, nil) {
		near[i] = true
	}
	for _, i := range inRange {
		if !near[i] {
			t.Fatalf("index %d within %d but not returned", i, r)
		}
	}
}
