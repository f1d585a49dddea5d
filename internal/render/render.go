package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/l1jgo/arena/internal/world"
)

// FrameSink receives rendered frames.
type FrameSink interface {
	Publish(frame string)
}

// Symbols maps a kind to its one-character map glyph.
type Symbols interface {
	Symbol(k world.Kind) byte
}

// Frame draws the live actors on a Width x Height character grid under a
// status line. Empty cells are '.'; when actors share a cell the later one
// in the snapshot is drawn.
func Frame(actors []*world.Actor, b world.Bounds, sym Symbols, secondsLeft int) string {
	grid := make([][]byte, b.Height)
	for y := range grid {
		grid[y] = bytes.Repeat([]byte{'.'}, b.Width)
	}

	alive := 0
	for _, a := range actors {
		p, ok := a.State()
		if !ok {
			continue
		}
		alive++
		if b.Contains(p) {
			grid[p.Y][p.X] = sym.Symbol(a.Kind())
		}
	}

	var sb strings.Builder
	sb.Grow((b.Width + 1) * (b.Height + 1))
	fmt.Fprintf(&sb, "Seconds left: %d | Alive: %d\n", secondsLeft, alive)
	for _, row := range grid {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Survivors lists every live actor as "<name> (<Kind>) at {x, y}".
func Survivors(actors []*world.Actor) string {
	var sb strings.Builder
	sb.WriteString("\n=== Survivors ===\n")
	for _, a := range actors {
		p, ok := a.State()
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s (%s) at {%d, %d}\n", a.Name(), a.Kind(), p.X, p.Y)
	}
	return sb.String()
}

// Roster lists every member, dead or alive, as "<Kind>: <name> {x, y}".
func Roster(actors []*world.Actor) string {
	var sb strings.Builder
	sb.WriteString("--- Arena Objects ---\n")
	for _, a := range actors {
		p := a.Position()
		fmt.Fprintf(&sb, "%s: %s {%d, %d}\n", a.Kind(), a.Name(), p.X, p.Y)
	}
	return sb.String()
}
