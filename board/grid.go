package board

import (
	"fmt"

	"crosses/game"
)

// Grid is a rectangular board stored as a flat slice of cells.
type Grid struct {
	layout
	cells []game.Cell
	tally *tally
}

// NewGrid returns a width x height board of Empty cells with no activity,
// ready for engine.Init.
func NewGrid(width, height int, options ...Option) *Grid {
	l := newLayout(width, height, options...)
	g := &Grid{
		layout: l,
		cells:  make([]game.Cell, l.Size()),
		tally:  &tally{},
	}
	for i := range g.cells {
		if l.onRing(i) {
			g.cells[i] = game.NewBorder()
		}
	}
	return g
}

// Cell returns a handle to the cell at i.
func (g *Grid) Cell(i game.Index) (game.CellHandle, error) {
	if !g.contains(i) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", game.ErrIndexOutOfRange, i, g.Size())
	}
	return handle{cell: &g.cells[i], tally: g.tally}, nil
}

// Traverse runs the generic chain walk.
func (g *Grid) Traverse(start game.Index, s game.Strategy) (game.Index, bool, error) {
	return game.Traverse(g, start, s)
}

// Reachable is the number of cells player p may currently play on.
func (g *Grid) Reachable(p game.Player) int { return g.tally.Reachable(p) }

// Markers is the number of markers player p has on the board.
func (g *Grid) Markers(p game.Player) int { return g.tally.Markers(p) }

// Snapshot returns a copy of every cell, indexed like the board.
func (g *Grid) Snapshot() []game.Cell {
	cells := make([]game.Cell, len(g.cells))
	copy(cells, g.cells)
	return cells
}

// Clone returns an independent copy of the board.
func (g *Grid) Clone() game.Board {
	t := *g.tally
	return &Grid{
		layout: g.layout,
		cells:  g.Snapshot(),
		tally:  &t,
	}
}

func (g *Grid) String() string {
	return g.render(func(i game.Index) game.Cell { return g.cells[i] })
}
