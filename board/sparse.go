package board

import (
	"fmt"

	"crosses/game"
)

// Sparse is a rectangular board that only stores cells that differ from
// their initial state, keyed by index. Most of a large board stays empty for
// the whole game, so memory grows with the number of touched cells.
type Sparse struct {
	layout
	cells map[game.Index]*game.Cell
	tally *tally
}

// NewSparse returns a width x height board with the same contents NewGrid
// would produce.
func NewSparse(width, height int, options ...Option) *Sparse {
	return &Sparse{
		layout: newLayout(width, height, options...),
		cells:  make(map[game.Index]*game.Cell),
		tally:  &tally{},
	}
}

func (s *Sparse) initial(i game.Index) game.Cell {
	if s.onRing(i) {
		return game.NewBorder()
	}
	return game.Cell{}
}

func (s *Sparse) get(i game.Index) game.Cell {
	if c, ok := s.cells[i]; ok {
		return *c
	}
	return s.initial(i)
}

// Cell returns a handle to the cell at i. Reading through the handle never
// stores anything; the cell is materialized on its first mutation.
func (s *Sparse) Cell(i game.Index) (game.CellHandle, error) {
	if !s.contains(i) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", game.ErrIndexOutOfRange, i, s.Size())
	}
	if c, ok := s.cells[i]; ok {
		return handle{cell: c, tally: s.tally}, nil
	}
	return lazyHandle{sparse: s, index: i}, nil
}

// store returns the stored cell at i, materializing it if needed.
func (s *Sparse) store(i game.Index) handle {
	c, ok := s.cells[i]
	if !ok {
		initial := s.initial(i)
		c = &initial
		s.cells[i] = c
	}
	return handle{cell: c, tally: s.tally}
}

// lazyHandle stands for a cell of a Sparse board that was not stored when
// the handle was made.
type lazyHandle struct {
	sparse *Sparse
	index  game.Index
}

func (h lazyHandle) Cell() game.Cell             { return h.sparse.get(h.index) }
func (h lazyHandle) Kind() game.Kind             { return h.Cell().Kind }
func (h lazyHandle) Owner() game.Player          { return h.Cell().Owner }
func (h lazyHandle) Previous() game.Player       { return h.Cell().Previous }
func (h lazyHandle) Status() game.Status         { return h.Cell().Status }
func (h lazyHandle) IsActive(p game.Player) bool { return h.Cell().IsActive(p) }
func (h lazyHandle) Anchor() bool                { return h.Cell().Anchor }

// mutate runs op on a copy first, so a rejected or no-op mutation stores
// nothing.
func (h lazyHandle) mutate(op func(c *game.Cell) error) error {
	before := h.Cell()
	after := before
	if err := op(&after); err != nil {
		return err
	}
	if after == before {
		return nil
	}
	return h.sparse.store(h.index).apply(op)
}

func (h lazyHandle) Mark(p game.Player) error {
	return h.mutate(func(c *game.Cell) error { return c.Mark(p) })
}

func (h lazyHandle) Unmark() error {
	return h.mutate((*game.Cell).Unmark)
}

func (h lazyHandle) Paint(p game.Player) error {
	return h.mutate(func(c *game.Cell) error { return c.Paint(p) })
}

func (h lazyHandle) Unpaint() error {
	return h.mutate((*game.Cell).Unpaint)
}

func (h lazyHandle) SetActive(p game.Player, v bool) error {
	return h.mutate(func(c *game.Cell) error { return c.SetActive(p, v) })
}

func (h lazyHandle) SetAnchor(v bool) error {
	return h.mutate(func(c *game.Cell) error { return c.SetAnchor(v) })
}

func (h lazyHandle) SetStatus(s game.Status) error {
	return h.mutate(func(c *game.Cell) error { return c.SetStatus(s) })
}

// Traverse runs the generic chain walk.
func (s *Sparse) Traverse(start game.Index, st game.Strategy) (game.Index, bool, error) {
	return game.Traverse(s, start, st)
}

// Reachable is the number of cells player p may currently play on.
func (s *Sparse) Reachable(p game.Player) int { return s.tally.Reachable(p) }

// Markers is the number of markers player p has on the board.
func (s *Sparse) Markers(p game.Player) int { return s.tally.Markers(p) }

// Stored returns how many cells are held in the map.
func (s *Sparse) Stored() int {
	return len(s.cells)
}

// Compact drops stored cells that are back in their initial state.
func (s *Sparse) Compact() {
	for i, c := range s.cells {
		if *c == s.initial(i) {
			delete(s.cells, i)
		}
	}
}

// Snapshot returns a copy of every cell, indexed like the board.
func (s *Sparse) Snapshot() []game.Cell {
	cells := make([]game.Cell, s.Size())
	for i := range cells {
		cells[i] = s.get(i)
	}
	return cells
}

// Clone returns an independent copy of the board.
func (s *Sparse) Clone() game.Board {
	cells := make(map[game.Index]*game.Cell, len(s.cells))
	for i, c := range s.cells {
		cell := *c
		cells[i] = &cell
	}
	t := *s.tally
	return &Sparse{
		layout: s.layout,
		cells:  cells,
		tally:  &t,
	}
}

func (s *Sparse) String() string {
	return s.render(s.get)
}
