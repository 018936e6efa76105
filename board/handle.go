package board

import "crosses/game"

// tally keeps the per-player counters of a board. It is updated from the
// difference between a cell's state before and after every mutation, so
// replaying mutations backwards restores it exactly.
type tally struct {
	reachable [game.MaxPlayers]int
	markers   [game.MaxPlayers]int
}

func (t *tally) update(before, after game.Cell) {
	if before == after {
		return
	}
	for p := game.Player(0); p < game.MaxPlayers; p++ {
		t.reachable[p] += reachable(after, p) - reachable(before, p)
		t.markers[p] += owns(after, p) - owns(before, p)
	}
}

// Reachable is the number of cells player p may currently play on.
func (t *tally) Reachable(p game.Player) int { return t.reachable[p] }

// Markers is the number of markers player p has on the board.
func (t *tally) Markers(p game.Player) int { return t.markers[p] }

func reachable(c game.Cell, p game.Player) int {
	if c.IsActive(p) && !(c.Kind == game.Marker && c.Owner == p) {
		return 1
	}
	return 0
}

func owns(c game.Cell, p game.Player) int {
	if c.Kind == game.Marker && c.Owner == p {
		return 1
	}
	return 0
}

// handle is the CellHandle of both grid implementations: it mutates the
// stored cell and keeps the board's tally in step.
type handle struct {
	cell  *game.Cell
	tally *tally
}

func (h handle) Cell() game.Cell             { return *h.cell }
func (h handle) Kind() game.Kind             { return h.cell.Kind }
func (h handle) Owner() game.Player          { return h.cell.Owner }
func (h handle) Previous() game.Player       { return h.cell.Previous }
func (h handle) Status() game.Status         { return h.cell.Status }
func (h handle) IsActive(p game.Player) bool { return h.cell.IsActive(p) }
func (h handle) Anchor() bool                { return h.cell.Anchor }

func (h handle) apply(op func(c *game.Cell) error) error {
	before := *h.cell
	if err := op(h.cell); err != nil {
		return err
	}
	h.tally.update(before, *h.cell)
	return nil
}

func (h handle) Mark(p game.Player) error {
	return h.apply(func(c *game.Cell) error { return c.Mark(p) })
}

func (h handle) Unmark() error {
	return h.apply((*game.Cell).Unmark)
}

func (h handle) Paint(p game.Player) error {
	return h.apply(func(c *game.Cell) error { return c.Paint(p) })
}

func (h handle) Unpaint() error {
	return h.apply((*game.Cell).Unpaint)
}

func (h handle) SetActive(p game.Player, v bool) error {
	return h.apply(func(c *game.Cell) error { return c.SetActive(p, v) })
}

func (h handle) SetAnchor(v bool) error {
	return h.apply(func(c *game.Cell) error { return c.SetAnchor(v) })
}

func (h handle) SetStatus(s game.Status) error {
	return h.apply(func(c *game.Cell) error { return c.SetStatus(s) })
}
