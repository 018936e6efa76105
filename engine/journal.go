package engine

import (
	"fmt"

	"crosses/game"
)

// Change is the state of one cell before and after a move.
type Change struct {
	Index  game.Index
	Before game.Cell
	After  game.Cell
}

// tx is a journaled view of a board: every cell is snapshotted the first
// time it is mutated, so the operation can be rolled back or described as a
// list of changes afterwards. tx is itself a game.Board, and strategies run
// through it so their mutations are journaled too.
type tx struct {
	board  game.Board
	order  []game.Index
	before map[game.Index]game.Cell
}

func newTx(b game.Board) *tx {
	return &tx{board: b, before: make(map[game.Index]game.Cell)}
}

func (t *tx) Cell(i game.Index) (game.CellHandle, error) {
	h, err := t.board.Cell(i)
	if err != nil {
		return nil, err
	}
	return recorder{CellHandle: h, tx: t, index: i}, nil
}

func (t *tx) Adjacent(i game.Index) []game.Index {
	return t.board.Adjacent(i)
}

func (t *tx) Indices() []game.Index {
	return t.board.Indices()
}

// Traverse defers to the board's own walk, handing the strategy the journal
// instead of the bare board.
func (t *tx) Traverse(start game.Index, s game.Strategy) (game.Index, bool, error) {
	return t.board.Traverse(start, journaled{Strategy: s, tx: t})
}

func (t *tx) touch(i game.Index, c game.Cell) {
	if _, ok := t.before[i]; ok {
		return
	}
	t.before[i] = c
	t.order = append(t.order, i)
}

// changes lists the cells that differ from their snapshot, in the order they
// were first touched.
func (t *tx) changes() []Change {
	changes := make([]Change, 0, len(t.order))
	for _, i := range t.order {
		after, _ := game.CellAt(t.board, i)
		if before := t.before[i]; before != after {
			changes = append(changes, Change{Index: i, Before: before, After: after})
		}
	}
	return changes
}

// rollback restores every touched cell, last touched first.
func (t *tx) rollback() error {
	for k := len(t.order) - 1; k >= 0; k-- {
		i := t.order[k]
		h, err := t.board.Cell(i)
		if err != nil {
			return err
		}
		if err := restore(h, t.before[i]); err != nil {
			return fmt.Errorf("rollback of index %d: %w", i, err)
		}
	}
	t.order = t.order[:0]
	clear(t.before)
	return nil
}

// run executes op inside the journal. If op fails, everything it changed is
// rolled back before the error is returned.
func (t *tx) run(op func() error) error {
	err := op()
	if err == nil {
		return nil
	}
	if rbErr := t.rollback(); rbErr != nil {
		return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
	}
	return err
}

// recorder snapshots its cell before the first mutation.
type recorder struct {
	game.CellHandle
	tx    *tx
	index game.Index
}

func (r recorder) touch() {
	r.tx.touch(r.index, r.CellHandle.Cell())
}

func (r recorder) Mark(p game.Player) error {
	r.touch()
	return r.CellHandle.Mark(p)
}

func (r recorder) Unmark() error {
	r.touch()
	return r.CellHandle.Unmark()
}

func (r recorder) Paint(p game.Player) error {
	r.touch()
	return r.CellHandle.Paint(p)
}

func (r recorder) Unpaint() error {
	r.touch()
	return r.CellHandle.Unpaint()
}

func (r recorder) SetActive(p game.Player, v bool) error {
	r.touch()
	return r.CellHandle.SetActive(p, v)
}

func (r recorder) SetAnchor(v bool) error {
	r.touch()
	return r.CellHandle.SetAnchor(v)
}

func (r recorder) SetStatus(s game.Status) error {
	r.touch()
	return r.CellHandle.SetStatus(s)
}

type journaled struct {
	game.Strategy
	tx *tx
}

func (j journaled) Visited(_ game.Board, i game.Index) bool {
	return j.Strategy.Visited(j.tx, i)
}

func (j journaled) Process(_ game.Board, i game.Index) game.Flow {
	return j.Strategy.Process(j.tx, i)
}

// restore brings the cell behind h back to want, going backwards through the
// transitions (Painted -> Marker -> Empty) where the kinds differ and then
// resetting the remaining fields.
func restore(h game.CellHandle, want game.Cell) error {
	if err := rewind(h, want); err != nil {
		return err
	}

	switch want.Kind {
	case game.Empty, game.Marker:
		for p := game.Player(0); p < game.MaxPlayers; p++ {
			if v := want.Active.Has(p); h.Cell().Active.Has(p) != v {
				if err := h.SetActive(p, v); err != nil {
					return err
				}
			}
		}
		if want.Kind == game.Marker && h.Anchor() != want.Anchor {
			if err := h.SetAnchor(want.Anchor); err != nil {
				return err
			}
		}
	case game.Painted:
		if h.Status() != want.Status {
			if err := h.SetStatus(want.Status); err != nil {
				return err
			}
		}
	}

	if got := h.Cell(); got != want {
		return fmt.Errorf("%w: restored %s, want %s", game.ErrRecordMismatch, got, want)
	}
	return nil
}

func rewind(h game.CellHandle, want game.Cell) error {
	have := h.Kind()
	switch {
	case have == want.Kind:
		return nil
	case have == game.Painted && want.Kind == game.Marker:
		return h.Unpaint()
	case have == game.Marker && want.Kind == game.Empty:
		return h.Unmark()
	case have == game.Painted && want.Kind == game.Empty:
		if err := h.Unpaint(); err != nil {
			return err
		}
		return h.Unmark()
	case have == game.Empty && want.Kind == game.Marker:
		return h.Mark(want.Owner)
	case have == game.Marker && want.Kind == game.Painted:
		return h.Paint(want.Owner)
	case have == game.Empty && want.Kind == game.Painted:
		if err := h.Mark(want.Previous); err != nil {
			return err
		}
		return h.Paint(want.Owner)
	default:
		return fmt.Errorf("%w: cannot turn %s into %s", game.ErrRecordMismatch, have, want.Kind)
	}
}
