package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"crosses/game"
)

// MoveKind tells how a move changed its target cell.
type MoveKind uint8

const (
	PlaceMove   MoveKind = iota // a marker on an empty cell
	CaptureMove                 // an opponent's marker painted over
)

func (k MoveKind) String() string {
	switch k {
	case PlaceMove:
		return "place"
	case CaptureMove:
		return "capture"
	default:
		return fmt.Sprintf("move(%d)", uint8(k))
	}
}

// MoveRecord describes a move that was applied to a board: every cell whose
// state changed, with its state before and after, in the order the engine
// first touched it.
type MoveRecord struct {
	Kind    MoveKind
	Index   game.Index
	Player  game.Player
	Changes []Change

	cancelled bool
}

func (r *MoveRecord) String() string {
	return fmt.Sprintf("%s %s at %d (%d changes)", r.Player, r.Kind, r.Index, len(r.Changes))
}

// MakeMove places a marker of player p on the empty cell i and resolves the
// consequences for p's adjacent chains. It fails with ErrIndexOutOfRange,
// ErrCellNotEmpty or ErrCellNotActive, leaving the board untouched.
func MakeMove(b game.Board, i game.Index, p game.Player) (*MoveRecord, error) {
	h, err := b.Cell(i)
	if err != nil {
		return nil, reject(PlaceMove, i, p, err)
	}
	if h.Kind() != game.Empty {
		return nil, reject(PlaceMove, i, p, fmt.Errorf("%w: index %d is %s", game.ErrCellNotEmpty, i, h.Kind()))
	}
	if !h.IsActive(p) {
		return nil, reject(PlaceMove, i, p, fmt.Errorf("%w: index %d for %s", game.ErrCellNotActive, i, p))
	}
	return apply(b, PlaceMove, i, p, place)
}

// Capture paints over the marker of another player at i on behalf of p.
// The victim's chains that relied on the marker are re-evaluated and the
// painted cell joins p's adjacent chains. It fails with ErrIndexOutOfRange,
// ErrCellNotMarker, ErrSelfCapture or ErrCellNotActive.
func Capture(b game.Board, i game.Index, p game.Player) (*MoveRecord, error) {
	h, err := b.Cell(i)
	if err != nil {
		return nil, reject(CaptureMove, i, p, err)
	}
	switch {
	case h.Kind() != game.Marker:
		return nil, reject(CaptureMove, i, p, fmt.Errorf("%w: index %d is %s", game.ErrCellNotMarker, i, h.Kind()))
	case h.Owner() == p:
		return nil, reject(CaptureMove, i, p, fmt.Errorf("%w: index %d", game.ErrSelfCapture, i))
	case !h.IsActive(p):
		return nil, reject(CaptureMove, i, p, fmt.Errorf("%w: index %d for %s", game.ErrCellNotActive, i, p))
	}
	return apply(b, CaptureMove, i, p, capture)
}

// Play makes whichever move the cell at i allows for p: a marker on an empty
// cell or a capture of an opponent's marker.
func Play(b game.Board, i game.Index, p game.Player) (*MoveRecord, error) {
	h, err := b.Cell(i)
	if err != nil {
		return nil, reject(PlaceMove, i, p, err)
	}
	switch h.Kind() {
	case game.Empty:
		return MakeMove(b, i, p)
	case game.Marker:
		return Capture(b, i, p)
	case game.Painted:
		return nil, reject(PlaceMove, i, p, fmt.Errorf("%w: index %d", game.ErrCellPainted, i))
	default:
		return nil, reject(PlaceMove, i, p, fmt.Errorf("%w: index %d", game.ErrBorderHit, i))
	}
}

// Legal reports whether p may play at i.
func Legal(b game.Board, i game.Index, p game.Player) bool {
	c, ok := game.CellAt(b, i)
	if !ok || !c.IsActive(p) {
		return false
	}
	return c.Kind == game.Empty || (c.Kind == game.Marker && c.Owner != p)
}

func reject(k MoveKind, i game.Index, p game.Player, err error) error {
	log.Debug().Err(err).Msgf("Rejected %s of %s at %d", k, p, i)
	return err
}

func apply(b game.Board, k MoveKind, i game.Index, p game.Player, op func(game.Board, game.Index, game.Player) error) (*MoveRecord, error) {
	t := newTx(b)
	if err := t.run(func() error { return op(t, i, p) }); err != nil {
		log.Error().Err(err).Msgf("%s of %s at %d aborted", k, p, i)
		return nil, err
	}
	return &MoveRecord{Kind: k, Index: i, Player: p, Changes: t.changes()}, nil
}

func place(b game.Board, i game.Index, p game.Player) error {
	h, err := b.Cell(i)
	if err != nil {
		return err
	}
	if err := h.Mark(p); err != nil {
		return err
	}
	for _, n := range b.Adjacent(i) {
		if err := activate(b, n, p); err != nil {
			return err
		}
	}
	return evaluateAround(b, i, p, true)
}

func capture(b game.Board, i game.Index, p game.Player) error {
	h, err := b.Cell(i)
	if err != nil {
		return err
	}
	victim, wasAnchor := h.Owner(), h.Anchor()
	if err := h.Paint(p); err != nil {
		return err
	}

	if wasAnchor {
		if err := evaluateAround(b, i, victim, false); err != nil {
			return err
		}
	}
	for _, n := range b.Adjacent(i) {
		if err := refreshActivity(b, n, victim); err != nil {
			return err
		}
	}

	_, err = evaluateChain(b, i, p)
	return err
}

// CancelMove undoes rec on b. The record must describe the most recent move
// still applied to the board: every recorded cell has to be in its recorded
// after state, otherwise ErrRecordMismatch is returned and nothing changes.
// A record can be cancelled once; a nil, empty or already cancelled record
// fails with ErrNothingToCancel.
func CancelMove(b game.Board, rec *MoveRecord) error {
	if rec == nil || rec.cancelled || len(rec.Changes) == 0 {
		return game.ErrNothingToCancel
	}
	for _, c := range rec.Changes {
		got, ok := game.CellAt(b, c.Index)
		if !ok || got != c.After {
			err := fmt.Errorf("%w: index %d is %s, record has %s", game.ErrRecordMismatch, c.Index, got, c.After)
			log.Debug().Err(err).Msgf("Refused to cancel %s", rec)
			return err
		}
	}

	t := newTx(b)
	err := t.run(func() error {
		for k := len(rec.Changes) - 1; k >= 0; k-- {
			c := rec.Changes[k]
			h, err := t.Cell(c.Index)
			if err != nil {
				return err
			}
			if err := restore(h, c.Before); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, game.ErrRecordMismatch) {
			err = fmt.Errorf("%w: %w", game.ErrRecordMismatch, err)
		}
		log.Error().Err(err).Msgf("Cancel of %s aborted", rec)
		return err
	}
	rec.cancelled = true
	return nil
}
