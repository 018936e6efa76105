package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"crosses/game"
)

// ErrNoHistory is returned by Undo when no move is left to take back.
var ErrNoHistory = errors.New("no move to undo")

// Cloner is implemented by boards that can copy themselves.
type Cloner interface {
	Clone() game.Board
}

// Game is a running match: a board, the turn order and the moves made so far.
// It is not safe for concurrent use; searches work on clones.
type Game struct {
	board   game.Board
	players game.PlayerManager
	count   int
	history []*MoveRecord
}

// NewGame starts a game of count players on a board that has already been
// through Init.
func NewGame(b game.Board, players game.PlayerManager, count int) *Game {
	return &Game{board: b, players: players, count: count}
}

func (g *Game) Board() game.Board { return g.board }

// Player is the player to move.
func (g *Game) Player() game.Player { return g.players.Current() }

func (g *Game) Players() int { return g.count }

func (g *Game) Over() bool { return g.players.Over() }

func (g *Game) Winner() (game.Player, bool) { return g.players.Winner() }

// History returns the moves made so far, oldest first.
func (g *Game) History() []*MoveRecord { return g.history }

// Play makes the current player's move at i and passes the turn on.
func (g *Game) Play(i game.Index) (*MoveRecord, error) {
	if g.Over() {
		return nil, fmt.Errorf("play at %d: game is over", i)
	}
	p := g.Player()
	rec, err := Play(g.board, i, p)
	if err != nil {
		return nil, err
	}
	if err := g.players.Advance(g.outOfMoves, g.outOfMarkers); err != nil {
		if cErr := CancelMove(g.board, rec); cErr != nil {
			return nil, fmt.Errorf("%w (cancel failed: %v)", err, cErr)
		}
		return nil, err
	}
	g.history = append(g.history, rec)
	if g.Over() {
		if w, ok := g.Winner(); ok {
			log.Debug().Msgf("%s wins after %d moves", w, len(g.history))
		} else {
			log.Debug().Msgf("Draw after %d moves", len(g.history))
		}
	}
	return rec, nil
}

// Undo takes back the last move.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrNoHistory
	}
	rec := g.history[len(g.history)-1]
	if err := CancelMove(g.board, rec); err != nil {
		return err
	}
	if err := g.players.Reverse(rec.Player); err != nil {
		return err
	}
	g.history = g.history[:len(g.history)-1]
	return nil
}

// LegalMoves lists every cell the current player may play on, in board
// order. It is empty once the game is over.
func (g *Game) LegalMoves() []game.Index {
	if g.Over() {
		return nil
	}
	p := g.Player()
	var moves []game.Index
	for _, i := range g.board.Indices() {
		if Legal(g.board, i, p) {
			moves = append(moves, i)
		}
	}
	return moves
}

// Clone returns an independent game with the same position. The board must
// implement Cloner. The history is shared up to this point but never
// mutated in place, so both games may be undone independently.
func (g *Game) Clone() *Game {
	c, ok := g.board.(Cloner)
	if !ok {
		panic(fmt.Sprintf("board %T cannot be cloned", g.board))
	}
	history := make([]*MoveRecord, len(g.history))
	for k, rec := range g.history {
		r := *rec
		history[k] = &r
	}
	return &Game{
		board:   c.Clone(),
		players: g.players.Clone(),
		count:   g.count,
		history: history,
	}
}

// Reachable is the number of cells p may currently play on.
func (g *Game) Reachable(p game.Player) int {
	if c, ok := g.board.(game.Counters); ok {
		return c.Reachable(p)
	}
	n := 0
	for _, i := range g.board.Indices() {
		if c, ok := game.CellAt(g.board, i); ok && c.IsActive(p) && !(c.Kind == game.Marker && c.Owner == p) {
			n++
		}
	}
	return n
}

// Markers is the number of markers p has on the board.
func (g *Game) Markers(p game.Player) int {
	if c, ok := g.board.(game.Counters); ok {
		return c.Markers(p)
	}
	n := 0
	for _, i := range g.board.Indices() {
		if c, ok := game.CellAt(g.board, i); ok && c.Kind == game.Marker && c.Owner == p {
			n++
		}
	}
	return n
}

func (g *Game) outOfMoves(p game.Player) bool {
	return g.Reachable(p) == 0
}

func (g *Game) outOfMarkers(p game.Player) bool {
	return g.Markers(p) == 0 && g.Reachable(p) == 0
}
