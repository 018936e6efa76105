package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"crosses/game"
)

// Setup decides the activity a fresh cell starts the game with.
type Setup interface {
	Active(b game.Board, i game.Index, p game.Player) bool
}

// OpenSetup makes every empty cell playable for every player.
type OpenSetup struct{}

func (OpenSetup) Active(game.Board, game.Index, game.Player) bool { return true }

// HomeSetup gives every player one home cell, playable for that player only.
// Homes[p] is the home of player p.
type HomeSetup struct {
	Homes []game.Index
}

func (s HomeSetup) Active(_ game.Board, i game.Index, p game.Player) bool {
	return int(p) < len(s.Homes) && s.Homes[p] == i
}

// Init hands out the starting activity of players 0..players-1 according to
// setup. The board must be fresh: every cell Empty with no activity, or
// Border. A violation found on the way is reported as ErrBoardNotFresh, but
// cells are not checked beyond what the pass reads anyway, and cells already
// set up are not rolled back.
func Init(b game.Board, players int, setup Setup) error {
	if players < 1 || players > game.MaxPlayers {
		return fmt.Errorf("player count %d not in [1, %d]", players, game.MaxPlayers)
	}
	for _, i := range b.Indices() {
		h, err := b.Cell(i)
		if err != nil {
			return err
		}
		c := h.Cell()
		if c.Kind == game.Border {
			continue
		}
		if c != (game.Cell{}) {
			return fmt.Errorf("%w: index %d is %s", game.ErrBoardNotFresh, i, c)
		}
		for p := game.Player(0); int(p) < players; p++ {
			if setup.Active(b, i, p) {
				if err := h.SetActive(p, true); err != nil {
					return err
				}
			}
		}
	}
	log.Debug().Msgf("Initialized board for %d players", players)
	return nil
}
