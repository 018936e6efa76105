package agent

import (
	"golang.org/x/exp/rand"

	"crosses/engine"
	"crosses/experiments/metrics"
	"crosses/game"
)

type randomAgent struct {
	rand *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays a uniformly random
// legal move.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rand: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(g *engine.Game) (game.Index, metrics.SearchMetric) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		panic("no legal moves to pick from")
	}
	return moves[a.rand.Intn(len(moves))], metrics.SearchMetric{}
}
