package searcher

import (
	"crosses/engine"
	"crosses/game"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const (
	Win  = 1.0 // Reward for a winning outcome
	Loss = 0.0 // Reward for a losing outcome, also the virtual loss
	Draw = 0.5
)

// MaxCutoff bounds a rollout when no cutoff is configured.
const MaxCutoff = 1000

// Evaluate scores a position that a rollout stopped short of the end, from
// the point of view of player p, between Loss and Win.
type Evaluate func(g *engine.Game, p game.Player) float64

// EvaluateReach scores p by its share of the reachable cells of all players
// still in the game.
func EvaluateReach(g *engine.Game, p game.Player) float64 {
	total := 0
	for q := game.Player(0); int(q) < g.Players(); q++ {
		total += g.Reachable(q)
	}
	if total == 0 {
		return Draw
	}
	return float64(g.Reachable(p)) / float64(total)
}

// rewarder maps the outcome of a finished game to a reward per player.
func rewarder(g *engine.Game) func(p game.Player) float64 {
	winner, ok := g.Winner()
	return func(p game.Player) float64 {
		switch {
		case !ok:
			return Draw
		case p == winner:
			return Win
		default:
			return Loss
		}
	}
}
