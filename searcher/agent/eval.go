package agent

import (
	"crosses/engine"
	"crosses/experiments/metrics"
	"crosses/game"
	"crosses/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(g *engine.Game) (game.Index, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(g)
	return findMax(policy), metric
}

// findMax breaks ties towards the lower index so results do not depend on
// map order.
func findMax(policy map[game.Index]float64) game.Index {
	maxMove := game.Index(-1)
	maxVisit := -1.0
	for move, visit := range policy {
		if visit > maxVisit || (visit == maxVisit && move < maxMove) {
			maxVisit = visit
			maxMove = move
		}
	}
	return maxMove
}
