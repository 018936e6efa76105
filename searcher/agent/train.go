package agent

import (
	"maps"
	"math"
	"slices"

	"golang.org/x/exp/rand"

	"crosses/engine"
	"crosses/experiments/metrics"
	"crosses/game"
	"crosses/searcher"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rand        *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples moves in proportion to their visit counts raised to 1/temperature.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return &trainingAgent{mcts: mcts, temperature: temperature, rand: rand.New(rand.NewSource(seed))}
}

func (a *trainingAgent) FindMove(g *engine.Game) (game.Index, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(g)
	policy = adjustTemperature(policy, a.temperature)
	return sample(policy, a.rand.Float64()), metric
}

func adjustTemperature(policy map[game.Index]float64, temperature float64) map[game.Index]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Index]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks the moves in index order so that a given draw always picks
// the same move.
func sample(policy map[game.Index]float64, sampled float64) game.Index {
	cumulative := 0.0
	lastMove := game.Index(-1)
	for _, move := range slices.Sorted(maps.Keys(policy)) {
		lastMove = move
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
