package agent

import (
	"crosses/engine"
	"crosses/experiments/metrics"
	"crosses/game"
)

type Agent interface {
	// FindMove returns the move to play and performance metrics (if collected) from the search process
	FindMove(g *engine.Game) (game.Index, metrics.SearchMetric)
}
