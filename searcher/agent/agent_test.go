package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crosses/board"
	"crosses/engine"
	"crosses/game"
	"crosses/players"
	"crosses/searcher"
)

func newGame(t *testing.T) *engine.Game {
	t.Helper()
	b := board.NewGrid(4, 4)
	require.NoError(t, engine.Init(b, 2, engine.OpenSetup{}))
	pm, err := players.New(2, 1)
	require.NoError(t, err)
	return engine.NewGame(b, pm, 2)
}

func TestFindMax(t *testing.T) {
	t.Run("picking the most visited move", func(t *testing.T) {
		require.Equal(t, game.Index(4), findMax(map[game.Index]float64{1: 3, 4: 9, 7: 2}))
	})

	t.Run("breaking ties towards the lower index", func(t *testing.T) {
		require.Equal(t, game.Index(2), findMax(map[game.Index]float64{5: 3, 2: 3, 9: 1}))
	})
}

func TestAdjustTemperature(t *testing.T) {
	t.Run("normalizing visits into probabilities", func(t *testing.T) {
		got := adjustTemperature(map[game.Index]float64{0: 1, 1: 3}, 1.0)

		require.InDelta(t, 0.25, got[0], 1e-9)
		require.InDelta(t, 0.75, got[1], 1e-9)
	})

	t.Run("sharpening the distribution at low temperature", func(t *testing.T) {
		got := adjustTemperature(map[game.Index]float64{0: 1, 1: 3}, 0.5)

		require.InDelta(t, 0.1, got[0], 1e-9)
		require.InDelta(t, 0.9, got[1], 1e-9)
	})
}

func TestSample(t *testing.T) {
	policy := map[game.Index]float64{3: 0.5, 1: 0.25, 8: 0.25}

	t.Run("walking the moves in index order", func(t *testing.T) {
		require.Equal(t, game.Index(1), sample(policy, 0.1))
		require.Equal(t, game.Index(3), sample(policy, 0.3))
		require.Equal(t, game.Index(8), sample(policy, 0.8))
	})

	t.Run("falling back to the last move on rounding errors", func(t *testing.T) {
		require.Equal(t, game.Index(8), sample(policy, 1.0))
	})
}

func TestAgents(t *testing.T) {
	agents := map[string]Agent{
		"random":     NewRandomAgent(1),
		"evaluation": NewEvaluationAgent(searcher.NewMCTS(searcher.WithEpisodes(30), searcher.WithSeed(1))),
		"training":   NewTrainingAgent(searcher.NewMCTS(searcher.WithEpisodes(30), searcher.WithSeed(1)), 1.0, 1),
	}

	for name, a := range agents {
		t.Run(name+" agent playing legal moves", func(t *testing.T) {
			g := newGame(t)
			for i := 0; i < 6 && !g.Over(); i++ {
				move, _ := a.FindMove(g)
				require.True(t, engine.Legal(g.Board(), move, g.Player()), "move %d", move)
				_, err := g.Play(move)
				require.NoError(t, err)
			}
		})
	}
}
