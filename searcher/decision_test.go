package searcher

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"crosses/board"
	"crosses/engine"
	"crosses/game"
	"crosses/players"
)

/**
Tests parallel MCTS (tree parallelization with virtual loss) on decision nodes
sequential:
- selection:
	- happy path: fully expanded node -> max UCT child + loss, child position
	- edge case: terminal node -> same node, same position
- expansion:
	- happy path: expandable node -> new added child + loss, child position
- backup:
	- happy path: reward -> [child]: reverse loss, visits++, update rewards; [root] visits++, update rewards
concurrent:
- shared backup
*/

// newTestGame starts a two player game on a small open board, one move per
// turn.
func newTestGame(t *testing.T, width, height int) (*engine.Game, *board.Grid) {
	t.Helper()
	b := board.NewGrid(width, height)
	require.NoError(t, engine.Init(b, 2, engine.OpenSetup{}))
	pm, err := players.New(2, 1)
	require.NoError(t, err)
	return engine.NewGame(b, pm, 2), b
}

func TestDecisionSelectOrExpand(t *testing.T) {
	t.Run("expanding the first unexplored move", func(t *testing.T) {
		g, b := newTestGame(t, 3, 1)
		node := newDecision(nil, 0, 0, g)
		require.Equal(t, []game.Index{0, 1, 2}, node.moves)

		gotChild, gotSelected := node.SelectOrExpand(g)

		require.False(t, gotSelected, "Node should expand with a new child")
		require.Len(t, node.children, 1)
		require.Equal(t, node.children[0], gotChild)
		require.Equal(t, game.Index(0), gotChild.move)
		require.Equal(t, game.Player(0), gotChild.mover)
		require.Equal(t, game.Player(1), gotChild.player)
		require.Equal(t, Loss, gotChild.rewards, "Child should apply a temporary loss")
		require.Equal(t, 1, gotChild.visits, "Child should apply a temporary loss")
		require.Equal(t, game.Marker, b.Snapshot()[0].Kind, "The move should be played on the game")
		require.Equal(t, 0, node.visits, "Node stats should not change")
	})

	t.Run("selecting the child with the best score once fully expanded", func(t *testing.T) {
		g, b := newTestGame(t, 2, 1)
		maxChild := &decision{move: 1, mover: 0, rewards: 1, visits: 1}
		otherChild := &decision{move: 0, mover: 0, rewards: 0, visits: 1}
		node := &decision{
			moves:    []game.Index{0, 1},
			children: []*decision{otherChild, maxChild},
			rewards:  1,
			visits:   2,
		}

		gotChild, gotSelected := node.SelectOrExpand(g)

		require.True(t, gotSelected, "Node should perform selection")
		require.Equal(t, maxChild, gotChild, "Node should select child with max policy value")
		require.Equal(t, 1+Loss, gotChild.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2, gotChild.visits, "Child should apply a temporary loss")
		require.Equal(t, game.Marker, b.Snapshot()[1].Kind, "The selected move should be played")
		require.Equal(t, 1.0, node.rewards, "Node stats should not change")
		require.Equal(t, 2, node.visits, "Node stats should not change")
	})

	t.Run("staying on a terminal node", func(t *testing.T) {
		g, _ := newTestGame(t, 2, 1)
		node := &decision{}

		gotChild, gotSelected := node.SelectOrExpand(g)

		require.Equal(t, node, gotChild)
		require.False(t, gotSelected)
		require.Empty(t, g.History(), "Nothing should be played")
	})

	t.Run("panicking on a move the game does not accept", func(t *testing.T) {
		g, _ := newTestGame(t, 2, 1)
		node := &decision{moves: []game.Index{7}}

		require.Panics(t, func() {
			node.SelectOrExpand(g)
		})
	})
}

func TestDecisionBackup(t *testing.T) {
	win := func(game.Player) float64 { return Win }

	t.Run("recording win", func(t *testing.T) {
		parent := &decision{}
		node := &decision{parent: parent, mover: 1, rewards: Loss, visits: 1}

		got := node.Backup(func(p game.Player) float64 {
			if p == 1 {
				return Win
			}
			return Loss
		})

		require.Equal(t, parent, got, "Backup should return the parent")
		require.Equal(t, Win, node.rewards, "Node should reverse loss and record win")
		require.Equal(t, 1, node.visits, "Node should reverse loss and count the visit")
	})

	t.Run("recording a root visit", func(t *testing.T) {
		root := &decision{rewards: 2, visits: 3}

		got := root.Backup(win)

		require.Nil(t, got)
		require.Equal(t, 3.0, root.rewards)
		require.Equal(t, 4, root.visits, "Root has no virtual loss to reverse")
	})

	t.Run("concurrent backups on a shared node", func(t *testing.T) {
		root := &decision{}
		node := &decision{parent: root}
		const n = 100
		for i := 0; i < n; i++ {
			node.applyLoss()
		}

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				backup(node, win)
			}()
		}
		wg.Wait()

		require.Equal(t, n, node.visits)
		require.Equal(t, float64(n)*Win, node.rewards)
		require.Equal(t, n, root.visits)
	})
}

func TestDecisionPolicy(t *testing.T) {
	t.Run("reporting visits and the most visited move", func(t *testing.T) {
		node := &decision{children: []*decision{
			{move: 3, visits: 2},
			{move: 5, visits: 7},
			{move: 8, visits: 1},
		}}

		require.Equal(t, map[game.Index]float64{3: 2, 5: 7, 8: 1}, node.Policy())
		best, ok := node.findBestMove()
		require.True(t, ok)
		require.Equal(t, game.Index(5), best)
	})

	t.Run("having no best move without children", func(t *testing.T) {
		_, ok := (&decision{}).findBestMove()
		require.False(t, ok)
	})
}
