package players

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crosses/game"
)

func never(game.Player) bool  { return false }
func always(game.Player) bool { return true }

func only(players ...game.Player) func(game.Player) bool {
	return func(p game.Player) bool {
		for _, q := range players {
			if p == q {
				return true
			}
		}
		return false
	}
}

type snapshot struct {
	remaining int
	current   game.Player
	move      int
	state     State
	losers    []Loss
}

func snap(m *Manager) snapshot {
	s := snapshot{remaining: m.remaining, current: m.current, move: m.move, state: m.state}
	for _, l := range m.losers {
		if l == nil {
			s.losers = append(s.losers, Loss{Move: -1})
		} else {
			s.losers = append(s.losers, *l)
		}
	}
	return s
}

func TestNew(t *testing.T) {
	t.Run("starting with the first player and a full turn", func(t *testing.T) {
		m, err := New(2, 4)
		require.NoError(t, err)

		require.Equal(t, game.Player(0), m.Current())
		require.Equal(t, 4, m.Remaining())
		require.Equal(t, 0, m.Move())
		require.Equal(t, Ongoing, m.State())
	})

	t.Run("rejecting a single player", func(t *testing.T) {
		_, err := New(1, 4)
		require.Error(t, err)
	})

	t.Run("rejecting empty turns", func(t *testing.T) {
		_, err := New(2, 0)
		require.Error(t, err)
	})
}

func TestAdvance(t *testing.T) {
	t.Run("consuming the moves of a turn", func(t *testing.T) {
		m, _ := New(2, 4)

		require.NoError(t, m.Advance(never, never))
		require.Equal(t, 3, m.Remaining())
		require.Equal(t, game.Player(0), m.Current())
		require.Equal(t, 1, m.Move())

		for i := 0; i < 3; i++ {
			require.NoError(t, m.Advance(never, never))
		}
		require.Equal(t, 4, m.Remaining(), "The next player should get a full turn")
		require.Equal(t, game.Player(1), m.Current())
		require.Equal(t, 4, m.Move())
	})

	t.Run("ending the game when the mover runs out of moves", func(t *testing.T) {
		m, _ := New(2, 4)
		for i := 0; i < 4; i++ {
			require.NoError(t, m.Advance(never, never))
		}

		require.NoError(t, m.Advance(always, never))

		winner, ok := m.Winner()
		require.True(t, ok)
		require.Equal(t, game.Player(0), winner, "The last player standing should win")
		require.True(t, m.Over())
	})

	t.Run("refusing to advance a finished game", func(t *testing.T) {
		m, _ := New(2, 4)
		require.NoError(t, m.Advance(always, never))

		require.ErrorIs(t, m.Advance(never, never), ErrGameOver)
	})

	t.Run("dropping a player without markers or reach at turn end", func(t *testing.T) {
		m, _ := New(3, 1)

		require.NoError(t, m.Advance(never, only(1)))

		loss, lost := m.Lost(1)
		require.True(t, lost)
		require.Equal(t, Loss{Move: 0}, loss)
		require.Equal(t, game.Player(2), m.Current(), "The turn should skip the dropped player")
		require.False(t, m.Over())
	})

	t.Run("declaring a draw when every player drops at once", func(t *testing.T) {
		m, _ := New(2, 2)

		require.NoError(t, m.Advance(always, always))

		require.Equal(t, Draw, m.State())
		_, ok := m.Winner()
		require.False(t, ok)
	})

	t.Run("keeping the last player without reach in the game", func(t *testing.T) {
		m, _ := New(3, 2)

		require.NoError(t, m.Advance(always, never))

		_, lost := m.Lost(2)
		require.False(t, lost, "Only one of the players without reach may drop")
		winner, ok := m.Winner()
		require.True(t, ok)
		require.Equal(t, game.Player(2), winner)
	})
}

func TestReverse(t *testing.T) {
	t.Run("undoing a move that ended the game", func(t *testing.T) {
		m, _ := New(2, 4)
		require.NoError(t, m.Advance(always, never))
		winner, _ := m.Winner()
		require.Equal(t, game.Player(1), winner)

		require.NoError(t, m.Reverse(0))

		require.Equal(t, 4, m.Remaining())
		require.Equal(t, game.Player(0), m.Current())
		require.Equal(t, 0, m.Move())
		require.Equal(t, Ongoing, m.State())
		_, lost := m.Lost(0)
		require.False(t, lost)
	})

	t.Run("failing before the first move", func(t *testing.T) {
		m, _ := New(2, 4)

		require.ErrorIs(t, m.Reverse(0), ErrNoMoves)
	})

	t.Run("restoring every intermediate state in reverse", func(t *testing.T) {
		m, _ := New(4, 3)
		steps := []struct {
			outOfMoves   func(game.Player) bool
			outOfMarkers func(game.Player) bool
		}{
			{never, never}, {never, never}, {never, only(2)},
			{never, never}, {only(1), never}, {never, never},
			{never, never}, {only(0, 3), never},
		}

		var history []snapshot
		var movers []game.Player
		for _, s := range steps {
			if m.Over() {
				break
			}
			history = append(history, snap(m))
			movers = append(movers, m.Current())
			require.NoError(t, m.Advance(s.outOfMoves, s.outOfMarkers))
		}

		for k := len(movers) - 1; k >= 0; k-- {
			require.NoError(t, m.Reverse(movers[k]))
			require.Equal(t, history[k], snap(m), "Reverse should restore the state before move %d", k)
		}
	})
}

func TestClone(t *testing.T) {
	t.Run("copying loss records independently", func(t *testing.T) {
		m, _ := New(3, 1)
		require.NoError(t, m.Advance(never, only(1)))

		c := m.Clone().(*Manager)
		require.NoError(t, c.Reverse(0))

		_, lost := m.Lost(1)
		require.True(t, lost, "Reversing the clone should not touch the original")
		require.Equal(t, 1, m.Move())
	})
}
