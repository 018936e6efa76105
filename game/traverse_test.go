package game_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crosses/board"
	"crosses/game"
)

// counter processes every cell it is handed and remembers how often.
type counter struct {
	seen   map[game.Index]int
	stopAt game.Index
	stop   bool
}

func newCounter() *counter {
	return &counter{seen: make(map[game.Index]int), stopAt: -1}
}

func (c *counter) Visited(_ game.Board, i game.Index) bool {
	return c.seen[i] > 0
}

func (c *counter) Process(_ game.Board, i game.Index) game.Flow {
	c.seen[i]++
	if i == c.stopAt {
		return game.Stop(i)
	}
	return game.Continue()
}

func paint(t *testing.T, b game.Board, p game.Player, indices ...game.Index) {
	t.Helper()
	for _, i := range indices {
		h, err := b.Cell(i)
		require.NoError(t, err)
		require.NoError(t, h.Mark(p))
		require.NoError(t, h.Paint(p))
	}
}

func TestTraverse(t *testing.T) {
	t.Run("visiting every connected painted cell exactly once", func(t *testing.T) {
		b := board.NewGrid(4, 4)
		paint(t, b, 0, b.Indices()...)
		s := newCounter()

		_, found, err := game.Traverse(b, 5, s)

		require.NoError(t, err)
		require.False(t, found)
		require.Len(t, s.seen, 16)
		for i, n := range s.seen {
			require.Equal(t, 1, n, "index %d", i)
		}
	})

	t.Run("staying inside the component of the start", func(t *testing.T) {
		b := board.NewGrid(5, 5)
		// A diagonal chain and a lone cell in the far corner.
		paint(t, b, 0, b.At(0, 0), b.At(0, 1), b.At(1, 2), b.At(2, 3))
		paint(t, b, 1, b.At(4, 4))
		s := newCounter()

		_, _, err := b.Traverse(b.At(0, 0), s)

		require.NoError(t, err)
		require.Len(t, s.seen, 4)
		require.NotContains(t, s.seen, b.At(4, 4))
	})

	t.Run("following only the adjacency of the board", func(t *testing.T) {
		b := board.NewGrid(3, 3, board.WithTopology(board.VonNeumann))
		paint(t, b, 0, 0, 4, 8)
		s := newCounter()

		_, _, err := b.Traverse(0, s)

		require.NoError(t, err)
		require.Len(t, s.seen, 1, "Diagonal cells are not adjacent")
	})

	t.Run("stopping at the cell the strategy names", func(t *testing.T) {
		b := board.NewGrid(5, 1)
		paint(t, b, 0, 0, 1, 2, 3, 4)
		s := newCounter()
		s.stopAt = 2

		at, found, err := b.Traverse(0, s)

		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, 2, at)
		require.NotContains(t, s.seen, 3, "Cells behind the stop should not be processed")
		require.NotContains(t, s.seen, 4)
	})

	t.Run("trusting the strategy about visited cells", func(t *testing.T) {
		b := board.NewSparse(5, 1)
		paint(t, b, 0, 0, 1, 2, 3, 4)
		s := newCounter()
		s.seen[2] = 1

		_, _, err := b.Traverse(0, s)

		require.NoError(t, err)
		require.Equal(t, map[game.Index]int{0: 1, 1: 1, 2: 1}, s.seen, "A cell reported visited is a wall")
	})

	t.Run("refusing to start outside a painted cell", func(t *testing.T) {
		b := board.NewGrid(3, 3)

		_, _, err := b.Traverse(4, newCounter())
		require.ErrorIs(t, err, game.ErrNotPainted)

		_, _, err = b.Traverse(42, newCounter())
		require.ErrorIs(t, err, game.ErrIndexOutOfRange)
	})
}
