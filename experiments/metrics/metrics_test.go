package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCollector(t *testing.T) {
	t.Run("counting episodes and playouts of one search", func(t *testing.T) {
		c := NewCollector()
		c.Start(4, 30)
		c.SetTreeReset(true)
		for i := 0; i < 5; i++ {
			c.AddEpisode()
		}
		c.AddFullPlayout()

		m := c.Complete()

		require.Equal(t, 4, m.Goroutines)
		require.Equal(t, 30, m.Cutoff)
		require.Equal(t, 5, m.Episodes)
		require.Equal(t, 1, m.FullPlayouts)
		require.True(t, m.IsTreeReset)
	})

	t.Run("starting every search from zero", func(t *testing.T) {
		c := NewCollector()
		c.Start(1, 1)
		c.AddEpisode()
		c.Start(1, 1)

		require.Zero(t, c.Complete().Episodes)
	})

	t.Run("collecting nothing with the dummy", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(4, 30)
		c.AddEpisode()

		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func TestWriter(t *testing.T) {
	t.Run("writing game and move records as csv", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "selfplay")
		require.NoError(t, err)
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

		require.NoError(t, w.WriteGameRecords([]GameRecord{{
			ID:     1,
			Agents: []int{2, 5},
			GameMetric: GameMetric{
				StartingPlayer: 1,
				Winner:         "Player2",
				StartTime:      start,
				EndTime:        start.Add(time.Second),
				Duration:       time.Second,
				TotalMoves:     42,
			},
		}}))
		require.NoError(t, w.WriteMoveRecords([]MoveRecord{{
			Game:       1,
			MoveMetric: MoveMetric{Step: 1, Player: 1, Index: 7, SearchMetric: SearchMetric{Episodes: 100}},
		}}))

		games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, games, 2)
		require.Equal(t, []string{"1", "2 5", "1", "Player2", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s", "42"}, games[1])

		moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, moves, 2)
		require.Equal(t, "7", moves[1][3])
		require.Equal(t, "100", moves[1][6])
	})

	t.Run("writing agent configs", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "selfplay")
		require.NoError(t, err)

		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Kind: "mcts", Goroutines: 8, Duration: 10 * time.Millisecond}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Equal(t, []string{"1", "mcts", "8", "10ms", "0", "0", "0"}, rows[1])
	})
}
