package experiments

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"crosses/board"
	"crosses/config"
	"crosses/engine"
	"crosses/experiments/metrics"
	"crosses/game"
	"crosses/players"
	"crosses/searcher"
	"crosses/searcher/agent"
)

var ErrStalled = errors.New("no legal moves in an ongoing game")

// Results of one experiment, in the order the games were played.
type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// Run plays every matchup of the experiment c.Experiment.Games times and
// writes the agent configs and the game and move records as CSV under
// c.Experiment.Out.
func Run(c config.Config) (Results, error) {
	results, err := Play(c)
	if err != nil {
		return results, err
	}

	// Store experiment metadata
	writer, err := metrics.NewWriter(c.Experiment.Out, c.Experiment.Name)
	if err != nil {
		return results, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(c.Agents); err != nil {
		return results, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	if err := writer.WriteGameRecords(results.Games); err != nil {
		return results, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return results, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return results, nil
}

// Play runs the games of the experiment without storing anything.
func Play(c config.Config) (Results, error) {
	if err := c.Validate(); err != nil {
		return Results{}, err
	}

	e := c.Experiment
	count := 0
	results := Results{}

	log.Info().Msgf("starting %s experiment...", e.Name)

	for mi, matchup := range e.Matchups {
		log.Info().Msgf("starting matchup %d of %d between agents %v...", mi+1, len(e.Matchups), matchup)

		for i := 0; i < e.Games; i++ {
			count++
			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(e.Matchups), i+1, e.Games)

			agents := make([]agent.Agent, len(matchup))
			for seat, id := range matchup {
				cfg, _ := c.Agent(id)
				agents[seat] = createAgent(cfg, e.Seed+uint64(count*len(matchup)+seat))
			}
			g, err := NewGame(c)
			if err != nil {
				return results, err
			}

			gameMetric, moveMetrics, err := runGame(g, agents, e.MaxMoves)
			if err != nil {
				return results, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			results.Games = append(results.Games, metrics.GameRecord{
				ID:         count,
				Agents:     matchup,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				results.Moves = append(results.Moves, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(e.Matchups), i+1, winnerName(gameMetric.Winner))
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(e.Matchups))
	}

	log.Info().Msgf("completed %s experiment", e.Name)
	return results, nil
}

// NewGame sets up a fresh board and player manager as configured.
func NewGame(c config.Config) (*engine.Game, error) {
	options := []board.Option{}
	if c.Board.Topology == "von_neumann" {
		options = append(options, board.WithTopology(board.VonNeumann))
	}
	if c.Board.Border {
		options = append(options, board.WithBorder())
	}

	var b interface {
		game.Board
		Homes(n int) []game.Index
	}
	if c.Board.Sparse {
		b = board.NewSparse(c.Board.Width, c.Board.Height, options...)
	} else {
		b = board.NewGrid(c.Board.Width, c.Board.Height, options...)
	}

	var setup engine.Setup = engine.OpenSetup{}
	if c.Game.Setup == "home" {
		homes := b.Homes(c.Game.Players)
		if len(homes) < c.Game.Players {
			return nil, fmt.Errorf("%w: %d homes for %d players", config.ErrInvalid, len(homes), c.Game.Players)
		}
		setup = engine.HomeSetup{Homes: homes}
	}
	if err := engine.Init(b, c.Game.Players, setup); err != nil {
		return nil, fmt.Errorf("failed to set up board: %w", err)
	}

	pm, err := players.New(c.Game.Players, c.Game.MovesPerTurn)
	if err != nil {
		return nil, err
	}
	return engine.NewGame(b, pm, c.Game.Players), nil
}

// runGame plays g to the end, or for at most maxMoves moves, with agents[p]
// moving for player p.
func runGame(g *engine.Game, agents []agent.Agent, maxMoves int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(g.Player()) + 1,
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s is starting", g.Player())

	step := 1
	for !g.Over() && step <= maxMoves {
		p := g.Player()
		if len(g.LegalMoves()) == 0 {
			return gameMetric, moveMetrics, fmt.Errorf("%w: %s at move %d", ErrStalled, p, step)
		}

		move, searchMetric := agents[p].FindMove(g)
		if _, err := g.Play(move); err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("%s played %d: %w", p, move, err)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       int(p) + 1,
			Index:        int(move),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("move %d: %s played %d\n%s", step, p, move, g.Board())
		step++
	}

	if w, ok := g.Winner(); ok {
		gameMetric.Winner = w.String()
	} else if !g.Over() {
		log.Info().Msgf("stopped after %d moves (no winner yet)", maxMoves)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(g.History())
	return gameMetric, moveMetrics, nil
}

func winnerName(winner string) string {
	if winner == "" {
		return "none"
	}
	return winner
}

func createAgent(config metrics.AgentConfig, seed uint64) agent.Agent {
	if config.Kind == "random" {
		return agent.NewRandomAgent(seed)
	}
	mcts := createMCTS(config, seed)
	if config.Temperature > 0 {
		return agent.NewTrainingAgent(mcts, config.Temperature, seed)
	}
	return agent.NewEvaluationAgent(mcts)
}

func createMCTS(config metrics.AgentConfig, seed uint64) *searcher.MCTS {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
		options = append(options, searcher.WithEvaluationFn(searcher.EvaluateReach))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}
