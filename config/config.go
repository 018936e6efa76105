package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"crosses/experiments/metrics"
	"crosses/game"
)

var ErrInvalid = errors.New("invalid config")

type Board struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Topology string `yaml:"topology"` // "moore" or "von_neumann"
	Border   bool   `yaml:"border"`
	Sparse   bool   `yaml:"sparse"`
}

type Game struct {
	Players      int    `yaml:"players"`
	MovesPerTurn int    `yaml:"moves_per_turn"`
	Setup        string `yaml:"setup"` // "home" or "open"
}

type Experiment struct {
	Name     string  `yaml:"name"`
	Games    int     `yaml:"games"` // per matchup
	MaxMoves int     `yaml:"max_moves"`
	Out      string  `yaml:"out"`
	Seed     uint64  `yaml:"seed"`
	Matchups [][]int `yaml:"matchups"` // agent IDs by seat
}

type Config struct {
	LogLevel   string                `yaml:"log_level"`
	Board      Board                 `yaml:"board"`
	Game       Game                  `yaml:"game"`
	Agents     []metrics.AgentConfig `yaml:"agents"`
	Experiment Experiment            `yaml:"experiment"`
}

const budget = 10 * time.Millisecond

// Default is a two player game of ten by ten with three moves per turn,
// played between a sequential and a parallel searcher.
func Default() Config {
	return Config{
		LogLevel: "info",
		Board: Board{
			Width:    10,
			Height:   10,
			Topology: "moore",
			Border:   true,
		},
		Game: Game{
			Players:      2,
			MovesPerTurn: 3,
			Setup:        "home",
		},
		Agents: []metrics.AgentConfig{
			{ID: 1, Kind: "mcts", Goroutines: 1, Duration: budget},
			{ID: 2, Kind: "mcts", Goroutines: 8, Duration: budget},
		},
		Experiment: Experiment{
			Name:     "selfplay",
			Games:    10,
			MaxMoves: 1000,
			Out:      "experiments/results",
			Seed:     1,
			Matchups: [][]int{{1, 2}, {2, 1}},
		},
	}
}

// Load reads the YAML file at path over the defaults; keys missing from the
// file keep their default value.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	if c.Board.Width < 1 || c.Board.Height < 1 {
		return fmt.Errorf("%w: board %dx%d", ErrInvalid, c.Board.Width, c.Board.Height)
	}
	if c.Board.Topology != "moore" && c.Board.Topology != "von_neumann" {
		return fmt.Errorf("%w: topology %q", ErrInvalid, c.Board.Topology)
	}
	if c.Game.Players < 2 || c.Game.Players > game.MaxPlayers {
		return fmt.Errorf("%w: %d players not in [2, %d]", ErrInvalid, c.Game.Players, game.MaxPlayers)
	}
	if c.Game.MovesPerTurn < 1 {
		return fmt.Errorf("%w: %d moves per turn", ErrInvalid, c.Game.MovesPerTurn)
	}
	if c.Game.Setup != "home" && c.Game.Setup != "open" {
		return fmt.Errorf("%w: setup %q", ErrInvalid, c.Game.Setup)
	}
	if c.Game.Setup == "home" && c.Game.Players > c.Board.Width*c.Board.Height {
		return fmt.Errorf("%w: %d homes on a %dx%d board", ErrInvalid, c.Game.Players, c.Board.Width, c.Board.Height)
	}

	ids := map[int]bool{}
	for _, a := range c.Agents {
		if ids[a.ID] {
			return fmt.Errorf("%w: duplicate agent %d", ErrInvalid, a.ID)
		}
		ids[a.ID] = true
		switch a.Kind {
		case "random":
		case "mcts":
			if a.Duration <= 0 && a.Episodes <= 0 {
				return fmt.Errorf("%w: agent %d has neither duration nor episodes", ErrInvalid, a.ID)
			}
			if a.Goroutines < 0 || a.Cutoff < 0 || a.Temperature < 0 {
				return fmt.Errorf("%w: agent %d has a negative setting", ErrInvalid, a.ID)
			}
		default:
			return fmt.Errorf("%w: agent %d kind %q", ErrInvalid, a.ID, a.Kind)
		}
	}

	e := c.Experiment
	if e.Name == "" {
		return fmt.Errorf("%w: experiment has no name", ErrInvalid)
	}
	if e.Games < 1 || e.MaxMoves < 1 {
		return fmt.Errorf("%w: %d games of at most %d moves", ErrInvalid, e.Games, e.MaxMoves)
	}
	if len(e.Matchups) == 0 {
		return fmt.Errorf("%w: no matchups", ErrInvalid)
	}
	for i, m := range e.Matchups {
		if len(m) != c.Game.Players {
			return fmt.Errorf("%w: matchup %d seats %d agents for %d players", ErrInvalid, i+1, len(m), c.Game.Players)
		}
		for _, id := range m {
			if !ids[id] {
				return fmt.Errorf("%w: matchup %d names unknown agent %d", ErrInvalid, i+1, id)
			}
		}
	}
	return nil
}

// Agent returns the agent with the given ID.
func (c Config) Agent(id int) (metrics.AgentConfig, bool) {
	for _, a := range c.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return metrics.AgentConfig{}, false
}
