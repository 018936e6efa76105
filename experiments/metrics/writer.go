package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one agent taking part in an experiment.
type AgentConfig struct {
	ID          int           `yaml:"id"`
	Kind        string        `yaml:"kind"` // "mcts" or "random"
	Goroutines  int           `yaml:"goroutines"`
	Duration    time.Duration `yaml:"duration"`
	Episodes    int           `yaml:"episodes"`
	Cutoff      int           `yaml:"cutoff"`
	Temperature float64       `yaml:"temperature"` // samples moves when > 0
}

type GameRecord struct {
	ID     int
	Agents []int // AgentConfig.ID by seat
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a directory for one run of the named experiment under
// dir, named by the current time.
func NewWriter(dir, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) write(name string, header []string, rows func(write func([]string) error) error) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := rows(writer.Write); err != nil {
		return fmt.Errorf("failed to write %s row: %w", name, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "goroutines", "duration", "episodes", "cutoff", "temperature"}
	return w.write("agent_configs.csv", header, func(write func([]string) error) error {
		for _, config := range configs {
			row := []string{
				strconv.Itoa(config.ID),
				config.Kind,
				strconv.Itoa(config.Goroutines),
				config.Duration.String(),
				strconv.Itoa(config.Episodes),
				strconv.Itoa(config.Cutoff),
				strconv.FormatFloat(config.Temperature, 'g', -1, 64),
			}
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agents", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	return w.write("game_records.csv", header, func(write func([]string) error) error {
		for _, record := range records {
			agents := ""
			for i, id := range record.Agents {
				if i > 0 {
					agents += " "
				}
				agents += strconv.Itoa(id)
			}
			row := []string{
				strconv.Itoa(record.ID),
				agents,
				strconv.Itoa(record.StartingPlayer),
				record.Winner,
				record.StartTime.Format(time.RFC3339),
				record.EndTime.Format(time.RFC3339),
				record.Duration.String(),
				strconv.Itoa(record.TotalMoves),
			}
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "index", "goroutines", "duration", "episodes", "cutoff", "full_playouts", "is_tree_reset"}
	return w.write("move_records.csv", header, func(write func([]string) error) error {
		for _, record := range records {
			row := []string{
				strconv.Itoa(record.Game),
				strconv.Itoa(record.Step),
				strconv.Itoa(record.Player),
				strconv.Itoa(record.Index),
				strconv.Itoa(record.Goroutines),
				record.Duration.String(),
				strconv.Itoa(record.Episodes),
				strconv.Itoa(record.Cutoff),
				strconv.Itoa(record.FullPlayouts),
				strconv.FormatBool(record.IsTreeReset),
			}
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
