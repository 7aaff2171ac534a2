package experiments

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"chase/agents"
	"chase/engine"
	"chase/experiments/metrics"
	"chase/game"
	"chase/record"

	"github.com/rs/zerolog/log"
)

// Config describes a series of games on one board.
type Config struct {
	Name        string
	Board       *game.Board
	Rules       game.Rules
	NumPursuers int
	Primary     string
	Pursuer     string
	AgentArgs   agents.Args
	Registry    *agents.Registry
	NumGames    int
	NumTraining int              // Leading games played quietly and left out of the summary
	Display     engine.Display   // nil plays quietly
	Timeouts    *engine.Timeouts // nil disables time limits
	Explored    *engine.Explored
	RecordDir   string // Empty disables recording
	Export      string // Parquet file of every counted game, empty disables export
	MetricsDir  string // Empty disables CSV metrics
}

// Summary covers the counted games of a run.
type Summary struct {
	Scores       []int
	Wins         []bool
	AverageScore float64
	WinRate      float64
	Recordings   []*record.Recording
	Games        []metrics.GameRecord
	Moves        []metrics.MoveRecord
}

func (s *Summary) NumWins() int {
	wins := 0
	for _, w := range s.Wins {
		if w {
			wins++
		}
	}
	return wins
}

func (s *Summary) String() string {
	if len(s.Scores) == 0 {
		return "No games counted"
	}
	scores := make([]string, len(s.Scores))
	for i, score := range s.Scores {
		scores[i] = strconv.Itoa(score)
	}
	outcomes := make([]string, len(s.Wins))
	for i, w := range s.Wins {
		outcomes[i] = "Loss"
		if w {
			outcomes[i] = "Win"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Average Score: %g\n", s.AverageScore)
	fmt.Fprintf(&b, "Scores:        %s\n", strings.Join(scores, ", "))
	fmt.Fprintf(&b, "Win Rate:      %d/%d (%.2f)\n", s.NumWins(), len(s.Wins), s.WinRate)
	fmt.Fprintf(&b, "Record:        %s", strings.Join(outcomes, ", "))
	return b.String()
}

// RunGames plays cfg.NumGames games and stores their metrics, recordings and export as
// configured.
func RunGames(ctx context.Context, cfg Config) (*Summary, error) {
	summary, err := playGames(ctx, cfg, 0, 0)
	if err != nil {
		return nil, err
	}

	if cfg.MetricsDir != "" {
		writer, err := metrics.NewWriter(cfg.MetricsDir)
		if err != nil {
			return summary, fmt.Errorf("failed to create metrics writer: %w", err)
		}
		if err := writeRecords(writer, summary); err != nil {
			return summary, err
		}
	}
	if cfg.Export != "" {
		if err := record.ExportParquet(cfg.Export, summary.Recordings); err != nil {
			return summary, fmt.Errorf("failed to export games: %w", err)
		}
		log.Info().Msgf("exported %d games to %s", len(summary.Recordings), cfg.Export)
	}
	return summary, nil
}

// playGames runs the games of cfg. Counted games are numbered from firstID+1 in the
// returned records and attributed to agentID.
func playGames(ctx context.Context, cfg Config, agentID, firstID int) (*Summary, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = agents.Default(1)
	}
	explored := cfg.Explored
	if explored == nil {
		explored = engine.NewExplored()
	}
	name := cfg.Name
	if name == "" {
		name = cfg.Board.Name
	}

	summary := &Summary{}
	total := 0
	log.Info().Msgf("starting %s with %d games...", name, cfg.NumGames)

	for i := 0; i < cfg.NumGames; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		training := i < cfg.NumTraining

		// Later games get their own copy of the board instead of parsing the map again
		board := cfg.Board
		if i > 0 {
			board = cfg.Board.Clone()
		}
		initial := game.NewGameState(board, cfg.Rules, cfg.NumPursuers)
		players, err := registry.ForState(initial, cfg.Primary, cfg.Pursuer, cfg.AgentArgs)
		if err != nil {
			return summary, err
		}

		options := []engine.Option{engine.WithExplored(explored)}
		if cfg.Timeouts != nil {
			options = append(options, engine.WithTimeouts(*cfg.Timeouts))
		}
		var display engine.Display
		if !training {
			display = cfg.Display
		}

		e := engine.LocalEngine(initial, players, display, options...)
		result := e.Run(ctx)
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		log.Info().Int("score", result.Score).Msgf("completed game %d of %d: %s", i+1, cfg.NumGames, result.Status)

		if training {
			continue
		}

		rec, err := record.New(initial, e.History, result)
		if err != nil {
			return summary, err
		}
		if cfg.RecordDir != "" {
			path := filepath.Join(cfg.RecordDir, record.FileName(i+1, time.Now()))
			if err := record.Save(path, rec); err != nil {
				return summary, fmt.Errorf("failed to record game %d: %w", i+1, err)
			}
			log.Debug().Msgf("recorded game %d to %s", i+1, path)
		}

		id := firstID + len(summary.Games) + 1
		summary.Recordings = append(summary.Recordings, rec)
		summary.Games = append(summary.Games, metrics.GameRecord{
			ID:         id,
			GameID:     rec.ID,
			Agent:      agentID,
			Primary:    cfg.Primary,
			Pursuer:    cfg.Pursuer,
			GameMetric: result.Game,
		})
		for _, mm := range result.MoveMetrics {
			summary.Moves = append(summary.Moves, metrics.MoveRecord{Game: id, MoveMetric: mm})
		}
		summary.Scores = append(summary.Scores, result.Score)
		summary.Wins = append(summary.Wins, result.Status == engine.Won)
		total += result.Score
	}

	if n := len(summary.Scores); n > 0 {
		summary.AverageScore = float64(total) / float64(n)
		summary.WinRate = float64(summary.NumWins()) / float64(n)
	}
	log.Info().Msgf("completed %s, explored %d distinct states", name, explored.Len())
	return summary, nil
}

func writeRecords(writer *metrics.Writer, summary *Summary) error {
	if err := writer.WriteGameRecords(summary.Games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(summary.Moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return nil
}
