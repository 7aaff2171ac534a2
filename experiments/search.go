package experiments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"chase/agents"
	"chase/experiments/metrics"

	"github.com/rs/zerolog/log"
)

// Experiments maps experiment names to the search configurations they compare.
var Experiments = map[string]func(budget time.Duration) []metrics.AgentConfig{
	"parallelization": ParallelConfigs,
	"cutoff":          CutoffConfigs,
}

// ParallelConfigs vary the number of goroutines under the same time budget.
func ParallelConfigs(budget time.Duration) []metrics.AgentConfig {
	return []metrics.AgentConfig{
		{ID: 1, Goroutines: 1, Duration: budget},
		{ID: 2, Goroutines: 2, Duration: budget},
		{ID: 3, Goroutines: 4, Duration: budget},
		{ID: 4, Goroutines: 8, Duration: budget},
		{ID: 5, Goroutines: 16, Duration: budget},
	}
}

// CutoffConfigs vary the rollout depth at 8 goroutines.
func CutoffConfigs(budget time.Duration) []metrics.AgentConfig {
	return []metrics.AgentConfig{
		{ID: 1, Goroutines: 8, Duration: budget}, // Full playouts up to the default cutoff
		{ID: 2, Goroutines: 8, Duration: budget, Cutoff: 10},
		{ID: 3, Goroutines: 8, Duration: budget, Cutoff: 50},
		{ID: 4, Goroutines: 8, Duration: budget, Cutoff: 100},
	}
}

// searchArgs overlays a search configuration on the base agent arguments.
func searchArgs(base agents.Args, config metrics.AgentConfig) agents.Args {
	args := agents.Args{}
	for k, v := range base {
		args[k] = v
	}
	args["goroutines"] = strconv.Itoa(config.Goroutines)
	if config.Episodes > 0 {
		args["episodes"] = strconv.Itoa(config.Episodes)
	}
	if config.Duration > 0 {
		args["duration"] = config.Duration.String()
	}
	if config.Cutoff > 0 {
		args["cutoff"] = strconv.Itoa(config.Cutoff)
	}
	return args
}

// RunSearchExperiment plays base.NumGames games with an "mcts" primary agent for every
// configuration and stores the configurations, games and moves under base.MetricsDir.
func RunSearchExperiment(ctx context.Context, name string, base Config, configs []metrics.AgentConfig) ([]*Summary, error) {
	log.Info().Msgf("starting %s experiment...", name)

	summaries := make([]*Summary, 0, len(configs))
	all := &Summary{}
	for ci, config := range configs {
		log.Info().Msgf("starting configuration %d of %d: %+v...", ci+1, len(configs), config)

		cfg := base
		cfg.Name = fmt.Sprintf("%s configuration %d", name, config.ID)
		cfg.Primary = "mcts"
		cfg.AgentArgs = searchArgs(base.AgentArgs, config)
		summary, err := playGames(ctx, cfg, config.ID, len(all.Games))
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
		all.Games = append(all.Games, summary.Games...)
		all.Moves = append(all.Moves, summary.Moves...)

		log.Info().Msgf("completed configuration %d of %d with average score %g", ci+1, len(configs), summary.AverageScore)
	}

	log.Info().Msgf("completed %s experiment", name)

	if base.MetricsDir == "" {
		return summaries, nil
	}
	writer, err := metrics.NewWriter(base.MetricsDir)
	if err != nil {
		return summaries, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return summaries, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")
	return summaries, writeRecords(writer, all)
}
