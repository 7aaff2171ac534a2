package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"chase/agents"
	"chase/config"
	"chase/display"
	"chase/engine"
	"chase/experiments"
	"chase/game"
	"chase/gamemaster"
	"chase/player"
	"chase/record"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envFile := flag.String("env", ".env", "File with CHASE_* variables")
	layout := flag.String("layout", "", "Layout name or .lay file")
	primary := flag.String("primary", "", "Primary agent kind")
	pursuer := flag.String("pursuer", "", "Pursuer agent kind")
	numPursuers := flag.Int("pursuers", 0, "Maximum number of pursuers, negative keeps every pursuer of the layout")
	agentArgs := flag.String("agent-args", "", "Agent options, e.g. \"goroutines=4,episodes=200\"")
	numGames := flag.Int("n", 0, "Number of games to play")
	numTraining := flag.Int("x", 0, "Number of leading training games left out of the summary")
	displayName := flag.String("display", "", "Display: tui, text or quiet")
	frameTime := flag.Duration("frame-time", 0, "Delay between display frames")
	timeouts := flag.Bool("timeouts", false, "Enforce agent time limits")
	timeout := flag.Duration("timeout", 0, "Agent time budget when limits are enforced")
	recordDir := flag.String("record", "", "Directory to save played games to")
	export := flag.String("export", "", "Parquet file to export the played games to")
	metricsDir := flag.String("metrics", "", "Directory to write CSV game and move metrics to")
	replay := flag.String("replay", "", "Recorded game to replay")
	seed := flag.Uint64("seed", 0, "Random seed")
	stepwise := flag.Bool("stepwise", false, "Play one game move by move through the game master")
	experiment := flag.String("experiment", "", "Search experiment to run: parallelization or cutoff")
	budget := flag.Duration("budget", 10*time.Millisecond, "Search time per move in experiments")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	// Flags given on the command line win over the config file and the environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "layout":
			cfg.Layout = *layout
		case "primary":
			cfg.Primary = *primary
		case "pursuer":
			cfg.Pursuer = *pursuer
		case "pursuers":
			cfg.NumPursuers = *numPursuers
		case "agent-args":
			cfg.AgentArgs = *agentArgs
		case "n":
			cfg.NumGames = *numGames
		case "x":
			cfg.NumTraining = *numTraining
		case "display":
			cfg.Display = *displayName
		case "frame-time":
			cfg.FrameTime = *frameTime
		case "timeouts":
			cfg.Timeouts = *timeouts
		case "timeout":
			cfg.Timeout = *timeout
			cfg.Timeouts = true
		case "record":
			cfg.RecordDir = *recordDir
		case "export":
			cfg.Export = *export
		case "metrics":
			cfg.MetricsDir = *metricsDir
		case "seed":
			cfg.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := config.SetupLogging(cfg.LogLevel, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rand.Seed(cfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *replay != "":
		err = runReplay(ctx, cfg, *replay)
	case *stepwise:
		err = runStepwise(ctx, cfg)
	case *experiment != "":
		err = runExperiment(ctx, cfg, *experiment, *budget)
	default:
		err = runGames(ctx, cfg)
	}
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func newDisplay(cfg config.Config) engine.Display {
	switch cfg.Display {
	case "tui":
		return display.NewTUI(cfg.FrameTime)
	case "text":
		return display.NewText(os.Stdout, 1, cfg.FrameTime)
	default:
		return display.Null{}
	}
}

func gamesConfig(cfg config.Config) (experiments.Config, error) {
	board, err := game.LoadBoard(cfg.Layout, cfg.LayoutDirs...)
	if err != nil {
		return experiments.Config{}, err
	}
	args, err := agents.ParseArgs(cfg.AgentArgs)
	if err != nil {
		return experiments.Config{}, err
	}

	games := experiments.Config{
		Board:       board,
		Rules:       &cfg.Rules,
		NumPursuers: cfg.NumPursuers,
		Primary:     cfg.Primary,
		Pursuer:     cfg.Pursuer,
		AgentArgs:   args,
		Registry:    agents.Default(cfg.Seed),
		NumGames:    cfg.NumGames,
		NumTraining: cfg.NumTraining,
		Display:     newDisplay(cfg),
		RecordDir:   cfg.RecordDir,
		Export:      cfg.Export,
		MetricsDir:  cfg.MetricsDir,
	}
	if cfg.Timeouts {
		timeouts := engine.ClassicTimeouts(cfg.Timeout)
		games.Timeouts = &timeouts
	}
	return games, nil
}

func runGames(ctx context.Context, cfg config.Config) error {
	games, err := gamesConfig(cfg)
	if err != nil {
		return err
	}
	summary, err := experiments.RunGames(ctx, games)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func runExperiment(ctx context.Context, cfg config.Config, name string, budget time.Duration) error {
	configs, ok := experiments.Experiments[name]
	if !ok {
		return fmt.Errorf("unknown experiment %q", name)
	}
	games, err := gamesConfig(cfg)
	if err != nil {
		return err
	}
	games.Display = nil
	summaries, err := experiments.RunSearchExperiment(ctx, name, games, configs(budget))
	if err != nil {
		return err
	}
	for i, summary := range summaries {
		fmt.Printf("Configuration %d\n%s\n", i+1, summary)
	}
	return nil
}

func runStepwise(ctx context.Context, cfg config.Config) error {
	games, err := gamesConfig(cfg)
	if err != nil {
		return err
	}
	initial := game.NewGameState(games.Board, games.Rules, games.NumPursuers)
	players, err := games.Registry.ForState(initial, games.Primary, games.Pursuer, games.AgentArgs)
	if err != nil {
		return err
	}

	c := player.NewLocalController(players, gamemaster.NewLocalEngine(initial, 0), games.Display)
	final, steps, err := c.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Score: %d after %d moves\n", final.Score(), len(steps))
	return nil
}

func runReplay(ctx context.Context, cfg config.Config, path string) error {
	rec, err := record.Load(path)
	if err != nil {
		return err
	}
	// Recordings carry their own rules, the configured ones only apply to new games
	final, err := gamemaster.Replay(ctx, rec, newDisplay(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("Replayed %s: score %d\n", rec.ID, final.Score())
	return nil
}
