// Package config loads run settings from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"time"

	"chase/game"
	"chase/meta"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Displays lists the accepted display names.
var Displays = []string{"tui", "text", "quiet"}

type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Layout      string            `yaml:"layout"`
	LayoutDirs  []string          `yaml:"layout_dirs"`
	Primary     string            `yaml:"primary"`
	Pursuer     string            `yaml:"pursuer"`
	NumPursuers int               `yaml:"num_pursuers"` // Negative keeps every pursuer of the layout
	AgentArgs   string            `yaml:"agent_args"`
	NumGames    int               `yaml:"num_games"`
	NumTraining int               `yaml:"num_training"` // Leading games played quietly and left out of the summary
	Display     string            `yaml:"display"`
	FrameTime   time.Duration     `yaml:"frame_time"`
	Timeouts    bool              `yaml:"timeouts"`
	Timeout     time.Duration     `yaml:"timeout"`
	RecordDir   string            `yaml:"record_dir"` // Empty disables recording
	Export      string            `yaml:"export"`     // Parquet export of recorded games
	MetricsDir  string            `yaml:"metrics_dir"`
	Seed        uint64            `yaml:"seed"`
	Rules       game.ClassicRules `yaml:"rules"`
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		Layout:      meta.LAYOUT,
		Primary:     "greedy",
		Pursuer:     "randompursuer",
		NumPursuers: 4,
		NumGames:    1,
		Display:     "tui",
		FrameTime:   meta.FRAME_TIME,
		Timeout:     meta.TIMEOUT,
		Seed:        1,
		Rules:       *game.NewClassicRules(),
	}
}

// Load builds a config from the defaults, then the YAML file at path (skipped when empty),
// then CHASE_* variables. Variables already in the environment win over those read from
// envFile; a missing envFile is ignored.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Msgf("no env file at %s", envFile)
		default:
			return cfg, fmt.Errorf("%s: %w", envFile, err)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.override(lookup); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) override(lookup func(string) (string, bool)) error {
	texts := map[string]*string{
		"CHASE_LOG_LEVEL":  &c.LogLevel,
		"CHASE_LAYOUT":     &c.Layout,
		"CHASE_PRIMARY":    &c.Primary,
		"CHASE_PURSUER":    &c.Pursuer,
		"CHASE_AGENT_ARGS": &c.AgentArgs,
		"CHASE_DISPLAY":    &c.Display,
		"CHASE_RECORD_DIR": &c.RecordDir,
		"CHASE_EXPORT":     &c.Export,
		"CHASE_METRICS":    &c.MetricsDir,
	}
	for key, field := range texts {
		if v, ok := lookup(key); ok {
			*field = v
		}
	}

	ints := map[string]*int{
		"CHASE_NUM_PURSUERS": &c.NumPursuers,
		"CHASE_NUM_GAMES":    &c.NumGames,
		"CHASE_NUM_TRAINING": &c.NumTraining,
	}
	for key, field := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
			}
			*field = n
		}
	}

	if v, ok := lookup("CHASE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: CHASE_TIMEOUT=%q is not a duration", ErrInvalidConfig, v)
		}
		c.Timeout = d
		c.Timeouts = true
	}
	if v, ok := lookup("CHASE_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: CHASE_SEED=%q is not a seed", ErrInvalidConfig, v)
		}
		c.Seed = seed
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.NumGames < 1:
		return fmt.Errorf("%w: num_games must be at least 1", ErrInvalidConfig)
	case c.NumTraining < 0 || c.NumTraining > c.NumGames:
		return fmt.Errorf("%w: num_training must be between 0 and num_games", ErrInvalidConfig)
	case !slices.Contains(Displays, c.Display):
		return fmt.Errorf("%w: unknown display %q", ErrInvalidConfig, c.Display)
	case c.Timeouts && c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	case c.FrameTime < 0:
		return fmt.Errorf("%w: frame_time cannot be negative", ErrInvalidConfig)
	case c.Rules.Tolerance < 0 || c.Rules.ScaredTicks < 0:
		return fmt.Errorf("%w: rules out of range", ErrInvalidConfig)
	case c.Rules.PrimarySpeed <= 0 || c.Rules.PrimarySpeed > 1 || c.Rules.PursuerSpeed <= 0 || c.Rules.PursuerSpeed > 1:
		// Agents faster than one cell per turn would skip over walls and pellets
		return fmt.Errorf("%w: speeds must be in (0, 1]", ErrInvalidConfig)
	case c.Rules.Clear <= 0:
		// Score evaluation is scaled by the clear bonus
		return fmt.Errorf("%w: clear_bonus must be positive", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SetupLogging points the global logger at w in human-readable form.
func SetupLogging(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly})
	return nil
}
