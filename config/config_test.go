package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "file should be written")
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("", "")

		require.NoError(t, err, "defaults should be valid")
		require.Equal(t, Default(), cfg, "nothing should override the defaults")
		require.Equal(t, 30*time.Second, cfg.Timeout, "classic timeout")
		require.Equal(t, 500, cfg.Rules.Clear, "classic rules")
	})

	t.Run("yaml file", func(t *testing.T) {
		path := write(t, "chase.yaml", `
layout: smallClassic
primary: mcts
agent_args: episodes=20
num_games: 5
num_training: 2
display: quiet
frame_time: 10ms
timeouts: true
timeout: 2s
rules:
  scared_time: 10
`)
		cfg, err := Load(path, "")

		require.NoError(t, err, "config should load")
		require.Equal(t, "smallClassic", cfg.Layout)
		require.Equal(t, "mcts", cfg.Primary)
		require.Equal(t, "randompursuer", cfg.Pursuer, "unset keys keep their defaults")
		require.Equal(t, "episodes=20", cfg.AgentArgs)
		require.Equal(t, 5, cfg.NumGames)
		require.Equal(t, 2, cfg.NumTraining)
		require.Equal(t, 10*time.Millisecond, cfg.FrameTime, "durations should parse")
		require.True(t, cfg.Timeouts)
		require.Equal(t, 2*time.Second, cfg.Timeout)
		require.Equal(t, 10, cfg.Rules.ScaredTicks, "rules can be tuned")
		require.Equal(t, 0.7, cfg.Rules.Tolerance, "untuned rules keep their defaults")
	})

	t.Run("env file and environment", func(t *testing.T) {
		env := write(t, ".env", "CHASE_LAYOUT=trappedClassic\nCHASE_NUM_GAMES=3\nCHASE_DISPLAY=text\n")
		t.Setenv("CHASE_NUM_GAMES", "7")
		t.Setenv("CHASE_TIMEOUT", "5s")

		cfg, err := Load("", env)

		require.NoError(t, err, "config should load")
		require.Equal(t, "trappedClassic", cfg.Layout, "env file should apply")
		require.Equal(t, "text", cfg.Display, "env file should apply")
		require.Equal(t, 7, cfg.NumGames, "environment should win over the env file")
		require.True(t, cfg.Timeouts, "a timeout turns timeouts on")
		require.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("missing env file is ignored", func(t *testing.T) {
		_, err := Load("", filepath.Join(t.TempDir(), ".env"))

		require.NoError(t, err, "missing env file is fine")
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")

		require.ErrorIs(t, err, os.ErrNotExist, "explicit config file must exist")
	})

	t.Run("malformed values", func(t *testing.T) {
		t.Setenv("CHASE_NUM_PURSUERS", "many")
		_, err := Load("", "")

		require.ErrorIs(t, err, ErrInvalidConfig, "non-integer should be rejected")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(write(t, "bad.yaml", "num_games: [1"), "")

		require.Error(t, err, "broken yaml should fail")
	})
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(c *Config){
		"no games":          func(c *Config) { c.NumGames = 0 },
		"too much training": func(c *Config) { c.NumTraining = 2 },
		"unknown display":   func(c *Config) { c.Display = "graphics" },
		"zero timeout":      func(c *Config) { c.Timeouts, c.Timeout = true, 0 },
		"negative frame":    func(c *Config) { c.FrameTime = -time.Second },
		"bad rules":         func(c *Config) { c.Rules.PrimarySpeed = 0 },
		"fast primary":      func(c *Config) { c.Rules.PrimarySpeed = 1.5 },
		"fast pursuer":      func(c *Config) { c.Rules.PursuerSpeed = 2 },
		"stopped pursuer":   func(c *Config) { c.Rules.PursuerSpeed = 0 },
		"no clear bonus":    func(c *Config) { c.Rules.Clear = 0 },
		"negative bonus":    func(c *Config) { c.Rules.Clear = -500 },
		"bad log level":     func(c *Config) { c.LogLevel = "loud" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, "config should be rejected")
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		require.NoError(t, Default().Validate())
	})

	t.Run("slow agents", func(t *testing.T) {
		cfg := Default()
		cfg.Rules.PrimarySpeed, cfg.Rules.PursuerSpeed = 0.5, 1

		require.NoError(t, cfg.Validate(), "speeds up to one cell per turn are allowed")
	})
}

func TestSetupLogging(t *testing.T) {
	defer func(logger zerolog.Logger, level zerolog.Level) {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	}(log.Logger, zerolog.GlobalLevel())

	var out bytes.Buffer
	require.NoError(t, SetupLogging("warn", &out), "level should parse")

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	require.NotContains(t, out.String(), "hidden", "info is below the level")
	require.Contains(t, out.String(), "shown", "warn is at the level")
	require.Error(t, SetupLogging("loud", &out), "unknown level should fail")
}
