// meta/meta.go
package meta

import "time"

// GO_ROUTINES defines the number of goroutines a search agent uses.
const GO_ROUTINES = 8

// EPISODES defines the number of episodes for MCTS.
const EPISODES = 150

// WITH_CUTOFF defines the rollout depth after which MCTS evaluates instead of playing on.
const WITH_CUTOFF = 100

// MAX_CUTOFF bounds rollouts when no cutoff is configured.
const MAX_CUTOFF = 1000

// TIMEOUT defines the default per-agent time budget when timeouts are enforced.
const TIMEOUT = 30 * time.Second

// FRAME_TIME defines the default delay between display frames.
const FRAME_TIME = 100 * time.Millisecond

// LAYOUT defines the default board.
const LAYOUT = "mediumClassic"
