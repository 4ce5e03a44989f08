package engine

import (
	"github.com/spaghettifunk/graphpunk/engine/config"
	"github.com/spaghettifunk/graphpunk/engine/core"
)

// Game is the application side of the engine. Only FnUpdate is required.
type Game struct {
	Config config.ApplicationConfig
	// State is handed to every update, it is never touched by the engine.
	State        *core.UserData
	FnInitialize Initialize
	FnUpdate     Update
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

// Initialize runs once after the engine systems are up. The store already
// holds the builtin shader programs and, when configured, the pixel grid.
type Initialize func(e *Engine) error

// Update runs once per frame, after input was pumped and before messages are
// executed. Returning an error stops the engine.
type Update func(e *Engine, keys *core.Keys, state *core.UserData, deltaTime float64) error

type OnResize func(width uint32, height uint32) error

type Shutdown func() error
