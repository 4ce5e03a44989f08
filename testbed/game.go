// Package testbed is a small pixel editor built on the engine: a cursor
// moved with WASD, space toggles the pixel under it, c clears the grid.
package testbed

import (
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/spaghettifunk/graphpunk/engine"
	"github.com/spaghettifunk/graphpunk/engine/config"
	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/drawing"
	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
	"github.com/spaghettifunk/graphpunk/engine/resources"
	"github.com/spaghettifunk/graphpunk/engine/shader"
	"github.com/spaghettifunk/graphpunk/engine/systems"
)

// Message ids and store keys used by the testbed.
const (
	MessageToggle = "testbed.toggle"
	MessageClear  = "testbed.clear"

	CursorKey  = "testbed.cursor"
	StatusKey  = "testbed.status"
	CounterKey = "testbed.toggles"
)

var (
	cursorColor = math.NewVec4(1, 0.2, 0.2, 1)
	flashColor  = math.NewVec4(1, 1, 0.2, 1)
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	cursor math.Vec2i
	width  uint32
	height uint32
}

func NewTestGame(cfg config.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			Config: cfg,
			State:  core.NewUserData(&gameState{}),
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func state(u *core.UserData) *gameState {
	s, ok := core.UserDataAs[*gameState](u)
	if !ok {
		panic("testbed: game state missing")
	}
	return s
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogInfo("initializing testbed...")

	store := e.Store()
	resources.Add(store, CounterKey, 0)

	err := resources.With(store, shader.Basic2D, func(p *shader.Program) error {
		cursor, err := drawing.NewRectangle(p, cursorColor, math.NewVec3Zero(), math.NewVec3One())
		if err != nil {
			return err
		}
		resources.Add[renderer.Drawable](store, CursorKey, cursor)
		return nil
	})
	if err != nil {
		return err
	}

	err = resources.With(store, shader.BasicText, func(p *shader.Program) error {
		status, err := drawing.NewText(p, drawing.DefaultFont(), math.NewVec4(0.6, 0.6, 0.6, 1), math.NewVec3Zero(), statusText(0))
		if err != nil {
			return err
		}
		resources.Add[renderer.Drawable](store, StatusKey, status)
		return nil
	})
	if err != nil {
		return err
	}

	e.Dispatcher().Register(MessageToggle, onToggle)
	e.Dispatcher().Register(MessageClear, onClear)
	return nil
}

func (g *TestGame) Update(e *engine.Engine, keys *core.Keys, data *core.UserData, deltaTime float64) error {
	s := state(data)
	size := e.Renderer().DisplaySize()

	moved := false
	step := func(key core.Key, dx, dy int32) {
		if keys.JustPressed(key) {
			s.cursor.X = math.Clamp(s.cursor.X+dx, 0, size.X-1)
			s.cursor.Y = math.Clamp(s.cursor.Y+dy, 0, size.Y-1)
			moved = true
		}
	}
	step(core.KeyW, 0, -1)
	step(core.KeyS, 0, 1)
	step(core.KeyA, -1, 0)
	step(core.KeyD, 1, 0)

	if moved {
		err := resources.WithMut(e.Store(), CursorKey, func(d *renderer.Drawable) error {
			(*d).SetPosition(math.NewVec3(float32(s.cursor.X), float32(s.cursor.Y), 0))
			return nil
		})
		if err != nil {
			return err
		}
	}

	if keys.JustPressed(core.KeySpace) {
		if err := e.Dispatcher().AddMessage(MessageToggle, core.NewUserData(s.cursor)); err != nil {
			return err
		}
	}
	if keys.JustPressed(core.KeyC) {
		if err := e.Dispatcher().AddMessage(MessageClear, nil); err != nil {
			return err
		}
	}
	return nil
}

func onToggle(r *renderer.Renderer, store *resources.Store, payload *core.UserData) {
	at, ok := core.UserDataAs[math.Vec2i](payload)
	if !ok {
		core.LogWarn("%s without a position", MessageToggle)
		return
	}
	if err := r.ToggleGridPixel(store, int(at.X), int(at.Y)); err != nil {
		core.LogError("toggle %d,%d: %v", at.X, at.Y, err)
		return
	}

	count := 0
	err := resources.WithMut(store, CounterKey, func(n *int) error {
		*n++
		count = *n
		return nil
	})
	if err != nil {
		core.LogError("counting toggles: %v", err)
		return
	}
	setStatus(store, statusText(count))

	// Flashes overlap; the newest one is applied last and wins.
	resources.AddAnonymous(store, systems.NewColorTween(CursorKey, flashColor, cursorColor, 0.3, ease.OutQuad))
}

func onClear(r *renderer.Renderer, store *resources.Store, _ *core.UserData) {
	if err := r.ClearGridPixel(store); err != nil {
		core.LogError("clearing grid: %v", err)
		return
	}
	setStatus(store, "cleared")
	resources.AddAnonymous(store, systems.NewColorTween(CursorKey, math.NewVec4(1, 1, 1, 1), cursorColor, 0.5, ease.Linear))
}

func setStatus(store *resources.Store, text string) {
	err := resources.WithMut(store, StatusKey, func(d *renderer.Drawable) error {
		if t, ok := (*d).(*drawing.Text); ok {
			t.SetText(text)
		}
		return nil
	})
	if err != nil {
		core.LogWarn("status: %v", err)
	}
}

func statusText(toggles int) string {
	return fmt.Sprintf("toggles %d", toggles)
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	s := state(g.State)
	s.width = width
	s.height = height
	core.LogDebug("testbed viewport %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	return nil
}

// Cursor returns the grid position of the cursor.
func (g *TestGame) Cursor() math.Vec2i {
	return state(g.State).cursor
}
