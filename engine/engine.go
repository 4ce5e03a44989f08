// Package engine runs the frame loop that ties the platform, the resource
// store, the message dispatcher and the renderer together.
package engine

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/spaghettifunk/graphpunk/engine/assets"
	"github.com/spaghettifunk/graphpunk/engine/assets/loaders"
	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/drawing"
	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/message"
	"github.com/spaghettifunk/graphpunk/engine/platform"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
	"github.com/spaghettifunk/graphpunk/engine/resources"
	"github.com/spaghettifunk/graphpunk/engine/shader"
	"github.com/spaghettifunk/graphpunk/engine/systems"
)

// Builtin message ids. Both carry the asset path, relative to the asset
// root, as a string payload.
const (
	// An asset changed on disk, it is loaded again in the background.
	MessageAssetChanged = "engine.asset_changed"
	// A loaded asset reached the store. Shader stages relink their program.
	MessageAssetLoaded = "engine.asset_loaded"
)

var ErrNoUpdate = errors.New("game has no update function")

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has shut down
	EngineStageShutdown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	platform     platform.Platform

	store      *resources.Store
	dispatcher *message.Dispatcher
	renderer   *renderer.Renderer
	events     *core.EventBus
	keys       *core.Keys

	assetManager *assets.AssetManager
	jobs         *systems.JobSystem
	loader       *systems.AssetLoader
	animations   *systems.AnimationSystem

	clock     *core.Clock
	metrics   *core.Metrics
	benchmark *core.Benchmark
	lastTime  float64
	frame     uint64
}

func New(g *Game, p platform.Platform) (*Engine, error) {
	if g.FnUpdate == nil {
		return nil, ErrNoUpdate
	}
	if err := g.Config.Validate(); err != nil {
		return nil, err
	}
	if g.State == nil {
		g.State = core.EmptyUserData()
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		platform:     p,
		store:        resources.NewStore(),
		dispatcher:   message.NewDispatcher(),
		events:       core.NewEventBus(),
		keys:         core.NewKeys(),
		animations:   systems.NewAnimationSystem(),
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		benchmark:    core.NewBenchmark(),
	}, nil
}

func (e *Engine) Initialize() error {
	cfg := e.gameInstance.Config
	e.currentStage = EngineStageInitializing

	if err := core.LogSetLevel(cfg.LogLevel); err != nil {
		return err
	}

	// register some events
	if err := e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, "engine", e.onEvent); err != nil {
		return err
	}
	if err := e.events.Register(core.EVENT_CODE_RESIZED, "engine", e.onResized); err != nil {
		return err
	}

	if err := e.platform.Startup(cfg.Name); err != nil {
		return err
	}

	e.renderer = renderer.New(math.Vec2i{X: cfg.Display.Width, Y: cfg.Display.Height}, e.platform.Backend())
	bg := cfg.Display.Background
	e.renderer.SetBackground(math.NewVec4(bg[0], bg[1], bg[2], bg[3]))

	for _, name := range shader.BuiltinNames() {
		p, err := shader.LoadBuiltin(name)
		if err != nil {
			return err
		}
		resources.Add(e.store, name, p)
	}

	if cfg.Display.PixelGrid {
		err := resources.With(e.store, shader.Basic2D, func(p *shader.Program) error {
			return drawing.AddPixelGrid(e.store, e.renderer, p, math.NewVec4(1, 1, 1, 1))
		})
		if err != nil {
			return fmt.Errorf("pixel grid: %w", err)
		}
	}

	jobs, err := systems.NewJobSystem(cfg.Jobs.Workers, cfg.Jobs.QueueSize)
	if err != nil {
		return err
	}
	e.jobs = jobs

	if cfg.Assets.Dir != "" {
		if err := e.initializeAssets(); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}

	size := e.renderer.Viewport()
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(uint32(size.X), uint32(size.Y)); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized: display %dx%d, viewport %dx%d", cfg.Name, cfg.Display.Width, cfg.Display.Height, size.X, size.Y)
	return nil
}

func (e *Engine) initializeAssets() error {
	cfg := e.gameInstance.Config

	am, err := assets.NewAssetManager()
	if err != nil {
		return err
	}
	if err := am.Initialize(cfg.Assets.Dir); err != nil {
		return err
	}
	e.assetManager = am
	e.loader = systems.NewAssetLoader(am, e.jobs)

	e.dispatcher.Register(MessageAssetChanged, e.onAssetChanged)
	e.dispatcher.Register(MessageAssetLoaded, onAssetLoaded)

	for _, p := range cfg.Assets.Preload {
		if err := e.loader.Request(context.Background(), p); err != nil {
			return err
		}
	}
	return nil
}

// Run drives frames until the platform or the game asks to quit, ctx is
// done, or the configured frame limit is reached.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine run before initialize (stage %d)", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true

	cfg := e.gameInstance.Config
	var targetFrameSeconds float64
	if cfg.Loop.TargetFPS > 0 {
		targetFrameSeconds = 1.0 / cfg.Loop.TargetFPS
	}

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if ctx.Err() != nil {
			core.LogInfo("context done, stopping")
			break
		}

		e.keys.UpdateLastKeyStates()
		if !e.platform.PumpMessages(e.keys, e.events) {
			e.isRunning = false
			break
		}

		if e.isSuspended {
			if err := sleep(ctx, 100*time.Millisecond); err != nil {
				break
			}
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := time.Now()

		if err := e.runFrame(delta); err != nil {
			core.LogError("Game update failed, shutting down.")
			return err
		}

		frameElapsedTime := time.Since(frameStartTime).Seconds()
		e.metrics.Update(delta)
		e.frame++
		if cfg.Loop.MaxFrames > 0 && e.frame >= cfg.Loop.MaxFrames {
			e.isRunning = false
		}

		// If there is time left, give it back to the OS.
		if remaining := targetFrameSeconds - frameElapsedTime; remaining > 0 && e.isRunning {
			if err := sleep(ctx, time.Duration(remaining*float64(time.Second))); err != nil {
				break
			}
		}

		e.lastTime = currentTime
	}

	return nil
}

func (e *Engine) runFrame(delta float64) error {
	var updateErr error
	e.bench("update", func() {
		updateErr = e.gameInstance.FnUpdate(e, e.keys, e.gameInstance.State, delta)
	})
	if updateErr != nil {
		return updateErr
	}

	e.bench("messages", func() {
		e.dispatcher.Execute(e.renderer, e.store)
	})

	e.bench("assets", e.syncAssets)

	e.bench("animations", func() {
		if err := e.animations.Update(e.store, float32(delta)); err != nil {
			core.LogWarn("animations: %v", err)
		}
	})

	e.bench("draw", func() {
		if err := e.renderer.DrawAll(e.store); err != nil {
			core.LogError("draw: %v", err)
		}
	})
	return nil
}

func (e *Engine) bench(name string, fn func()) {
	if e.gameInstance.Config.Loop.Benchmark {
		e.benchmark.Bench(name, fn)
		return
	}
	fn()
}

// syncAssets turns file changes into messages and moves finished loads into
// the store.
func (e *Engine) syncAssets() {
	if e.assetManager == nil {
		return
	}
	for _, p := range e.assetManager.Changes() {
		if err := e.dispatcher.AddMessage(MessageAssetChanged, core.NewUserData(p)); err != nil {
			core.LogError("queueing change of %s: %v", p, err)
		}
	}

	stored, err := e.loader.Sync(e.store)
	if err != nil {
		core.LogWarn("asset loading: %v", err)
	}
	for _, p := range stored {
		if err := e.dispatcher.AddMessage(MessageAssetLoaded, core.NewUserData(p)); err != nil {
			core.LogError("queueing load of %s: %v", p, err)
		}
	}
}

func (e *Engine) onAssetChanged(_ *renderer.Renderer, _ *resources.Store, payload *core.UserData) {
	p, ok := core.UserDataAs[string](payload)
	if !ok {
		core.LogWarn("%s without a path", MessageAssetChanged)
		return
	}
	if _, known := e.assetManager.Lookup(p); !known {
		return
	}
	// The frame must not wait on the job queue. A full queue retries the
	// change next frame.
	err := e.loader.TryRequest(context.Background(), p)
	switch {
	case errors.Is(err, systems.ErrQueueFull):
		if err := e.dispatcher.AddMessage(MessageAssetChanged, core.NewUserData(p)); err != nil {
			core.LogError("requeueing reload of %s: %v", p, err)
		}
	case err != nil:
		core.LogError("reloading %s: %v", p, err)
	}
}

// onAssetLoaded relinks the program of a shader stage once both of its
// stages are in the store. The program replaces any program of the same
// name; drawables keep the copy they were created with.
func onAssetLoaded(_ *renderer.Renderer, store *resources.Store, payload *core.UserData) {
	p, ok := core.UserDataAs[string](payload)
	if !ok {
		return
	}
	name, _, err := loaders.ShaderStage(p)
	if err != nil {
		return
	}
	dir := path.Dir(p)
	vertKey := path.Join(dir, name+".vert.glsl")
	fragKey := path.Join(dir, name+".frag.glsl")

	err = resources.With(store, vertKey, func(vert *shader.Shader) error {
		return resources.With(store, fragKey, func(frag *shader.Shader) error {
			program, err := shader.Build(name, vert, frag)
			if err != nil {
				return err
			}
			if err := program.Link(); err != nil {
				return err
			}
			resources.Add(store, name, program)
			return nil
		})
	})
	switch {
	case errors.Is(err, resources.ErrNotFound):
		core.LogDebug("program %s waits for its other stage", name)
	case err != nil:
		core.LogError("linking program %s: %v", name, err)
	default:
		core.LogInfo("program %s linked from %s", name, dir)
	}
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	var errs []error

	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.jobs != nil {
		errs = append(errs, e.jobs.Shutdown())
	}
	if e.assetManager != nil {
		errs = append(errs, e.assetManager.Close())
	}
	e.events.Shutdown()
	errs = append(errs, e.platform.Shutdown())

	if e.gameInstance.Config.Loop.Benchmark {
		e.benchmark.LogResults()
	}
	fps, frameTime := e.metrics.Frame()
	core.LogInfo("shut down after %d frames (%.1f fps, %.2f ms average frame)", e.frame, fps, frameTime)

	e.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Store() *resources.Store {
	return e.store
}

func (e *Engine) Dispatcher() *message.Dispatcher {
	return e.dispatcher
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

func (e *Engine) Events() *core.EventBus {
	return e.events
}

// Assets is nil when no asset directory is configured.
func (e *Engine) Assets() *assets.AssetManager {
	return e.assetManager
}

// Loader is nil when no asset directory is configured.
func (e *Engine) Loader() *systems.AssetLoader {
	return e.loader
}

func (e *Engine) Jobs() *systems.JobSystem {
	return e.jobs
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

// Frames is the number of frames run so far.
func (e *Engine) Frames() uint64 {
	return e.frame
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, context core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.")
		e.isRunning = false
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, context core.EventContext) bool {
	width, height := context.Width, context.Height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.renderer.SetViewportSize(int32(width), int32(height)); err != nil {
		core.LogError("%v", err)
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("%v", err)
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
