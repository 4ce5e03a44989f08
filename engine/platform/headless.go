package platform

import (
	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
)

// ScriptedEvent is input delivered by a Headless platform on one frame,
// counted from 0. Keys are pressed for that frame only.
type ScriptedEvent struct {
	Frame  uint64
	Key    core.Key
	Width  uint32
	Height uint32
	Quit   bool
}

// Headless replays a script of input and records every frame in memory.
type Headless struct {
	script  []ScriptedEvent
	frame   uint64
	backend *renderer.RecordingBackend
	held    held
}

func NewHeadless(width, height int32, script ...ScriptedEvent) *Headless {
	return &Headless{
		script:  script,
		backend: renderer.NewRecordingBackend(width, height),
	}
}

func (h *Headless) Startup(applicationName string) error {
	core.LogDebug("headless platform started for %s", applicationName)
	return nil
}

func (h *Headless) PumpMessages(keys *core.Keys, events *core.EventBus) bool {
	frame := h.frame
	h.frame++

	h.held.release(keys, events, h)
	for _, ev := range h.script {
		if ev.Frame != frame {
			continue
		}
		if ev.Quit {
			events.Fire(core.EVENT_CODE_APPLICATION_QUIT, h, core.EventContext{})
			return false
		}
		if ev.Width > 0 && ev.Height > 0 {
			h.backend.Resize(int32(ev.Width), int32(ev.Height))
			events.Fire(core.EVENT_CODE_RESIZED, h, core.EventContext{Width: ev.Width, Height: ev.Height})
		}
		if ev.Key != 0 {
			h.held.press(keys, events, h, ev.Key)
		}
	}
	return true
}

func (h *Headless) Backend() renderer.Backend {
	return h.backend
}

// Recording gives access to the recorded frames.
func (h *Headless) Recording() *renderer.RecordingBackend {
	return h.backend
}

// Frames is the number of times input was pumped.
func (h *Headless) Frames() uint64 {
	return h.frame
}

func (h *Headless) Shutdown() error {
	return nil
}
