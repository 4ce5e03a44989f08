// Package platform connects the engine to whatever presents frames and
// produces input: a terminal or a scripted headless run.
package platform

import (
	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
)

// Platform owns the output surface and the input source.
type Platform interface {
	Startup(applicationName string) error

	// PumpMessages moves pending input into keys and fires the matching
	// events. It never blocks and returns false once the user asked to quit.
	PumpMessages(keys *core.Keys, events *core.EventBus) bool

	Backend() renderer.Backend
	Shutdown() error
}

// held tracks keys reported as pressed by sources that never report
// releases. They are released on the next pump.
type held []core.Key

func (h *held) release(keys *core.Keys, events *core.EventBus, sender any) {
	for _, k := range *h {
		keys.SetKeyState(k, core.KeyReleased)
		events.Fire(core.EVENT_CODE_KEY_RELEASED, sender, core.EventContext{Key: k})
	}
	*h = (*h)[:0]
}

func (h *held) press(keys *core.Keys, events *core.EventBus, sender any, k core.Key) {
	if !keys.SetKeyState(k, core.KeyPressed) {
		return
	}
	*h = append(*h, k)
	events.Fire(core.EVENT_CODE_KEY_PRESSED, sender, core.EventContext{Key: k})
}
