package core

import "fmt"

// EventContext is the data attached to an immediate platform event.
type EventContext struct {
	Key    Key
	Width  uint32
	Height uint32
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed. Context usage: Key.
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released. Context usage: Key.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Resized/resolution changed from the platform. Context usage: Width, Height.
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, data EventContext) bool

type registeredEvent struct {
	listener string
	callback FnOnEvent
}

// EventBus fires platform events to listeners right away, in registration
// order. Deferred work belongs in the message dispatcher instead.
type EventBus struct {
	registered map[SystemEventCode][]registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]registeredEvent),
	}
}

// Register listens for code under the listener name. A listener name can
// only be registered once per code.
func (b *EventBus) Register(code SystemEventCode, listener string, onEvent FnOnEvent) error {
	for _, e := range b.registered[code] {
		if e.listener == listener {
			return fmt.Errorf("%w: %d/%s", ErrListenerExists, code, listener)
		}
	}
	b.registered[code] = append(b.registered[code], registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return nil
}

// Unregister removes the listener registered under name for code.
func (b *EventBus) Unregister(code SystemEventCode, listener string) error {
	events := b.registered[code]
	for i, e := range events {
		if e.listener == listener {
			b.registered[code] = append(events[:i], events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d/%s", ErrListenerMissing, code, listener)
}

// Fire sends the event to listeners of code. If a listener returns true the
// event is considered handled and is not passed on to any more listeners.
func (b *EventBus) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	for _, e := range b.registered[code] {
		if e.callback(code, sender, context) {
			return true
		}
	}
	return false
}

// Shutdown drops every listener.
func (b *EventBus) Shutdown() {
	b.registered = make(map[SystemEventCode][]registeredEvent)
}
