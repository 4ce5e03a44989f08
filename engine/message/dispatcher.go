// Package message defers work to a fixed point of the frame.
//
// Game code registers a handler under a string id and posts payloads to that
// id at any time. Nothing runs until Execute, which the engine calls once
// per frame after the update callback. Each handler then receives its
// payloads in posting order, together with the renderer and the resource
// store.
package message

import (
	"runtime/debug"

	"github.com/spaghettifunk/graphpunk/engine/containers"
	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
	"github.com/spaghettifunk/graphpunk/engine/resources"
)

// Handler processes one payload. It may borrow from the store and post new
// messages; those are delivered on the next Execute.
type Handler func(r *renderer.Renderer, store *resources.Store, payload *core.UserData)

const initialQueueSize = 8

type registration struct {
	handler Handler
	queue   *containers.RingQueue[*core.UserData]
}

type Dispatcher struct {
	handlers map[string]*registration
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]*registration),
	}
}

// Register binds handler to id. Registering an id again replaces the handler
// and drops any payloads still queued for it.
func (d *Dispatcher) Register(id string, handler Handler) {
	d.handlers[id] = &registration{
		handler: handler,
		queue:   containers.NewGrowableRingQueue[*core.UserData](initialQueueSize),
	}
}

// Unregister removes the handler for id and its pending payloads.
func (d *Dispatcher) Unregister(id string) {
	delete(d.handlers, id)
}

func (d *Dispatcher) Registered(id string) bool {
	_, ok := d.handlers[id]
	return ok
}

// Pending is the number of payloads waiting for id.
func (d *Dispatcher) Pending(id string) int {
	reg, ok := d.handlers[id]
	if !ok {
		return 0
	}
	return reg.queue.Len()
}

// AddMessage queues payload for the handler of id. A nil payload is queued
// as empty user data.
func (d *Dispatcher) AddMessage(id string, payload *core.UserData) error {
	reg, ok := d.handlers[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if payload == nil {
		payload = core.EmptyUserData()
	}
	return reg.queue.Enqueue(payload)
}

// Execute delivers every queued payload. All queues are emptied before any
// handler runs, so anything posted while executing waits for the next call.
// The order between different ids is not defined. A panicking handler is
// logged and the remaining payloads are still delivered.
func (d *Dispatcher) Execute(r *renderer.Renderer, store *resources.Store) {
	type batch struct {
		id       string
		handler  Handler
		payloads []*core.UserData
	}
	var batches []batch
	for id, reg := range d.handlers {
		if reg.queue.IsEmpty() {
			continue
		}
		batches = append(batches, batch{id: id, handler: reg.handler, payloads: reg.queue.Drain()})
	}

	for _, b := range batches {
		for _, payload := range b.payloads {
			d.deliver(b.id, b.handler, r, store, payload)
		}
	}
}

func (d *Dispatcher) deliver(id string, handler Handler, r *renderer.Renderer, store *resources.Store, payload *core.UserData) {
	defer func() {
		if rec := recover(); rec != nil {
			core.LogError("message handler %q panicked: %v\n%s", id, rec, debug.Stack())
		}
	}()
	handler(r, store, payload)
}
