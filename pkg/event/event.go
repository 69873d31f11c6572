// Package event dispatches named domain events to registered listeners.
package event

import (
	"context"
	"sync"
)

// Event names fired by the product controllers.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

type Event struct {
	Name    string
	Payload any
}

type Listener func(ctx context.Context, e Event)

// Dispatcher runs listeners synchronously in registration order. It is safe
// for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: map[string][]Listener{}}
}

func (d *Dispatcher) Listen(name string, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[name] = append(d.listeners[name], l)
}

// Dispatch is a no-op on a nil dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, payload any) {
	if d == nil {
		return
	}
	d.mu.RLock()
	ls := make([]Listener, len(d.listeners[name]))
	copy(ls, d.listeners[name])
	d.mu.RUnlock()

	e := Event{Name: name, Payload: payload}
	for _, l := range ls {
		l(ctx, e)
	}
}
