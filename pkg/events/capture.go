package events

import (
	"sync"
	"time"
)

// CaptureEmitter records events in memory for test assertions.
type CaptureEmitter struct {
	mu     sync.Mutex
	events []Event
}

// NewCaptureEmitter creates an empty capture emitter.
func NewCaptureEmitter() *CaptureEmitter {
	return &CaptureEmitter{}
}

var _ Emitter = (*CaptureEmitter)(nil)

// Emit implements Emitter.
func (c *CaptureEmitter) Emit(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if event.At.IsZero() {
		event.At = time.Now()
	}
	c.events = append(c.events, event)
}

// Events returns a copy of the captured events in emission order.
func (c *CaptureEmitter) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Named returns the captured events with the given name.
func (c *CaptureEmitter) Named(name string) []Event {
	var out []Event
	for _, e := range c.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
