package realtime

import (
	"context"
	"log/slog"
	"sync"
)

// Emission is one recorded Emit call.
type Emission struct {
	Audience Audience
	Event    string
	Payload  any
}

// InMemoryEmitter records emissions instead of delivering them. It backs
// tests and local wiring where no WebSocket transport is running.
type InMemoryEmitter struct {
	mu        sync.RWMutex
	emissions []Emission
	logger    *slog.Logger

	// FailWith, when set, is returned from every Emit. Tests use it to
	// exercise the swallow-and-log path in the dispatcher.
	FailWith error
}

// NewInMemoryEmitter creates an emitter that records events in memory.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		logger: logger.With("component", "in_memory_emitter"),
	}
}

// Emit records the event.
func (e *InMemoryEmitter) Emit(_ context.Context, audience Audience, event string, payload any) error {
	if err := audience.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailWith != nil {
		return e.FailWith
	}
	e.emissions = append(e.emissions, Emission{Audience: audience, Event: event, Payload: payload})
	e.logger.Debug("recorded emission",
		"scope", audience.Scope,
		"event", event,
		"total", len(e.emissions))
	return nil
}

// Emissions returns a copy of everything emitted so far.
func (e *InMemoryEmitter) Emissions() []Emission {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Emission, len(e.emissions))
	copy(out, e.emissions)
	return out
}

// Reset clears the recorded emissions.
func (e *InMemoryEmitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.emissions = nil
}
