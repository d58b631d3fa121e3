// Package realtime delivers live notification events to connected clients.
//
// The core only depends on the Emitter interface: a publish function taking
// an audience, an event name, and a payload. Emission is fire and forget;
// failures are logged by callers and never affect the business transaction,
// which has already committed by the time an emit runs.
//
// Two implementations are provided: Hub pushes events over WebSocket
// connections, and InMemoryEmitter records events for tests and for wiring
// before a transport exists.
package realtime
