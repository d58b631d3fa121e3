// Package notify implements the notification fan-out pipeline: resolving
// recipients for an action, filtering them against user preferences,
// persisting the notification in the business transaction, and dispatching
// it to the realtime and email channels after commit.
//
// The pipeline is split along the transaction boundary. Resolver and
// Service run inside the transaction that performs the business mutation,
// so a notification never exists for a mutation that rolled back.
// Dispatcher runs strictly after commit and is best effort on both
// channels; its failures are logged, never surfaced to the caller.
package notify
