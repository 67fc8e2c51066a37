// Package transport defines the narrow capability surface the forwarding
// engine needs from a messaging platform, so the engine can be driven by
// a fake session in tests.
package transport

import "context"

// Target is a concrete delivery destination that can receive text.
type Target interface {
	// Send delivers one text message to the target.
	Send(ctx context.Context, text string) error
}

// Client is a live session with the messaging platform.
type Client interface {
	// Ready is closed once the session is connected and the engine may
	// start polling.
	Ready() <-chan struct{}

	// Channel returns a target from the session-local cache, if present.
	Channel(id int64) (Target, bool)

	// FetchChannel resolves a channel id over the network and validates
	// that the resulting target can receive text.
	FetchChannel(ctx context.Context, id int64) (Target, error)

	// Close shuts the session down. The engine calls it only after its
	// own loop has stopped.
	Close() error
}
