package notify

// Package notify carries change notifications between observers of the
// document store. A notification names the mutated collection; observers must
// treat it as "re-fetch now", never as a diff. Two delivery paths exist: an
// in-process fanout for same-process observers and a Redis pub/sub relay for
// other processes sharing the same substrate.

import "context"

// Change identifies a mutated collection by its key.
type Change struct {
	Key string
}

// Bus publishes collection-change notifications to subscribers.
type Bus interface {
	// Publish notifies all subscribers that the collection under key changed.
	Publish(ctx context.Context, key string) error
	// Subscribe registers a new observer. The returned cancel func must be
	// called when the observer goes away. Slow observers lose notifications
	// rather than block publishers; a lost notification is harmless because
	// the next one triggers the same full re-fetch.
	Subscribe() (<-chan Change, func())
	// Close tears the bus down and closes all subscriber channels.
	Close() error
}
