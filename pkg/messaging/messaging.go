package messaging

import "context"

// Publisher pushes domain events to a message broker. Implementations must be
// safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
	Close() error
}
