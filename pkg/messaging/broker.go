package messaging

import "context"

// Broker abstracts the pub/sub transport used by the outbox processor
// and any downstream consumers.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
