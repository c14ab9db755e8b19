package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker opens sessions against the message broker.
type Broker interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is one live connection+channel. The deliveries channel returned by
// Consume is closed when the connection drops.
type Session interface {
	Consume(queue string) (<-chan amqp.Delivery, error)
	Close() error
}

// State is the consumer's connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConsuming
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConsuming:
		return "consuming"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time snapshot of consumer counters.
type Stats struct {
	State      string `json:"state"`
	Processed  int64  `json:"processed"`
	Failed     int64  `json:"failed"`
	Requeued   int64  `json:"requeued"`
	Skipped    int64  `json:"skipped"`
	Reconnects int64  `json:"reconnects"`
}
