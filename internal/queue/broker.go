package queue

import (
	"context"
	"fmt"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "codeberg.org/lumina/server/internal/errors"
)

const (
	dialTimeout = 10 * time.Second
	heartbeat   = 10 * time.Second
)

// AMQPBroker dials RabbitMQ (or any AMQP 0-9-1 broker) at url.
type AMQPBroker struct {
	url string
}

func NewAMQPBroker(url string) *AMQPBroker {
	return &AMQPBroker{url: url}
}

// Connect dials the broker and opens a channel. Cancelling ctx aborts both the
// TCP dial and the AMQP handshake.
func (b *AMQPBroker) Connect(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Transient("dial broker", fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}

	var unwatch func() bool

	dial := func(network, addr string) (net.Conn, error) {
		d := net.Dialer{Timeout: dialTimeout}

		raw, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		// handshake deadline, cleared by the client once the connection is open
		if err := raw.SetDeadline(time.Now().Add(dialTimeout)); err != nil {
			raw.Close() //nolint:errcheck,gosec
			return nil, err
		}

		unwatch = context.AfterFunc(ctx, func() {
			raw.Close() //nolint:errcheck,gosec
		})

		return raw, nil
	}

	conn, err := amqp.DialConfig(b.url, amqp.Config{
		Heartbeat: heartbeat,
		Dial:      dial,
	})

	if unwatch != nil {
		unwatch()
	}

	if err != nil {
		return nil, apperrors.Transient("dial broker", fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() //nolint:errcheck,gosec
		return nil, apperrors.Transient("open channel", fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}

	return &amqpSession{conn: conn, ch: ch}, nil
}

type amqpSession struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Consume declares the durable queue, limits the channel to one unacked
// message and starts a manual-ack consumer.
func (s *amqpSession) Consume(queue string) (<-chan amqp.Delivery, error) {
	if err := declareQueue(s.ch, queue); err != nil {
		return nil, err
	}

	if err := s.ch.Qos(1, 0, false); err != nil {
		return nil, apperrors.Transient("set prefetch", fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}

	deliveries, err := s.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, apperrors.Transient("start consumer", fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}

	return deliveries, nil
}

func (s *amqpSession) Close() error {
	if !s.ch.IsClosed() {
		s.ch.Close() //nolint:errcheck,gosec
	}

	if s.conn.IsClosed() {
		return nil
	}

	return s.conn.Close()
}

type queueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

func declareQueue(ch queueDeclarer, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return apperrors.Transient("declare queue", fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}

	return nil
}
