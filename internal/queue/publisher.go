package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/ingestion"
)

type publishChannel interface {
	queueDeclarer
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher enqueues ingestion tasks as persistent JSON messages on the
// default exchange.
type Publisher struct {
	ch    publishChannel
	conn  *amqp.Connection
	queue string
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: heartbeat,
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTransport, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTransport, err)
	}

	p, err := newPublisher(ch, queue)
	if err != nil {
		conn.Close() //nolint:errcheck,gosec
		return nil, err
	}

	p.conn = conn

	return p, nil
}

func newPublisher(ch publishChannel, queue string) (*Publisher, error) {
	if err := declareQueue(ch, queue); err != nil {
		return nil, err
	}

	return &Publisher{ch: ch, queue: queue}, nil
}

// Publish validates task, assigns a task id if it has none, and sends it. The
// task as sent is returned.
func (p *Publisher) Publish(ctx context.Context, task ingestion.Task) (ingestion.Task, error) {
	if task.TaskID == "" {
		task.TaskID = uuid.NewString()
	}

	if err := task.Validate(); err != nil {
		return task, err
	}

	body, err := json.Marshal(task)
	if err != nil {
		return task, fmt.Errorf("failed to encode task: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    task.TaskID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return task, apperrors.Transient("publish", fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}

	return task, nil
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}

	return p.conn.Close()
}
