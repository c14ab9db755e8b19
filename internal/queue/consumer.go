// Package queue moves ingestion tasks between the broker and the pipeline:
// a supervised consumer that reconnects with a fixed backoff, and a publisher.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/ingestion"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/storage"
)

const (
	DefaultReconnectDelay = 5 * time.Second
	DefaultTaskTimeout    = 10 * time.Minute
)

// Processor runs one ingestion task.
type Processor interface {
	Process(ctx context.Context, task ingestion.Task) (*ingestion.Result, error)
}

// TaskLookup finds the document an earlier delivery of a task produced and
// how many chunks it holds.
type TaskLookup interface {
	DocumentByTaskID(ctx context.Context, taskID string) (*storage.Document, error)
	CountChunks(ctx context.Context, documentID int64) (int, error)
}

type ConsumerConfig struct {
	Queue          string
	ReconnectDelay time.Duration
	TaskTimeout    time.Duration
}

// Consumer pulls tasks from one durable queue and processes them strictly one
// at a time. A message is acked only after its task has been persisted.
type Consumer struct {
	broker    Broker
	processor Processor
	lookup    TaskLookup
	config    ConsumerConfig
	logger    *slog.Logger

	state      atomic.Int32
	processed  atomic.Int64
	failed     atomic.Int64
	requeued   atomic.Int64
	skipped    atomic.Int64
	reconnects atomic.Int64

	ctx       context.Context
	cancel    context.CancelFunc
	stopCh    chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewConsumer(broker Broker, processor Processor, lookup TaskLookup, config ConsumerConfig) *Consumer {
	if config.Queue == "" {
		config.Queue = "task_queue"
	}

	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = DefaultReconnectDelay
	}

	if config.TaskTimeout <= 0 {
		config.TaskTimeout = DefaultTaskTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Consumer{
		broker:    broker,
		processor: processor,
		lookup:    lookup,
		config:    config,
		logger:    logger.Component("consumer").With("queue", config.Queue),
		ctx:       ctx,
		cancel:    cancel,
		stopCh:    make(chan struct{}),
	}
	c.state.Store(int32(StateDisconnected))

	return c
}

// Start launches the supervisor goroutine. Calling it more than once has no
// effect.
func (c *Consumer) Start() {
	c.startOnce.Do(func() {
		c.wg.Add(1)
		go c.run()
		c.logger.Info("queue consumer started", "reconnect_delay", c.config.ReconnectDelay.String())
	})
}

// Stop abandons any pending dial, waits for the in-flight task to finish,
// closes the broker session and returns once the supervisor has exited.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.cancel()
		c.wg.Wait()
		c.state.Store(int32(StateStopped))
		c.logger.Info("queue consumer stopped")
	})
}

func (c *Consumer) State() State {
	return State(c.state.Load())
}

func (c *Consumer) Stats() Stats {
	return Stats{
		State:      c.State().String(),
		Processed:  c.processed.Load(),
		Failed:     c.failed.Load(),
		Requeued:   c.requeued.Load(),
		Skipped:    c.skipped.Load(),
		Reconnects: c.reconnects.Load(),
	}
}

func (c *Consumer) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Consumer) run() {
	defer c.wg.Done()

	for attempt := 0; ; attempt++ {
		if c.stopping() {
			return
		}

		if attempt > 0 {
			c.reconnects.Add(1)
		}

		c.setState(StateConnecting)

		stopped, err := c.session()
		if stopped {
			return
		}

		c.setState(StateDisconnected)
		c.logger.Warn("broker unavailable, retrying",
			"error", err,
			"retry_in", c.config.ReconnectDelay.String(),
		)

		if !c.backoff() {
			return
		}
	}
}

// session connects, consumes until the connection drops or Stop is called,
// and reports which of the two happened.
func (c *Consumer) session() (bool, error) {
	sess, err := c.broker.Connect(c.ctx)
	if err != nil {
		return false, err
	}

	defer func() {
		if err := sess.Close(); err != nil {
			c.logger.Debug("failed to close broker session", "error", err)
		}
	}()

	deliveries, err := sess.Consume(c.config.Queue)
	if err != nil {
		return false, err
	}

	c.setState(StateConsuming)
	c.logger.Info("listening for tasks")

	for {
		select {
		case <-c.stopCh:
			return true, nil

		case d, ok := <-deliveries:
			if !ok {
				return false, fmt.Errorf("%w: delivery channel closed", apperrors.ErrTransport)
			}

			// a stop that raced with this delivery wins; hand it back to the broker
			if c.stopping() {
				c.settle(d, "requeue on shutdown", func() error { return d.Nack(false, true) })
				return true, nil
			}

			c.handle(d)
		}
	}
}

func (c *Consumer) stopping() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

func (c *Consumer) backoff() bool {
	timer := time.NewTimer(c.config.ReconnectDelay)
	defer timer.Stop()

	select {
	case <-c.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

func (c *Consumer) handle(d amqp.Delivery) {
	var task ingestion.Task

	err := json.Unmarshal(d.Body, &task)
	if err != nil {
		err = fmt.Errorf("%w: %w", apperrors.ErrMalformedMessage, err)
	} else {
		err = task.Validate()
	}

	if err != nil {
		c.failed.Add(1)
		c.logger.Error("dropping malformed message", "error", err, "delivery_tag", d.DeliveryTag)
		c.settle(d, "reject malformed", func() error { return d.Reject(false) })

		return
	}

	log := c.logger.With("task_id", task.TaskID, "user_id", task.UserID)

	// in-flight tasks outlive Stop; only the task timeout bounds them
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.config.TaskTimeout)
	defer cancel()

	ctx = logger.WithContext(ctx, log)

	if d.Redelivered && c.alreadyIngested(ctx, log, task.TaskID) {
		c.skipped.Add(1)
		c.settle(d, "ack duplicate", func() error { return d.Ack(false) })

		return
	}

	log.Info("processing task", "file", task.OriginalName)

	res, err := c.processor.Process(ctx, task)
	if err != nil {
		c.dispose(log, d, err)
		return
	}

	c.processed.Add(1)
	log.Info("task complete", "document_id", res.DocumentID, "chunks", res.Chunks)
	c.settle(d, "ack", func() error { return d.Ack(false) })
}

func (c *Consumer) alreadyIngested(ctx context.Context, log *slog.Logger, taskID string) bool {
	if c.lookup == nil {
		return false
	}

	doc, err := c.lookup.DocumentByTaskID(ctx, taskID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false
	}

	if err != nil {
		log.Warn("could not check for an earlier delivery, processing anyway", "error", err)
		return false
	}

	chunks, err := c.lookup.CountChunks(ctx, doc.ID)
	if err != nil {
		log.Warn("could not count chunks of an earlier delivery, processing anyway", "document_id", doc.ID, "error", err)
		return false
	}

	// the earlier delivery died between creating the document and storing its chunks
	if chunks == 0 {
		log.Warn("earlier delivery left an incomplete document, processing again", "document_id", doc.ID)
		return false
	}

	log.Info("skipping redelivered task, document already exists", "document_id", doc.ID, "chunks", chunks)

	return true
}

// dispose settles a failed delivery according to the error kind: permanent
// failures are dropped, a first transient failure that wrote nothing is
// requeued once, everything else is dropped.
func (c *Consumer) dispose(log *slog.Logger, d amqp.Delivery, err error) {
	kind := apperrors.KindOf(err)
	retryable := kind == apperrors.KindTransient || kind == apperrors.KindResource

	if retryable && !d.Redelivered && !ingestion.DocumentCreated(err) {
		c.requeued.Add(1)
		log.Warn("task failed, requeueing", "error", err, "kind", kind.String())
		c.settle(d, "requeue", func() error { return d.Nack(false, true) })

		return
	}

	c.failed.Add(1)
	log.Error("task failed, dropping", "error", err, "kind", kind.String(), "redelivered", d.Redelivered)
	c.settle(d, "reject", func() error { return d.Reject(false) })
}

// settle runs an ack/nack/reject; a failure means the channel is gone and
// the broker will redeliver the message on the next session.
func (c *Consumer) settle(d amqp.Delivery, action string, fn func() error) {
	if err := fn(); err != nil {
		c.logger.Warn("failed to settle delivery", "action", action, "delivery_tag", d.DeliveryTag, "error", err)
	}
}
