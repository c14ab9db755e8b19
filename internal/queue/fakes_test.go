package queue

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/ingestion"
	"codeberg.org/lumina/server/internal/storage"
)

type outcome struct {
	tag     uint64
	action  string // ack, nack, reject
	requeue bool
}

type fakeAcknowledger struct {
	mu       sync.Mutex
	outcomes []outcome
	settled  chan outcome
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{settled: make(chan outcome, 64)}
}

func (a *fakeAcknowledger) record(o outcome) error {
	a.mu.Lock()
	a.outcomes = append(a.outcomes, o)
	a.mu.Unlock()
	a.settled <- o

	return nil
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	return a.record(outcome{tag: tag, action: "ack"})
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	return a.record(outcome{tag: tag, action: "nack", requeue: requeue})
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.record(outcome{tag: tag, action: "reject", requeue: requeue})
}

type fakeSession struct {
	deliveries chan amqp.Delivery
	queue      string
	closeOnce  sync.Once
	closed     chan struct{}
}

func (s *fakeSession) Consume(queue string) (<-chan amqp.Delivery, error) {
	s.queue = queue
	return s.deliveries, nil
}

func (s *fakeSession) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

// drop simulates the broker connection going away
func (s *fakeSession) drop() {
	close(s.deliveries)
}

type fakeBroker struct {
	mu       sync.Mutex
	failures int
	attempts int
	hang     bool // Connect blocks until its ctx is cancelled
	sessions chan *fakeSession
}

func newFakeBroker(failures int) *fakeBroker {
	return &fakeBroker{failures: failures, sessions: make(chan *fakeSession, 8)}
}

func (b *fakeBroker) Connect(ctx context.Context) (Session, error) {
	b.mu.Lock()
	b.attempts++
	hang := b.hang
	b.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, errors.Join(apperrors.ErrTransport, ctx.Err())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures > 0 {
		b.failures--
		return nil, errors.Join(apperrors.ErrTransport, errors.New("connection refused"))
	}

	s := &fakeSession{deliveries: make(chan amqp.Delivery, 8), closed: make(chan struct{})}
	b.sessions <- s

	return s, nil
}

func (b *fakeBroker) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.attempts
}

type fakeProcessor struct {
	mu    sync.Mutex
	fn    func(ctx context.Context, task ingestion.Task) (*ingestion.Result, error)
	tasks []ingestion.Task
}

func (p *fakeProcessor) Process(ctx context.Context, task ingestion.Task) (*ingestion.Result, error) {
	p.mu.Lock()
	p.tasks = append(p.tasks, task)
	fn := p.fn
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, task)
	}

	return &ingestion.Result{DocumentID: 1, Chunks: 1}, nil
}

func (p *fakeProcessor) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.tasks)
}

type fakeLookup struct {
	docs   map[string]*storage.Document
	chunks map[int64]int
}

func (l *fakeLookup) DocumentByTaskID(_ context.Context, taskID string) (*storage.Document, error) {
	if doc, ok := l.docs[taskID]; ok {
		return doc, nil
	}

	return nil, apperrors.ErrNotFound
}

func (l *fakeLookup) CountChunks(_ context.Context, documentID int64) (int, error) {
	return l.chunks[documentID], nil
}

type fakePublishChannel struct {
	declared []string
	messages []amqp.Publishing
	keys     []string
	err      error
}

func (c *fakePublishChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}

	c.declared = append(c.declared, name)

	return amqp.Queue{Name: name}, nil
}

func (c *fakePublishChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}

	c.keys = append(c.keys, key)
	c.messages = append(c.messages, msg)

	return nil
}
