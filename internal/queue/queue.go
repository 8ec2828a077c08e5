// Package queue is an in-process task queue: producers enqueue typed
// messages, per-kind worker pools dequeue and invoke the registered
// handler. Each kind gets its own channel and workers, so a handler that
// fans out messages of another kind never starves its own drain.
// Delivery is at-least-once from the handlers' point of view; handlers
// must be safe to re-run and their errors are logged, not retried.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const (
	defaultBufferSize = 128
	defaultWorkers    = 4
)

var ErrClosed = errors.New("queue is closed")

// Message is a unit of asynchronous work. Kind routes it to a handler.
type Message interface {
	Kind() string
}

// ScoreContent requests an asynchronous scoring pass for one record.
type ScoreContent struct {
	ContentID uuid.UUID
}

func (ScoreContent) Kind() string { return "score_content" }

// IngestContent requests an ingestion run over all configured providers.
type IngestContent struct {
	Limit int
}

func (IngestContent) Kind() string { return "ingest_content" }

type Handler func(ctx context.Context, msg Message) error

type kindQueue struct {
	ch      chan Message
	handler Handler
}

type Dispatcher struct {
	mu      sync.Mutex
	closed  bool
	quit    chan struct{}
	queues  map[string]*kindQueue
	buffer  int
	workers int
	senders sync.WaitGroup
	wg      sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithBufferSize(size int) DispatcherOption {
	return func(d *Dispatcher) {
		d.buffer = size
	}
}

func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.workers = n
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		quit:    make(chan struct{}),
		queues:  make(map[string]*kindQueue),
		buffer:  defaultBufferSize,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register binds a handler to a message kind and allocates its channel.
// Must be called before Start.
func (d *Dispatcher) Register(kind string, h Handler) {
	d.queues[kind] = &kindQueue{
		ch:      make(chan Message, d.buffer),
		handler: h,
	}
}

// Start launches one worker pool per registered kind. Workers exit when
// the context is cancelled or the queue is closed and drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for kind, q := range d.queues {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.work(ctx, q)
		}
		slog.Info("queue workers started", "kind", kind, "workers", d.workers)
	}
}

// Enqueue submits a message to its kind's channel. It blocks while that
// buffer is full and fails once the context is done or the dispatcher
// stopped. The lock is released before the send, so a slow consumer never
// wedges other producers or Stop.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	q, ok := d.queues[msg.Kind()]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("no handler registered for %q", msg.Kind())
	}
	d.senders.Add(1)
	d.mu.Unlock()
	defer d.senders.Done()

	select {
	case q.ch <- msg:
		return nil
	case <-d.quit:
		return ErrClosed
	case <-ctx.Done():
		return fmt.Errorf("enqueue %s: %w", msg.Kind(), ctx.Err())
	}
}

// Stop closes the queue, unblocks pending producers, and waits for the
// workers to drain every channel.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.quit)
	d.mu.Unlock()

	d.senders.Wait()
	for _, q := range d.queues {
		close(q.ch)
	}
	d.wg.Wait()
	slog.Info("queue dispatcher stopped")
}

func (d *Dispatcher) work(ctx context.Context, q *kindQueue) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-q.ch:
			if !ok {
				return
			}
			if err := q.handler(ctx, msg); err != nil {
				slog.Error("message handler failed", "kind", msg.Kind(), "error", err)
			}
		}
	}
}
